package cart

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"safegear/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(context.Background(), NewMemoryStore(), zap.NewNop())
}

func helmetLine(quantity int) domain.CartLine {
	return domain.CartLine{
		ProductID:  "HH-01",
		Name:       "Hard Hat Type 1",
		Slug:       "hard-hat-type-1",
		SKU:        "HH-01",
		Category:   "Head Protection",
		UnitPrice:  850,
		Quantity:   quantity,
		InStock:    true,
		StockCount: 40,
	}
}

func TestAddItem_MergesQuantitiesAtFirstPrice(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(2))
	if got := agg.TotalPrice(); got != 1700 {
		t.Fatalf("expected total 1700 after first add, got %v", got)
	}

	// Second add carries a different price; the first recorded price must win
	repriced := helmetLine(3)
	repriced.UnitPrice = 999
	agg.AddItem(ctx, repriced)

	snapshot := agg.Snapshot()
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(snapshot.Items))
	}

	line := snapshot.Items[0]
	if line.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", line.Quantity)
	}
	if line.UnitPrice != 850 {
		t.Errorf("expected unit price 850, got %v", line.UnitPrice)
	}
	if line.Subtotal != 4250 {
		t.Errorf("expected subtotal 4250, got %v", line.Subtotal)
	}
	if got := agg.TotalPrice(); got != 4250 {
		t.Errorf("expected cart total 4250, got %v", got)
	}
}

func TestRemoveItem_LastLineResetsCart(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(2))
	originalID := agg.Snapshot().ID

	agg.RemoveItem(ctx, "HH-01")

	snapshot := agg.Snapshot()
	if !snapshot.IsEmpty() {
		t.Fatal("expected cart to be empty after removing its only line")
	}
	if snapshot.ID == originalID {
		t.Error("expected a freshly generated cart id after removing the last line")
	}
	if got := agg.TotalPrice(); got != 0 {
		t.Errorf("expected total 0, got %v", got)
	}
}

func TestRemoveItem_KeepsOtherLinesAndIdentifier(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(1))
	gloves := domain.CartLine{ProductID: "GL-07", Name: "Nitrile Gloves", UnitPrice: 450, Quantity: 2}
	agg.AddItem(ctx, gloves)
	originalID := agg.Snapshot().ID

	agg.RemoveItem(ctx, "HH-01")

	snapshot := agg.Snapshot()
	if len(snapshot.Items) != 1 || snapshot.Items[0].ProductID != "GL-07" {
		t.Fatalf("expected only GL-07 to remain, got %+v", snapshot.Items)
	}
	if snapshot.ID != originalID {
		t.Error("cart id must not change while lines remain")
	}
}

func TestUpdateQuantity_BelowOneRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		ctx := context.Background()
		agg := newTestAggregator(t)

		agg.AddItem(ctx, helmetLine(2))
		agg.UpdateQuantity(ctx, "HH-01", quantity)

		if !agg.IsEmpty() {
			t.Errorf("UpdateQuantity(%d) should remove the line", quantity)
		}
	}
}

func TestUpdateQuantity_UnknownProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(2))
	before := agg.Snapshot()

	agg.UpdateQuantity(ctx, "does-not-exist", 7)

	after := agg.Snapshot()
	if len(after.Items) != len(before.Items) || after.Items[0].Quantity != before.Items[0].Quantity {
		t.Errorf("unknown product id must not change the cart: before %+v after %+v", before.Items, after.Items)
	}
}

func TestUpdateQuantity_RecomputesSubtotalAtRecordedPrice(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(2))
	agg.UpdateQuantity(ctx, "HH-01", 7)

	line := agg.Snapshot().Items[0]
	if line.Quantity != 7 || line.Subtotal != 7*850 {
		t.Errorf("expected quantity 7 subtotal %v, got quantity %d subtotal %v", 7*850.0, line.Quantity, line.Subtotal)
	}
}

func TestClear_ResetsToFreshCart(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(t)

	agg.AddItem(ctx, helmetLine(3))
	originalID := agg.Snapshot().ID

	agg.Clear(ctx)

	snapshot := agg.Snapshot()
	if !snapshot.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
	if snapshot.ID == originalID {
		t.Error("expected a fresh cart id after clear")
	}
	if got := agg.TotalPrice(); got != 0 {
		t.Errorf("expected total 0 after clear, got %v", got)
	}
}

func TestAggregator_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := NewAggregator(ctx, store, zap.NewNop())
	first.AddItem(ctx, helmetLine(2))
	firstSnapshot := first.Snapshot()

	// A second aggregator over the same store simulates a page reload
	second := NewAggregator(ctx, store, zap.NewNop())
	secondSnapshot := second.Snapshot()

	if secondSnapshot.ID != firstSnapshot.ID {
		t.Errorf("expected restored cart id %s, got %s", firstSnapshot.ID, secondSnapshot.ID)
	}
	if len(secondSnapshot.Items) != 1 || secondSnapshot.Items[0].Quantity != 2 {
		t.Errorf("expected restored line contents, got %+v", secondSnapshot.Items)
	}
}

// brokenStore fails every operation to exercise the best-effort contract
type brokenStore struct{}

func (brokenStore) Load(ctx context.Context) (*domain.Cart, error) {
	return nil, errors.New("storage unavailable")
}

func (brokenStore) Save(ctx context.Context, cart *domain.Cart) error {
	return errors.New("storage unavailable")
}

func (brokenStore) Delete(ctx context.Context) error {
	return errors.New("storage unavailable")
}

func TestAggregator_StorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(ctx, brokenStore{}, zap.NewNop())

	if !agg.IsEmpty() {
		t.Fatal("unreadable storage must fall back to a fresh empty cart")
	}

	// Mutations must stay infallible even when every write fails
	agg.AddItem(ctx, helmetLine(2))
	agg.UpdateQuantity(ctx, "HH-01", 4)
	agg.RemoveItem(ctx, "HH-01")
	agg.Clear(ctx)

	if !agg.IsEmpty() {
		t.Error("expected empty cart after clear")
	}
}

// Repeated adds of the same product accumulate quantity and keep the
// first recorded unit price
func TestProperty_RepeatedAddsAccumulateQuantity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity is the sum of added quantities at the first price", prop.ForAll(
		func(quantities []int, price float64) bool {
			if len(quantities) == 0 {
				return true
			}

			ctx := context.Background()
			agg := newTestAggregator(t)

			expected := 0
			for _, q := range quantities {
				if q < 1 {
					q = 1
				}
				expected += q
				agg.AddItem(ctx, domain.CartLine{
					ProductID: "RS-22",
					Name:      "Respirator",
					UnitPrice: price,
					Quantity:  q,
				})
			}

			snapshot := agg.Snapshot()
			if len(snapshot.Items) != 1 {
				t.Logf("FAIL: expected one line, got %d", len(snapshot.Items))
				return false
			}

			line := snapshot.Items[0]
			if line.Quantity != expected {
				t.Logf("FAIL: expected quantity %d, got %d", expected, line.Quantity)
				return false
			}

			expectedSubtotal := float64(expected) * price
			if line.Subtotal != expectedSubtotal {
				t.Logf("FAIL: expected subtotal %v, got %v", expectedSubtotal, line.Subtotal)
				return false
			}

			return true
		},
		gen.SliceOf(gen.IntRange(1, 20)),
		gen.Float64Range(1, 100000),
	))

	properties.TestingRun(t)
}

// TotalPrice always equals the sum of line subtotals and is stable under
// repeated reads
func TestProperty_TotalPriceIsSumOfSubtotals(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total price equals the sum of every line subtotal", prop.ForAll(
		func(prices []float64) bool {
			ctx := context.Background()
			agg := newTestAggregator(t)

			for i, price := range prices {
				agg.AddItem(ctx, domain.CartLine{
					ProductID: "P-" + strconv.Itoa(i),
					UnitPrice: price,
					Quantity:  1 + i%5,
				})
			}

			snapshot := agg.Snapshot()
			if len(snapshot.Items) != len(prices) {
				t.Logf("FAIL: expected %d lines, got %d", len(prices), len(snapshot.Items))
				return false
			}

			var expected float64
			for _, line := range snapshot.Items {
				expected += line.Subtotal
			}

			first := agg.TotalPrice()
			second := agg.TotalPrice()

			if first != expected {
				t.Logf("FAIL: expected total %v, got %v", expected, first)
				return false
			}
			if first != second {
				t.Logf("FAIL: repeated reads disagree: %v vs %v", first, second)
				return false
			}

			return true
		},
		gen.SliceOf(gen.Float64Range(1, 10000)),
	))

	properties.TestingRun(t)
}
