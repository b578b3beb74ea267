package checkout

import (
	"context"
	"errors"
	"math"
	"testing"

	"safegear/internal/cart"
	"safegear/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// mockOrderRepository records created orders and optionally fails
type mockOrderRepository struct {
	orders    []*domain.Order
	createErr error
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.New("order not found")
}

func (m *mockOrderRepository) List(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	return m.orders, len(m.orders), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return nil
}

func testCustomer() domain.Customer {
	return domain.Customer{
		FullName: "Jane Wanjiku",
		Phone:    "+254712345678",
		Location: "Industrial Area",
		City:     "Nairobi",
	}
}

func cartWithItems(t *testing.T, lines ...domain.CartLine) *cart.Aggregator {
	t.Helper()
	agg := cart.NewAggregator(context.Background(), cart.NewMemoryStore(), zap.NewNop())
	for _, line := range lines {
		agg.AddItem(context.Background(), line)
	}
	return agg
}

func TestCalculateTotals(t *testing.T) {
	totals := CalculateTotals(15750)

	if !approxEqual(totals.Subtotal, 15750) {
		t.Errorf("expected subtotal 15750, got %v", totals.Subtotal)
	}
	if !approxEqual(totals.VAT, 2520) {
		t.Errorf("expected VAT 2520, got %v", totals.VAT)
	}
	if !approxEqual(totals.Delivery, 300) {
		t.Errorf("expected delivery 300, got %v", totals.Delivery)
	}
	if !approxEqual(totals.GrandTotal, 18570) {
		t.Errorf("expected grand total 18570, got %v", totals.GrandTotal)
	}
}

func TestPlaceOrder_SuccessClearsCart(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepository{}
	svc := NewService(repo, zap.NewNop())

	agg := cartWithItems(t,
		domain.CartLine{ProductID: "HH-01", Name: "Hard Hat", UnitPrice: 850, Quantity: 2},
		domain.CartLine{ProductID: "BT-12", Name: "Safety Boots", UnitPrice: 7025, Quantity: 2},
	)

	order, err := svc.PlaceOrder(ctx, agg, testCustomer(), domain.Payment{Method: domain.PaymentCOD})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if !approxEqual(order.Subtotal, 15750) {
		t.Errorf("expected subtotal 15750, got %v", order.Subtotal)
	}
	if !approxEqual(order.VAT, 2520) {
		t.Errorf("expected VAT 2520, got %v", order.VAT)
	}
	if !approxEqual(order.GrandTotal, 18570) {
		t.Errorf("expected grand total 18570, got %v", order.GrandTotal)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 order items, got %d", len(order.Items))
	}
	if len(repo.orders) != 1 {
		t.Errorf("expected the order to be persisted, got %d", len(repo.orders))
	}
	if !agg.IsEmpty() {
		t.Error("expected the cart to be cleared after a successful order")
	}
}

func TestPlaceOrder_FailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepository{createErr: errors.New("database unavailable")}
	svc := NewService(repo, zap.NewNop())

	agg := cartWithItems(t, domain.CartLine{ProductID: "HH-01", UnitPrice: 850, Quantity: 2})

	_, err := svc.PlaceOrder(ctx, agg, testCustomer(), domain.Payment{Method: domain.PaymentCOD})
	if err == nil {
		t.Fatal("expected an error when the repository fails")
	}

	if agg.IsEmpty() {
		t.Error("a failed submission must leave the cart intact")
	}
	if got := agg.TotalPrice(); !approxEqual(got, 1700) {
		t.Errorf("expected total 1700 after failed checkout, got %v", got)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockOrderRepository{}, zap.NewNop())
	agg := cartWithItems(t)

	_, err := svc.PlaceOrder(ctx, agg, testCustomer(), domain.Payment{Method: domain.PaymentCOD})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrder_MpesaRequiresCode(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepository{}
	svc := NewService(repo, zap.NewNop())

	agg := cartWithItems(t, domain.CartLine{ProductID: "HH-01", UnitPrice: 850, Quantity: 1})

	_, err := svc.PlaceOrder(ctx, agg, testCustomer(), domain.Payment{Method: domain.PaymentMpesa})
	if !errors.Is(err, ErrMissingMpesaCode) {
		t.Fatalf("expected ErrMissingMpesaCode, got %v", err)
	}
	if agg.IsEmpty() {
		t.Error("a rejected payment must leave the cart intact")
	}

	order, err := svc.PlaceOrder(ctx, agg, testCustomer(), domain.Payment{Method: domain.PaymentMpesa, MpesaCode: "QWE123XYZ"})
	if err != nil {
		t.Fatalf("expected success with an mpesa code, got %v", err)
	}
	if order.Payment.MpesaCode != "QWE123XYZ" {
		t.Errorf("expected the mpesa code on the order, got %q", order.Payment.MpesaCode)
	}
}

// Grand total always decomposes into subtotal, VAT at the fixed rate, and the
// flat delivery fee
func TestProperty_TotalsDecomposition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("grand total = subtotal + VAT + delivery", prop.ForAll(
		func(subtotal float64) bool {
			totals := CalculateTotals(subtotal)

			if !approxEqual(totals.VAT, subtotal*VATRate) {
				t.Logf("FAIL: expected VAT %v, got %v", subtotal*VATRate, totals.VAT)
				return false
			}
			if !approxEqual(totals.Delivery, DeliveryFee) {
				t.Logf("FAIL: expected delivery %v, got %v", DeliveryFee, totals.Delivery)
				return false
			}
			if !approxEqual(totals.GrandTotal, totals.Subtotal+totals.VAT+totals.Delivery) {
				t.Logf("FAIL: grand total %v does not decompose", totals.GrandTotal)
				return false
			}
			return true
		},
		gen.Float64Range(1, 1e7),
	))

	properties.TestingRun(t)
}
