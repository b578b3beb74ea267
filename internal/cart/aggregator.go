package cart

import (
	"context"
	"sync"
	"time"

	"safegear/internal/domain"

	"go.uber.org/zap"
)

// Aggregator holds the authoritative in-process copy of one visitor's cart and
// exposes the only mutation surface over it. Every mutation keeps the cart
// invariants: quantities stay >= 1 (anything lower removes the line), at most
// one line exists per product id, and line subtotals always equal quantity
// times the unit price recorded when the product was first added.
//
// Mutations never fail. Persistence is a best-effort side channel: each
// mutation writes the cart through the Store, and a failed write is logged and
// swallowed so the caller's view stays synchronous and infallible.
type Aggregator struct {
	mu     sync.Mutex
	cart   domain.Cart
	store  Store
	logger *zap.Logger
}

// NewAggregator restores the cart from the store, or starts a fresh empty cart
// when nothing is persisted or the stored entry cannot be read.
func NewAggregator(ctx context.Context, store Store, logger *zap.Logger) *Aggregator {
	a := &Aggregator{
		store:  store,
		logger: logger,
	}

	stored, err := store.Load(ctx)
	switch {
	case err == nil:
		a.cart = *stored
	case err == ErrCartNotFound:
		a.cart = domain.NewCart()
	default:
		logger.Warn("Failed to restore cart, starting empty", zap.Error(err))
		a.cart = domain.NewCart()
	}

	return a
}

// AddItem merges the line into the cart. If a line for the same product already
// exists, its quantity grows by the incoming quantity and the subtotal is
// recomputed at the existing line's unit price; the existing display and price
// fields win over the incoming ones. Otherwise the line is appended as given.
func (a *Aggregator) AddItem(ctx context.Context, line domain.CartLine) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if existing := a.cart.FindLine(line.ProductID); existing != nil {
		existing.Quantity += line.Quantity
		existing.Subtotal = float64(existing.Quantity) * existing.UnitPrice
	} else {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		line.Subtotal = float64(line.Quantity) * line.UnitPrice
		a.cart.Items = append(a.cart.Items, line)
	}

	a.touch()
	a.persist(ctx)
}

// UpdateQuantity sets the quantity of the line with the given product id and
// recomputes its subtotal at the line's recorded unit price. A quantity below 1
// removes the line instead. An unknown product id is a no-op that still
// persists the cart.
func (a *Aggregator) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		a.RemoveItem(ctx, productID)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if line := a.cart.FindLine(productID); line != nil {
		line.Quantity = quantity
		line.Subtotal = float64(quantity) * line.UnitPrice
		a.touch()
	}

	a.persist(ctx)
}

// RemoveItem drops the line with the given product id. Removing the last
// remaining line resets the cart to a brand-new empty instance with a fresh
// identifier and timestamps, and deletes the persisted entry.
func (a *Aggregator) RemoveItem(ctx context.Context, productID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := a.cart.Items[:0]
	for _, line := range a.cart.Items {
		if line.ProductID != productID {
			items = append(items, line)
		}
	}
	a.cart.Items = items

	if a.cart.IsEmpty() {
		a.cart = domain.NewCart()
		if err := a.store.Delete(ctx); err != nil {
			a.logger.Warn("Failed to delete persisted cart", zap.Error(err))
		}
		return
	}

	a.touch()
	a.persist(ctx)
}

// Clear unconditionally resets to a new empty cart with a new identifier
func (a *Aggregator) Clear(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart = domain.NewCart()
	a.persist(ctx)
}

// TotalPrice is the sum of all line subtotals, recomputed on every read
func (a *Aggregator) TotalPrice() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.cart.TotalPrice()
}

// IsEmpty reports whether the cart has no lines
func (a *Aggregator) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.cart.IsEmpty()
}

// Snapshot returns a copy of the cart; mutating the copy does not affect the
// aggregator.
func (a *Aggregator) Snapshot() domain.Cart {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := a.cart
	snapshot.Items = append([]domain.CartLine{}, a.cart.Items...)
	return snapshot
}

// touch bumps the cart's last-update timestamp
func (a *Aggregator) touch() {
	a.cart.UpdatedAt = time.Now().UTC()
}

// persist writes the cart through the store, swallowing failures. Callers must
// hold the mutex.
func (a *Aggregator) persist(ctx context.Context) {
	if err := a.store.Save(ctx, &a.cart); err != nil {
		a.logger.Warn("Failed to persist cart",
			zap.String("cart_id", a.cart.ID),
			zap.Error(err),
		)
	}
}
