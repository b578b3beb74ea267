package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"safegear/internal/cart"
	"safegear/internal/domain"
	"safegear/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// VATRate is the fixed value-added-tax rate applied to every order
	VATRate = 0.16

	// DeliveryFee is the flat delivery fee in KSh
	DeliveryFee = 300.0
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingMpesaCode = errors.New("mpesa transaction code is required")
)

// Totals are the delivery-inclusive amounts computed at order placement
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	VAT        float64 `json:"vat"`
	Delivery   float64 `json:"delivery"`
	GrandTotal float64 `json:"grand_total"`
}

// CalculateTotals derives VAT, delivery and grand total from a cart subtotal
func CalculateTotals(subtotal float64) Totals {
	vat := subtotal * VATRate
	return Totals{
		Subtotal:   subtotal,
		VAT:        vat,
		Delivery:   DeliveryFee,
		GrandTotal: subtotal + vat + DeliveryFee,
	}
}

// Service turns the current cart into an immutable order submission. It is a
// one-shot transformation: on success the cart is cleared, on failure the cart
// is left intact so the customer can retry.
type Service struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewService creates a new checkout service
func NewService(orders repository.OrderRepository, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger,
	}
}

// PlaceOrder snapshots the aggregator's cart, computes totals, and persists the
// order. The snapshot is taken before submission so a concurrent cart mutation
// cannot change what was ordered.
func (s *Service) PlaceOrder(ctx context.Context, agg *cart.Aggregator, customer domain.Customer, payment domain.Payment) (*domain.Order, error) {
	if payment.Method == domain.PaymentMpesa && payment.MpesaCode == "" {
		return nil, ErrMissingMpesaCode
	}

	snapshot := agg.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := CalculateTotals(snapshot.TotalPrice())
	now := time.Now().UTC()

	order := &domain.Order{
		ID:         uuid.New(),
		Customer:   customer,
		Payment:    payment,
		Items:      snapshot.Items,
		Subtotal:   totals.Subtotal,
		VAT:        totals.VAT,
		Delivery:   totals.Delivery,
		GrandTotal: totals.GrandTotal,
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	// Only a successful submission empties the cart
	agg.Clear(ctx)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Float64("grand_total", order.GrandTotal),
		zap.Int("items", len(order.Items)),
	)

	return order, nil
}
