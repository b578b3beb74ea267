package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through fulfilment
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending confirmation",
	OrderStatusProcessing: "Being processed",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

// Label returns the human-readable label shown on status boards
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether the status is one of the known order statuses
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCOD   PaymentMethod = "cod"
)

// Customer holds the delivery contact captured at checkout
type Customer struct {
	FullName string `json:"full_name" db:"full_name"`
	Phone    string `json:"phone" db:"phone"`
	Location string `json:"location" db:"location"`
	City     string `json:"city" db:"city"`
}

// Payment holds the payment details captured at checkout
type Payment struct {
	Method    PaymentMethod `json:"method" db:"payment_method"`
	MpesaCode string        `json:"mpesa_code,omitempty" db:"mpesa_code"`
}

// Order is an immutable snapshot of a cart at the moment of checkout plus the
// delivery-inclusive totals
type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Customer   Customer    `json:"customer"`
	Payment    Payment     `json:"payment"`
	Items      []CartLine  `json:"items"`
	Subtotal   float64     `json:"subtotal" db:"subtotal"`
	VAT        float64     `json:"vat" db:"vat"`
	Delivery   float64     `json:"delivery" db:"delivery"`
	GrandTotal float64     `json:"grand_total" db:"grand_total"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}
