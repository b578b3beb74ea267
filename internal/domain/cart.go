package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product-and-quantity entry in a cart. Unit price and the
// display fields are snapshotted at the time the product is added; later price
// changes in the catalog do not touch lines already in the cart.
type CartLine struct {
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	SKU            string            `json:"sku"`
	Category       string            `json:"category"`
	ImageURL       string            `json:"image_url"`
	Certifications []string          `json:"certifications,omitempty"`
	Specs          map[string]string `json:"specs,omitempty"`
	UnitPrice      float64           `json:"unit_price"`
	OldPrice       *float64          `json:"old_price,omitempty"`
	Quantity       int               `json:"quantity"`
	Subtotal       float64           `json:"subtotal"`
	InStock        bool              `json:"in_stock"`
	StockCount     int               `json:"stock_count"`
}

// Cart is the aggregate of everything the visitor intends to buy. Lines keep
// insertion order; there is at most one line per product id.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns a fresh empty cart with a new identifier and current
// timestamps.
func NewCart() Cart {
	now := time.Now().UTC()
	return Cart{
		ID:        uuid.NewString(),
		Items:     []CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalPrice is the sum of all line subtotals, recomputed on every call.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.Subtotal
	}
	return total
}

// IsEmpty reports whether the cart has no lines. An empty cart is a valid,
// observable state distinct from "not yet loaded".
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindLine returns the line for the given product id, or nil.
func (c *Cart) FindLine(productID string) *CartLine {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
