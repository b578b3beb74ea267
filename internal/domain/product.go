package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a PPE product in the catalog
type Product struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	Name           string            `json:"name" db:"name"`
	Slug           string            `json:"slug" db:"slug"`
	SKU            string            `json:"sku" db:"sku"`
	Description    string            `json:"description" db:"description"`
	Price          float64           `json:"price" db:"price"`
	OldPrice       *float64          `json:"old_price,omitempty" db:"old_price"`
	CategoryID     uuid.UUID         `json:"category_id" db:"category_id"`
	ImageURL       string            `json:"image_url" db:"image_url"`
	Certifications []string          `json:"certifications" db:"certifications"`
	Specs          map[string]string `json:"specs" db:"specs"`
	Stock          int               `json:"stock" db:"stock"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// InStock reports whether the product currently has stock available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Category represents a product category (helmets, gloves, eyewear, ...)
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
