package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus tracks a quote request through the admin review workflow
type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusReviewed  QuoteStatus = "reviewed"
	QuoteStatusResponded QuoteStatus = "responded"
	QuoteStatusClosed    QuoteStatus = "closed"
)

var quoteStatusLabels = map[QuoteStatus]string{
	QuoteStatusNew:       "New",
	QuoteStatusReviewed:  "Under review",
	QuoteStatusResponded: "Responded",
	QuoteStatusClosed:    "Closed",
}

// Label returns the human-readable label shown on the admin quote board
func (s QuoteStatus) Label() string {
	if label, ok := quoteStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether the status is one of the known quote statuses
func (s QuoteStatus) Valid() bool {
	_, ok := quoteStatusLabels[s]
	return ok
}

// QuoteRequest is a bulk-purchase enquiry submitted from the storefront
type QuoteRequest struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	CompanyName string      `json:"company_name" db:"company_name"`
	ContactName string      `json:"contact_name" db:"contact_name"`
	Email       string      `json:"email" db:"email"`
	Phone       string      `json:"phone" db:"phone"`
	Message     string      `json:"message" db:"message"`
	Status      QuoteStatus `json:"status" db:"status"`
	Response    string      `json:"response,omitempty" db:"response"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
