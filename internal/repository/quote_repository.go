package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"safegear/internal/domain"

	"github.com/google/uuid"
)

var ErrQuoteNotFound = errors.New("quote request not found")

// QuoteRepository defines the interface for quote request data access
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.QuoteRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error)
	List(ctx context.Context, status *domain.QuoteStatus, page, pageSize int) ([]*domain.QuoteRequest, int, error)
	Update(ctx context.Context, quote *domain.QuoteRequest) error
}

type quoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new instance of QuoteRepository
func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// Create inserts a new quote request using parameterized queries
func (r *quoteRepository) Create(ctx context.Context, quote *domain.QuoteRequest) error {
	query := `
		INSERT INTO quotes (id, company_name, contact_name, email, phone, message, status, response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		quote.ID,
		quote.CompanyName,
		quote.ContactName,
		quote.Email,
		quote.Phone,
		quote.Message,
		quote.Status,
		quote.Response,
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create quote request: %w", err)
	}

	return nil
}

// FindByID retrieves a quote request by ID using parameterized queries
func (r *quoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, message, status, response, created_at, updated_at
		FROM quotes
		WHERE id = $1
	`

	quote := &domain.QuoteRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quote.ID,
		&quote.CompanyName,
		&quote.ContactName,
		&quote.Email,
		&quote.Phone,
		&quote.Message,
		&quote.Status,
		&quote.Response,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to find quote request by ID: %w", err)
	}

	return quote, nil
}

// List retrieves quote requests with optional status filtering and pagination,
// newest first
func (r *quoteRepository) List(ctx context.Context, status *domain.QuoteStatus, page, pageSize int) ([]*domain.QuoteRequest, int, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		whereClause = fmt.Sprintf("WHERE status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quotes %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count quote requests: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, company_name, contact_name, email, phone, message, status, response, created_at, updated_at
		FROM quotes
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quote requests: %w", err)
	}
	defer rows.Close()

	quotes := []*domain.QuoteRequest{}
	for rows.Next() {
		quote := &domain.QuoteRequest{}
		err := rows.Scan(
			&quote.ID,
			&quote.CompanyName,
			&quote.ContactName,
			&quote.Email,
			&quote.Phone,
			&quote.Message,
			&quote.Status,
			&quote.Response,
			&quote.CreatedAt,
			&quote.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quote request: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating quote requests: %w", err)
	}

	return quotes, total, nil
}

// Update writes a quote request's status and response note
func (r *quoteRepository) Update(ctx context.Context, quote *domain.QuoteRequest) error {
	query := `
		UPDATE quotes
		SET status = $2, response = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, quote.ID, quote.Status, quote.Response, quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update quote request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrQuoteNotFound
	}

	return nil
}
