package service

import (
	"context"
	"errors"
	"time"

	"safegear/internal/domain"
	"safegear/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidQuoteStatus = errors.New("unknown quote status")

// QuoteInput carries the fields a visitor submits with a quote request
type QuoteInput struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Message     string
}

// QuoteService defines the interface for the quote request workflow
type QuoteService interface {
	Submit(ctx context.Context, input QuoteInput) (*domain.QuoteRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error)
	List(ctx context.Context, status *domain.QuoteStatus, page, pageSize int) ([]*domain.QuoteRequest, int, error)
	Respond(ctx context.Context, id uuid.UUID, response string) (*domain.QuoteRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteRequest, error)
}

type quoteService struct {
	quoteRepo repository.QuoteRepository
}

// NewQuoteService creates a new instance of QuoteService
func NewQuoteService(quoteRepo repository.QuoteRepository) QuoteService {
	return &quoteService{quoteRepo: quoteRepo}
}

// Submit records a new quote request in the "new" state
func (s *quoteService) Submit(ctx context.Context, input QuoteInput) (*domain.QuoteRequest, error) {
	now := time.Now()
	quote := &domain.QuoteRequest{
		ID:          uuid.New(),
		CompanyName: input.CompanyName,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Message:     input.Message,
		Status:      domain.QuoteStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}

// Get retrieves one quote request
func (s *quoteService) Get(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error) {
	return s.quoteRepo.FindByID(ctx, id)
}

// List retrieves quote requests for the admin quote board
func (s *quoteService) List(ctx context.Context, status *domain.QuoteStatus, page, pageSize int) ([]*domain.QuoteRequest, int, error) {
	return s.quoteRepo.List(ctx, status, page, pageSize)
}

// Respond attaches a response note and marks the quote as responded
func (s *quoteService) Respond(ctx context.Context, id uuid.UUID, response string) (*domain.QuoteRequest, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote.Response = response
	quote.Status = domain.QuoteStatusResponded
	quote.UpdatedAt = time.Now()

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}

// UpdateStatus moves a quote request to a new workflow status
func (s *quoteService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteRequest, error) {
	if !status.Valid() {
		return nil, ErrInvalidQuoteStatus
	}

	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote.Status = status
	quote.UpdatedAt = time.Now()

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}
