package cart

import (
	"context"
	"errors"
	"sync"

	"safegear/internal/domain"
)

// ErrCartNotFound is returned by a Store when no cart is persisted under its key.
var ErrCartNotFound = errors.New("cart not found")

// Store is the durable-storage adapter for one visitor's cart. Implementations
// are best-effort: the aggregator logs and swallows every error a Store returns,
// so a broken store degrades to an in-memory cart rather than failing mutations.
type Store interface {
	Load(ctx context.Context) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context) error
}

// MemoryStore keeps the cart in process memory. Used in tests and as a fallback
// when Redis is not configured.
type MemoryStore struct {
	mu   sync.RWMutex
	cart *domain.Cart
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cart == nil {
		return nil, ErrCartNotFound
	}

	// Copy so callers cannot mutate the stored cart in place
	stored := *s.cart
	stored.Items = append([]domain.CartLine{}, s.cart.Items...)
	return &stored, nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *cart
	stored.Items = append([]domain.CartLine{}, cart.Items...)
	s.cart = &stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	return nil
}
