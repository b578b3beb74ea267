package service

import (
	"context"
	"errors"
	"testing"

	"safegear/internal/domain"
	"safegear/internal/repository"

	"github.com/google/uuid"
)

// mockOrderRepository stores orders in memory for service tests
type mockOrderRepository struct {
	orders    map[uuid.UUID]*domain.Order
	updateErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) List(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	var out []*domain.Order
	for _, o := range m.orders {
		if status == nil || o.Status == *status {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func seedOrder(t *testing.T, repo *mockOrderRepository, status domain.OrderStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	repo.orders[id] = &domain.Order{
		ID:     id,
		Status: status,
		Customer: domain.Customer{
			FullName: "Jane Wanjiku",
			Phone:    "+254712345678",
			Location: "Industrial Area",
			City:     "Nairobi",
		},
	}
	return id
}

func TestOrderService_Track(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo)

	id := seedOrder(t, repo, domain.OrderStatusPending)

	order, err := svc.Track(context.Background(), id)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if order.ID != id || order.Status != domain.OrderStatusPending {
		t.Errorf("unexpected order: %+v", order)
	}

	if _, err := svc.Track(context.Background(), uuid.New()); !errors.Is(err, repository.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{"pending to processing", domain.OrderStatusPending, domain.OrderStatusProcessing, true},
		{"pending to cancelled", domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{"pending to shipped skips processing", domain.OrderStatusPending, domain.OrderStatusShipped, false},
		{"processing to shipped", domain.OrderStatusProcessing, domain.OrderStatusShipped, true},
		{"processing to cancelled", domain.OrderStatusProcessing, domain.OrderStatusCancelled, true},
		{"shipped to delivered", domain.OrderStatusShipped, domain.OrderStatusDelivered, true},
		{"shipped to cancelled", domain.OrderStatusShipped, domain.OrderStatusCancelled, false},
		{"delivered is terminal", domain.OrderStatusDelivered, domain.OrderStatusProcessing, false},
		{"cancelled is terminal", domain.OrderStatusCancelled, domain.OrderStatusPending, false},
		{"no self transition", domain.OrderStatusPending, domain.OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockOrderRepository()
			svc := NewOrderService(repo)
			id := seedOrder(t, repo, tt.from)

			order, err := svc.UpdateStatus(context.Background(), id, tt.to)

			if tt.allowed {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				if order.Status != tt.to {
					t.Errorf("expected status %s, got %s", tt.to, order.Status)
				}
				if repo.orders[id].Status != tt.to {
					t.Errorf("expected persisted status %s, got %s", tt.to, repo.orders[id].Status)
				}
			} else {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
				}
				if repo.orders[id].Status != tt.from {
					t.Errorf("a rejected transition must not change the stored status")
				}
			}
		})
	}
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo)
	id := seedOrder(t, repo, domain.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), id, domain.OrderStatus("misplaced"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestOrderService_UpdateStatus_MissingOrder(t *testing.T) {
	svc := NewOrderService(newMockOrderRepository())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusProcessing)
	if !errors.Is(err, repository.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_List_FiltersByStatus(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo)

	seedOrder(t, repo, domain.OrderStatusPending)
	seedOrder(t, repo, domain.OrderStatusPending)
	seedOrder(t, repo, domain.OrderStatusShipped)

	pending := domain.OrderStatusPending
	orders, total, err := svc.List(context.Background(), &pending, 1, 20)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Errorf("expected 2 pending orders, got %d (total %d)", len(orders), total)
	}
}
