package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"safegear/internal/domain"

	"github.com/google/uuid"
)

func testOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID: uuid.New(),
		Customer: domain.Customer{
			FullName: "Jane Wanjiku",
			Phone:    "+254712345678",
			Location: "Industrial Area",
			City:     "Nairobi",
		},
		Payment: domain.Payment{
			Method:    domain.PaymentMpesa,
			MpesaCode: "QWE123XYZ",
		},
		Items: []domain.CartLine{
			{
				ProductID:      "HH-01",
				Name:           "Hard Hat Type 1",
				Slug:           "hard-hat-type-1",
				SKU:            "HH-01",
				Category:       "Head Protection",
				Certifications: []string{"ANSI Z89.1"},
				Specs:          map[string]string{"material": "HDPE"},
				UnitPrice:      850,
				Quantity:       2,
				Subtotal:       1700,
				InStock:        true,
				StockCount:     40,
			},
			{ProductID: "BT-12", Name: "Safety Boots", SKU: "BT-12", UnitPrice: 7025, Quantity: 2, Subtotal: 14050},
		},
		Subtotal:   15750,
		VAT:        2520,
		Delivery:   300,
		GrandTotal: 18570,
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := testOrder()
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if found.Customer.FullName != "Jane Wanjiku" || found.Customer.City != "Nairobi" {
		t.Errorf("customer not preserved: %+v", found.Customer)
	}
	if found.Payment.Method != domain.PaymentMpesa || found.Payment.MpesaCode != "QWE123XYZ" {
		t.Errorf("payment not preserved: %+v", found.Payment)
	}
	if found.Subtotal != 15750 || found.VAT != 2520 || found.Delivery != 300 || found.GrandTotal != 18570 {
		t.Errorf("totals not preserved: %+v", found)
	}
	if found.Status != domain.OrderStatusPending {
		t.Errorf("expected pending status, got %s", found.Status)
	}

	if len(found.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(found.Items))
	}
	if found.Items[0].ProductID != "HH-01" || found.Items[1].ProductID != "BT-12" {
		t.Errorf("line order not preserved: %+v", found.Items)
	}

	line := found.Items[0]
	if line.Category != "Head Protection" || line.Specs["material"] != "HDPE" {
		t.Errorf("snapshotted display fields not preserved: %+v", line)
	}
	if line.UnitPrice != 850 || line.Quantity != 2 || line.Subtotal != 1700 {
		t.Errorf("line amounts not preserved: %+v", line)
	}
}

func TestOrderRepository_FindMissing(t *testing.T) {
	repo := NewOrderRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := testOrder()
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	found, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Status != domain.OrderStatusProcessing {
		t.Errorf("expected processing status, got %s", found.Status)
	}

	if err := repo.UpdateStatus(ctx, uuid.New(), domain.OrderStatusProcessing); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound for a missing order, got %v", err)
	}
}

func TestOrderRepository_ListFiltersByStatus(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	shipped := testOrder()
	shipped.Status = domain.OrderStatusShipped
	if err := repo.Create(ctx, shipped); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := domain.OrderStatusShipped
	orders, total, err := repo.List(ctx, &status, 1, 50)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total < 1 {
		t.Fatalf("expected at least one shipped order, got %d", total)
	}
	for _, o := range orders {
		if o.Status != domain.OrderStatusShipped {
			t.Errorf("expected only shipped orders, got %s", o.Status)
		}
		if len(o.Items) != 0 {
			t.Errorf("listings must not load line items, got %d", len(o.Items))
		}
	}
}
