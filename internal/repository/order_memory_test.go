package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

func newTestOrder(id, customer string, date time.Time) *domain.Order {
	o := domain.NewOrder(domain.CreateOrderRequest{
		OrderID:   id,
		Customer:  customer,
		OrderDate: date,
		SKUList:   []domain.LineItem{{SKU: "SKU-1", Quantity: 1}},
	})
	o.CreatedAt = date
	return o
}

func TestMemoryOrderStoreCRUD(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()
	date := time.Date(2026, 2, 1, 15, 30, 0, 0, time.UTC)

	order := newTestOrder("ORD-1", "Maria Lopez", date)
	if err := s.Create(ctx, order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, order); !domain.IsKind(err, domain.KindDuplicateID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}

	got, err := s.GetByID(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Customer != "Maria Lopez" {
		t.Fatalf("unexpected: %+v", got)
	}

	// mutating the returned order must not leak into the store
	got.SKUList[0].Quantity = 99
	fresh, _ := s.GetByID(ctx, "ORD-1")
	if fresh.SKUList[0].Quantity != 1 {
		t.Fatalf("store aliased returned slice")
	}

	updated := newTestOrder("ORD-1", "Maria L. Lopez", date)
	if err := s.Replace(ctx, "ORD-1", updated); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.Replace(ctx, "ORD-9", updated); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.Delete(ctx, "ORD-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "ORD-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := s.GetByID(ctx, "  "); !domain.IsKind(err, domain.KindInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestMemoryOrderStoreListFilters(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	day1 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	customers := []string{"Maria Lopez", "Juan Perez", "maribel santos"}
	for i, customer := range customers {
		date := day1
		if i == 2 {
			date = day2
		}
		order := newTestOrder(fmt.Sprintf("ORD-%d", i), customer, date.Add(time.Duration(i)*time.Hour))
		if err := s.Create(ctx, order); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	// case-insensitive substring
	page, err := s.List(ctx, domain.OrderFilter{Customer: "MARI"}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches for MARI, got %d", page.Total)
	}

	// any time within the calendar day matches
	page, err = s.List(ctx, domain.OrderFilter{Date: &day1}, 1, 10)
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 orders on day1, got %d", page.Total)
	}

	evening := time.Date(2026, 2, 2, 23, 59, 0, 0, time.UTC)
	page, err = s.List(ctx, domain.OrderFilter{Date: &evening}, 1, 10)
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if page.Total != 1 || page.Orders[0].OrderID != "ORD-2" {
		t.Fatalf("expected only ORD-2 on day2, got %+v", page.Orders)
	}

	if _, err := s.List(ctx, domain.OrderFilter{}, -1, 10); !domain.IsKind(err, domain.KindInvalidQuery) {
		t.Fatalf("expected invalid query, got %v", err)
	}
}
