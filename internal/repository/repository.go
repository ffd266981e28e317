package repository

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

// ProductStore owns product records and their stock counters. AdjustStock
// is the only stock-mutating operation the order lifecycle is allowed to
// use; it must be atomic with respect to concurrent adjustments on the
// same code.
type ProductStore interface {
	List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) (*domain.ProductPage, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	// Update replaces the record previously stored under prevCode.
	Update(ctx context.Context, prevCode string, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock atomically adds delta to the stock of the product with
	// the given normalized code and returns the resulting stock. Negative
	// deltas are rejected with InsufficientStock when they would drive
	// stock below zero.
	AdjustStock(ctx context.Context, code string, delta int) (int, error)
}

// OrderStore is pure persistence for order records; it never touches
// product stock.
type OrderStore interface {
	List(ctx context.Context, filter domain.OrderFilter, page, pageSize int) (*domain.OrderPage, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Replace(ctx context.Context, id string, order *domain.Order) error
	Delete(ctx context.Context, id string) error
}

func validatePageArgs(page, pageSize int) error {
	if page < 1 || pageSize < 1 {
		return domain.Errorf(domain.KindInvalidQuery, "page and page size must be positive (got page=%d, pageSize=%d)", page, pageSize)
	}
	return nil
}

// pageBounds returns the slice bounds for the requested page over total
// items, along with the total page count.
func pageBounds(total, page, pageSize int) (start, end, totalPages int) {
	totalPages = (total + pageSize - 1) / pageSize
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, totalPages
}
