package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

// MemoryProductStore backs LOCAL_MODE runs and tests. Records are keyed
// by normalized code, matching the DynamoDB table layout.
type MemoryProductStore struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Product
	byID   map[string]string // id -> code
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		byCode: make(map[string]*domain.Product),
		byID:   make(map[string]string),
	}
}

func (s *MemoryProductStore) Create(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[product.Code]; exists {
		return domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", product.Code)
	}

	clone := *product
	s.byCode[product.Code] = &clone
	s.byID[product.ID] = product.Code
	return nil
}

func (s *MemoryProductStore) GetByCode(_ context.Context, code string) (*domain.Product, error) {
	code = domain.NormalizeCode(code)

	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.byCode[code]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "product with code %s not found", code)
	}
	clone := *product
	return &clone, nil
}

func (s *MemoryProductStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if err := domain.ValidateProductID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.byID[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "product with id %s not found", id)
	}
	clone := *s.byCode[code]
	return &clone, nil
}

func (s *MemoryProductStore) Update(_ context.Context, prevCode string, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[prevCode]; !exists {
		return domain.Errorf(domain.KindNotFound, "product with code %s not found", prevCode)
	}
	if prevCode != product.Code {
		if _, exists := s.byCode[product.Code]; exists {
			return domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", product.Code)
		}
		delete(s.byCode, prevCode)
	}

	clone := *product
	s.byCode[product.Code] = &clone
	s.byID[product.ID] = product.Code
	return nil
}

func (s *MemoryProductStore) Delete(_ context.Context, id string) error {
	if err := domain.ValidateProductID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.byID[id]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "product with id %s not found", id)
	}
	delete(s.byCode, code)
	delete(s.byID, id)
	return nil
}

func (s *MemoryProductStore) AdjustStock(_ context.Context, code string, delta int) (int, error) {
	code = domain.NormalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.byCode[code]
	if !ok {
		return 0, domain.Errorf(domain.KindNotFound, "product with code %s not found", code)
	}
	if product.Stock+delta < 0 {
		return 0, domain.Errorf(domain.KindInsufficientStock, "insufficient stock for %s (requested %d, available %d)", code, -delta, product.Stock)
	}

	product.Stock += delta
	product.UpdatedAt = time.Now().UTC()
	return product.Stock, nil
}

func (s *MemoryProductStore) List(_ context.Context, filter domain.ProductFilter, page, pageSize int) (*domain.ProductPage, error) {
	if err := validatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	s.mu.RLock()
	products := make([]*domain.Product, 0, len(s.byCode))
	for _, product := range s.byCode {
		if !matchProduct(product, filter) {
			continue
		}
		clone := *product
		products = append(products, &clone)
	}
	s.mu.RUnlock()

	sortProductsNewestFirst(products)

	total := len(products)
	start, end, totalPages := pageBounds(total, page, pageSize)

	return &domain.ProductPage{
		Products:   products[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func matchProduct(product *domain.Product, filter domain.ProductFilter) bool {
	if filter.Title != "" && product.Title != strings.ToUpper(strings.TrimSpace(filter.Title)) {
		return false
	}
	if filter.Category != "" && product.Category != strings.ToUpper(strings.TrimSpace(filter.Category)) {
		return false
	}
	if filter.Status != nil && product.Status != *filter.Status {
		return false
	}
	return true
}
