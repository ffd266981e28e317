package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

type MemoryOrderStore struct {
	mu sync.RWMutex
	m  map[string]*domain.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{m: make(map[string]*domain.Order)}
}

func (s *MemoryOrderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.m[order.OrderID]; exists {
		return domain.Errorf(domain.KindDuplicateID, "order %s already exists", order.OrderID)
	}

	clone := cloneOrder(order)
	s.m[order.OrderID] = clone
	return nil
}

func (s *MemoryOrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if err := domain.ValidateOrderID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.m[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "order %s not found", id)
	}
	return cloneOrder(order), nil
}

func (s *MemoryOrderStore) Replace(_ context.Context, id string, order *domain.Order) error {
	if err := domain.ValidateOrderID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return domain.Errorf(domain.KindNotFound, "order %s not found", id)
	}
	s.m[id] = cloneOrder(order)
	return nil
}

func (s *MemoryOrderStore) Delete(_ context.Context, id string) error {
	if err := domain.ValidateOrderID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return domain.Errorf(domain.KindNotFound, "order %s not found", id)
	}
	delete(s.m, id)
	return nil
}

func (s *MemoryOrderStore) List(_ context.Context, filter domain.OrderFilter, page, pageSize int) (*domain.OrderPage, error) {
	if err := validatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	s.mu.RLock()
	orders := make([]*domain.Order, 0, len(s.m))
	for _, order := range s.m {
		if !matchOrder(order, filter) {
			continue
		}
		orders = append(orders, cloneOrder(order))
	}
	s.mu.RUnlock()

	sortOrdersNewestFirst(orders)

	total := len(orders)
	start, end, totalPages := pageBounds(total, page, pageSize)

	return &domain.OrderPage{
		Orders:     orders[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func matchOrder(order *domain.Order, filter domain.OrderFilter) bool {
	if filter.Customer != "" {
		needle := strings.ToLower(strings.TrimSpace(filter.Customer))
		if !strings.Contains(strings.ToLower(order.Customer), needle) {
			return false
		}
	}
	if filter.Date != nil {
		if order.OrderDate.UTC().Format(orderDayFormat) != filter.Date.UTC().Format(orderDayFormat) {
			return false
		}
	}
	return true
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.SKUList = make([]domain.LineItem, len(order.SKUList))
	copy(clone.SKUList, order.SKUList)
	return &clone
}
