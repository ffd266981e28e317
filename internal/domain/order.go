package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LineItem struct {
	SKU      string `dynamodbav:"sku"      json:"sku"`
	Quantity int    `dynamodbav:"quantity" json:"quantity"`
}

type Order struct {
	OrderID   string     `dynamodbav:"order_id"    json:"order_id"`
	Customer  string     `dynamodbav:"customer"    json:"customer"`
	OrderDate time.Time  `dynamodbav:"order_date"  json:"order_date"`
	SKUList   []LineItem `dynamodbav:"sku_list"    json:"sku_list"`
	CreatedAt time.Time  `dynamodbav:"created_at"  json:"created_at"`
	UpdatedAt time.Time  `dynamodbav:"updated_at"  json:"updated_at"`
}

type CreateOrderRequest struct {
	OrderID   string     `json:"order_id"`
	Customer  string     `json:"customer"   binding:"required"`
	OrderDate time.Time  `json:"order_date" binding:"required"`
	SKUList   []LineItem `json:"sku_list"   binding:"required,min=1"`
}

// UpdateOrderRequest carries a partial order update; a nil SKUList keeps
// the stored line items.
type UpdateOrderRequest struct {
	Customer  *string    `json:"customer"`
	OrderDate *time.Time `json:"order_date"`
	SKUList   []LineItem `json:"sku_list"`
}

type OrderFilter struct {
	Customer string     // case-insensitive substring match
	Date     *time.Time // matches any time within that calendar day
}

type OrderPage struct {
	Orders     []*Order `json:"orders"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// NewOrder builds a normalized order record from a create request. A
// missing order id gets a generated UUID.
func NewOrder(req CreateOrderRequest) *Order {
	id := strings.TrimSpace(req.OrderID)
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Order{
		OrderID:   id,
		Customer:  strings.TrimSpace(req.Customer),
		OrderDate: req.OrderDate,
		SKUList:   NormalizeLineItems(req.SKUList),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeLineItems uppercases SKU codes and copies the slice so the
// caller's input is never aliased.
func NormalizeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = LineItem{SKU: NormalizeCode(item.SKU), Quantity: item.Quantity}
	}
	return out
}

// ApplyUpdate merges a partial update into a copy of o, normalizing any
// replaced line items.
func (o *Order) ApplyUpdate(req UpdateOrderRequest) *Order {
	merged := *o
	merged.SKUList = make([]LineItem, len(o.SKUList))
	copy(merged.SKUList, o.SKUList)
	if req.Customer != nil {
		merged.Customer = strings.TrimSpace(*req.Customer)
	}
	if req.OrderDate != nil {
		merged.OrderDate = *req.OrderDate
	}
	if req.SKUList != nil {
		merged.SKUList = NormalizeLineItems(req.SKUList)
	}
	merged.UpdatedAt = time.Now().UTC()
	return &merged
}

// SameLineItems reports whether two line-item lists are identical in
// order, SKU, and quantity.
func SameLineItems(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (o *Order) Validate() error {
	if err := ValidateOrderID(o.OrderID); err != nil {
		return err
	}
	if n := len(o.Customer); n < 3 || n > 100 {
		return NewError(KindValidation, "customer must be 3-100 characters")
	}
	if o.OrderDate.IsZero() {
		return NewError(KindValidation, "order date is required")
	}
	if len(o.SKUList) == 0 {
		return NewError(KindValidation, "sku list must contain at least one item")
	}
	for _, item := range o.SKUList {
		if item.SKU == "" {
			return NewError(KindValidation, "sku code is required on every line item")
		}
		if item.Quantity < 1 {
			return Errorf(KindValidation, "quantity for sku %s must be at least 1", item.SKU)
		}
	}
	return nil
}

func ValidateOrderID(id string) error {
	if strings.TrimSpace(id) == "" || id != strings.TrimSpace(id) {
		return Errorf(KindInvalidID, "malformed order id %q", id)
	}
	return nil
}
