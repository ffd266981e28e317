package events

import (
    "time"

    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

type EventType string

const (
    ProductCreated        EventType = "product.created"
    ProductUpdated        EventType = "product.updated"
    ProductDeleted        EventType = "product.deleted"
    OrderCreated          EventType = "order.created"
    OrderUpdated          EventType = "order.updated"
    OrderCancelled        EventType = "order.cancelled"
    StockAdjustmentFailed EventType = "stock.adjustment_failed"
)

// CatalogEvent is the message published to the catalog-events topic after
// any catalog- or order-mutating operation.
type CatalogEvent struct {
    EventID     string            `json:"event_id"`
    Type        EventType         `json:"type"`
    ProductID   string            `json:"product_id,omitempty"`
    ProductCode string            `json:"product_code,omitempty"`
    OrderID     string            `json:"order_id,omitempty"`
    Items       []domain.LineItem `json:"items,omitempty"`
    Detail      string            `json:"detail,omitempty"`
    Timestamp   time.Time         `json:"timestamp"`
}

// Publisher is implemented by the Kafka producer; publishing is
// best-effort and never fails the originating operation.
type Publisher interface {
    Publish(event CatalogEvent)
}

// NopPublisher drops events; used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(CatalogEvent) {}
