package ws

import (
	"context"
	"encoding/json"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"go.uber.org/zap"
)

// snapshotPageSize bounds the pushed listing; the catalog is small and
// the core supports listing everything cheaply.
const snapshotPageSize = 1000

type ProductLister interface {
	List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) (*domain.ProductPage, error)
}

// CatalogNotifier pushes a fresh product listing to every subscriber
// after a catalog-mutating operation.
type CatalogNotifier struct {
	hub      *Hub
	products ProductLister
	logger   *zap.Logger
}

func NewCatalogNotifier(hub *Hub, products ProductLister, logger *zap.Logger) *CatalogNotifier {
	return &CatalogNotifier{
		hub:      hub,
		products: products,
		logger:   logger,
	}
}

type catalogSnapshot struct {
	Type     string            `json:"type"`
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
}

func (n *CatalogNotifier) CatalogChanged(ctx context.Context) {
	if n.hub.ClientCount() == 0 {
		return
	}

	page, err := n.products.List(ctx, domain.ProductFilter{}, 1, snapshotPageSize)
	if err != nil {
		n.logger.Error("Failed to list products for broadcast", zap.Error(err))
		return
	}

	payload, err := json.Marshal(catalogSnapshot{
		Type:     "catalog",
		Products: page.Products,
		Total:    page.Total,
	})
	if err != nil {
		n.logger.Error("Failed to marshal catalog snapshot", zap.Error(err))
		return
	}

	n.hub.Broadcast(payload)
}
