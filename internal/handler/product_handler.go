package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogChangedNotifier is notified after any operation that changed
// the catalog, so subscribers can be pushed a fresh listing.
type CatalogChangedNotifier interface {
	CatalogChanged(ctx context.Context)
}

type ProductHandler struct {
	productService *service.ProductService
	notifier       CatalogChangedNotifier
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, notifier CatalogChangedNotifier, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		notifier:       notifier,
		logger:         logger,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Title:    c.Query("title"),
		Category: c.Query("category"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, h.logger, domain.Errorf(domain.KindInvalidQuery, "status must be a boolean, got %q", raw))
			return
		}
		filter.Status = &status
	}

	page, pageSize, err := parsePageArgs(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domain.WrapError(domain.KindValidation, "invalid request format", err))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifyCatalogChanged(c)
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domain.WrapError(domain.KindValidation, "invalid request format", err))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifyCatalogChanged(c)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifyCatalogChanged(c)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ProductHandler) notifyCatalogChanged(c *gin.Context) {
	if h.notifier != nil {
		h.notifier.CatalogChanged(c.Request.Context())
	}
}

// parsePageArgs applies the page=1, limit=10 defaults when the params
// are absent; explicit non-positive or non-numeric values are rejected.
func parsePageArgs(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, domain.Errorf(domain.KindInvalidQuery, "page must be a number, got %q", c.Query("page"))
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, domain.Errorf(domain.KindInvalidQuery, "limit must be a number, got %q", c.Query("limit"))
	}
	return page, pageSize, nil
}
