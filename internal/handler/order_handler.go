package handler

import (
	"net/http"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateQueryFormat = "2006-01-02"

type OrderHandler struct {
	orderService *service.OrderService
	notifier     CatalogChangedNotifier
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, notifier CatalogChangedNotifier, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		notifier:     notifier,
		logger:       logger,
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := domain.OrderFilter{
		Customer: c.Query("customer"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateQueryFormat, raw)
		if err != nil {
			respondError(c, h.logger, domain.Errorf(domain.KindInvalidQuery, "date must be YYYY-MM-DD, got %q", raw))
			return
		}
		filter.Date = &date
	}

	page, pageSize, err := parsePageArgs(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domain.WrapError(domain.KindValidation, "invalid request format", err))
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Order creation consumed stock, so the catalog view changed too.
	h.notifyCatalogChanged(c)
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req domain.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domain.WrapError(domain.KindValidation, "invalid request format", err))
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifyCatalogChanged(c)
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifyCatalogChanged(c)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *OrderHandler) notifyCatalogChanged(c *gin.Context) {
	if h.notifier != nil {
		h.notifier.CatalogChanged(c.Request.Context())
	}
}
