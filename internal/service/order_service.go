package service

import (
    "context"
    "errors"

    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/events"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
    "go.uber.org/zap"
)

// OrderService coordinates the order lifecycle against the product and
// order stores. It is the only component that calls AdjustStock as an
// order side effect, and it owns the compensation logic that keeps stock
// counters consistent when a multi-step operation fails partway.
type OrderService struct {
    orders    repository.OrderStore
    products  repository.ProductStore
    validator *SKUValidator
    publisher events.Publisher
    logger    *zap.Logger
}

func NewOrderService(orders repository.OrderStore, products repository.ProductStore, validator *SKUValidator, publisher events.Publisher, logger *zap.Logger) *OrderService {
    return &OrderService{
        orders:    orders,
        products:  products,
        validator: validator,
        publisher: publisher,
        logger:    logger,
    }
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter, page, pageSize int) (*domain.OrderPage, error) {
    return s.orders.List(ctx, filter, page, pageSize)
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
    return s.orders.GetByID(ctx, id)
}

// Create validates the requested line items, decrements stock for each,
// and persists the order. A failed decrement partway through restores
// every already-applied item before the error is surfaced; a failed
// persist restores all of them.
func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
    order := domain.NewOrder(req)
    if err := order.Validate(); err != nil {
        return nil, err
    }

    if _, err := s.orders.GetByID(ctx, order.OrderID); err == nil {
        return nil, domain.Errorf(domain.KindDuplicateID, "order %s already exists", order.OrderID)
    } else if !domain.IsKind(err, domain.KindNotFound) {
        return nil, err
    }

    if err := s.validator.Validate(ctx, order.SKUList); err != nil {
        return nil, err
    }

    applied, err := s.adjustEach(ctx, order.SKUList, -1)
    if err != nil {
        s.logger.Warn("Stock decrement failed during order create",
            zap.String("order_id", order.OrderID),
            zap.Error(err))
        s.publishAdjustmentFailure(order.OrderID, order.SKUList, err)
        if cerr := s.compensate(ctx, applied, +1); cerr != nil {
            return nil, domain.CompensationError("stock rollback failed after aborted order create", err, cerr)
        }
        return nil, err
    }

    if err := s.orders.Create(ctx, order); err != nil {
        if cerr := s.compensate(ctx, order.SKUList, +1); cerr != nil {
            return nil, domain.CompensationError("stock rollback failed after order persist failure", err, cerr)
        }
        return nil, err
    }

    s.logger.Info("Order created",
        zap.String("order_id", order.OrderID),
        zap.String("customer", order.Customer),
        zap.Int("items", len(order.SKUList)))

    s.publisher.Publish(events.CatalogEvent{
        Type:    events.OrderCreated,
        OrderID: order.OrderID,
        Items:   order.SKUList,
    })

    return order, nil
}

// Update merges the partial update into the stored order. When the line
// items change, stock for the old list is restored first, the new list
// is validated against the restored counters, and only then decremented.
// A rejected validation re-takes the restored stock so the failed update
// leaks nothing.
func (s *OrderService) Update(ctx context.Context, id string, req domain.UpdateOrderRequest) (*domain.Order, error) {
    existing, err := s.orders.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }

    merged := existing.ApplyUpdate(req)
    if err := merged.Validate(); err != nil {
        return nil, err
    }

    listChanged := req.SKUList != nil && !domain.SameLineItems(merged.SKUList, existing.SKUList)

    if listChanged {
        if err := s.swapLineItems(ctx, existing.OrderID, existing.SKUList, merged.SKUList); err != nil {
            return nil, err
        }
    }

    if err := s.orders.Replace(ctx, id, merged); err != nil {
        if listChanged {
            if cerr := s.revertSwap(ctx, existing.SKUList, merged.SKUList); cerr != nil {
                return nil, domain.CompensationError("stock revert failed after order replace failure", err, cerr)
            }
        }
        return nil, err
    }

    s.logger.Info("Order updated",
        zap.String("order_id", id),
        zap.Bool("items_changed", listChanged))

    s.publisher.Publish(events.CatalogEvent{
        Type:    events.OrderUpdated,
        OrderID: id,
        Items:   merged.SKUList,
    })

    return merged, nil
}

// Delete restores the stock an order had decremented, then removes the
// record. If removal fails after the restore, the restored stock is left
// in place: the order is logically gone and the mismatch is logged for
// reconciliation rather than silently rolled back.
func (s *OrderService) Delete(ctx context.Context, id string) error {
    order, err := s.orders.GetByID(ctx, id)
    if err != nil {
        return err
    }

    restored, err := s.restoreEach(ctx, order.SKUList)
    if err != nil {
        if cerr := s.compensate(ctx, restored, -1); cerr != nil {
            return domain.CompensationError("stock re-take failed after aborted order delete", err, cerr)
        }
        return err
    }

    if err := s.orders.Delete(ctx, id); err != nil {
        s.logger.Error("Order removal failed after stock restoration; counters need reconciliation",
            zap.String("order_id", id),
            zap.Error(err))
        return err
    }

    s.logger.Info("Order deleted",
        zap.String("order_id", id),
        zap.Int("items_restored", len(order.SKUList)))

    s.publisher.Publish(events.CatalogEvent{
        Type:    events.OrderCancelled,
        OrderID: id,
        Items:   order.SKUList,
    })

    return nil
}

// swapLineItems moves stock from the old line-item list to the new one:
// restore old, validate new against the restored counters, decrement new.
// Every partial failure path puts the counters back where they started
// before surfacing the error.
func (s *OrderService) swapLineItems(ctx context.Context, orderID string, oldList, newList []domain.LineItem) error {
    restored, err := s.restoreEach(ctx, oldList)
    if err != nil {
        if cerr := s.compensate(ctx, restored, -1); cerr != nil {
            return domain.CompensationError("stock re-take failed after partial restore", err, cerr)
        }
        return err
    }

    if err := s.validator.Validate(ctx, newList); err != nil {
        if cerr := s.compensate(ctx, oldList, -1); cerr != nil {
            return domain.CompensationError("stock re-take failed after rejected order update", err, cerr)
        }
        return err
    }

    applied, err := s.adjustEach(ctx, newList, -1)
    if err != nil {
        s.publishAdjustmentFailure(orderID, newList, err)
        cerr := s.compensate(ctx, applied, +1)
        if cerr == nil {
            cerr = s.compensate(ctx, oldList, -1)
        }
        if cerr != nil {
            return domain.CompensationError("stock revert failed after partial decrement", err, cerr)
        }
        return err
    }

    return nil
}

// revertSwap undoes a completed swapLineItems: give back the new list's
// decrements, then re-take the old list's.
func (s *OrderService) revertSwap(ctx context.Context, oldList, newList []domain.LineItem) error {
    if err := s.compensate(ctx, newList, +1); err != nil {
        return err
    }
    return s.compensate(ctx, oldList, -1)
}

// adjustEach applies sign*quantity to each item's stock in order,
// returning the prefix already applied when an adjustment fails.
func (s *OrderService) adjustEach(ctx context.Context, items []domain.LineItem, sign int) ([]domain.LineItem, error) {
    for i, item := range items {
        if _, err := s.products.AdjustStock(ctx, item.SKU, sign*item.Quantity); err != nil {
            return items[:i], err
        }
    }
    return items, nil
}

// restoreEach gives stock back for each item in order. A SKU whose
// product no longer exists is a dangling reference: the restore is
// skipped, matching the tolerance for products deleted out from under
// existing orders.
func (s *OrderService) restoreEach(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
    var restored []domain.LineItem
    for _, item := range items {
        if _, err := s.products.AdjustStock(ctx, item.SKU, item.Quantity); err != nil {
            if domain.IsKind(err, domain.KindNotFound) {
                s.logger.Warn("Skipping stock restore for dangling sku",
                    zap.String("sku", item.SKU))
                continue
            }
            return restored, err
        }
        restored = append(restored, item)
    }
    return restored, nil
}

// compensate reverses earlier adjustments best-effort: every item is
// attempted even after a failure, and the failures are joined. Dangling
// SKUs are skipped for the same reason as in restoreEach.
func (s *OrderService) compensate(ctx context.Context, items []domain.LineItem, sign int) error {
    var errs []error
    for _, item := range items {
        if _, err := s.products.AdjustStock(ctx, item.SKU, sign*item.Quantity); err != nil {
            if domain.IsKind(err, domain.KindNotFound) {
                s.logger.Warn("Skipping compensation for dangling sku",
                    zap.String("sku", item.SKU))
                continue
            }
            s.logger.Error("Compensating stock adjustment failed",
                zap.String("sku", item.SKU),
                zap.Int("delta", sign*item.Quantity),
                zap.Error(err))
            errs = append(errs, err)
        }
    }
    return errors.Join(errs...)
}

func (s *OrderService) publishAdjustmentFailure(orderID string, items []domain.LineItem, cause error) {
    s.publisher.Publish(events.CatalogEvent{
        Type:    events.StockAdjustmentFailed,
        OrderID: orderID,
        Items:   items,
        Detail:  cause.Error(),
    })
}
