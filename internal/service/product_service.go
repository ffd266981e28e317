package service

import (
    "context"

    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/events"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
    "go.uber.org/zap"
)

// ProductService exposes the catalog operations. Stock adjustments driven
// by order lifecycle are not reachable through it; only OrderService
// calls ProductStore.AdjustStock.
type ProductService struct {
    products  repository.ProductStore
    publisher events.Publisher
    logger    *zap.Logger
}

func NewProductService(products repository.ProductStore, publisher events.Publisher, logger *zap.Logger) *ProductService {
    return &ProductService{
        products:  products,
        publisher: publisher,
        logger:    logger,
    }
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) (*domain.ProductPage, error) {
    return s.products.List(ctx, filter, page, pageSize)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
    return s.products.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
    product := domain.NewProduct(req)
    if err := product.Validate(); err != nil {
        return nil, err
    }

    // Duplicate pre-check; the store's conditional write is the authority
    // under races.
    if _, err := s.products.GetByCode(ctx, product.Code); err == nil {
        return nil, domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", product.Code)
    } else if !domain.IsKind(err, domain.KindNotFound) {
        return nil, err
    }

    if err := s.products.Create(ctx, product); err != nil {
        s.logger.Error("Failed to save product",
            zap.String("code", product.Code),
            zap.Error(err))
        return nil, err
    }

    s.logger.Info("Product created",
        zap.String("product_id", product.ID),
        zap.String("code", product.Code),
        zap.Int("initial_stock", product.Stock))

    s.publisher.Publish(events.CatalogEvent{
        Type:        events.ProductCreated,
        ProductID:   product.ID,
        ProductCode: product.Code,
    })

    return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error) {
    existing, err := s.products.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }

    merged := existing.ApplyUpdate(req)
    if err := merged.Validate(); err != nil {
        return nil, err
    }

    if merged.Code != existing.Code {
        if _, err := s.products.GetByCode(ctx, merged.Code); err == nil {
            return nil, domain.Errorf(domain.KindDuplicateCode, "product code %s already exists", merged.Code)
        } else if !domain.IsKind(err, domain.KindNotFound) {
            return nil, err
        }
    }

    if err := s.products.Update(ctx, existing.Code, merged); err != nil {
        s.logger.Error("Failed to update product",
            zap.String("product_id", id),
            zap.Error(err))
        return nil, err
    }

    s.logger.Info("Product updated",
        zap.String("product_id", merged.ID),
        zap.String("code", merged.Code))

    s.publisher.Publish(events.CatalogEvent{
        Type:        events.ProductUpdated,
        ProductID:   merged.ID,
        ProductCode: merged.Code,
    })

    return merged, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
    product, err := s.products.GetByID(ctx, id)
    if err != nil {
        return err
    }

    if err := s.products.Delete(ctx, id); err != nil {
        s.logger.Error("Failed to delete product",
            zap.String("product_id", id),
            zap.Error(err))
        return err
    }

    s.logger.Info("Product deleted",
        zap.String("product_id", id),
        zap.String("code", product.Code))

    s.publisher.Publish(events.CatalogEvent{
        Type:        events.ProductDeleted,
        ProductID:   id,
        ProductCode: product.Code,
    })

    return nil
}
