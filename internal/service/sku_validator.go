package service

import (
    "context"

    "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
    "github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
)

// SKUValidator checks that every line item references an existing product
// with sufficient stock. It reads a snapshot per item and reserves
// nothing; the conditional decrement in AdjustStock is the final guard
// against concurrent orders racing past the same snapshot.
type SKUValidator struct {
    products repository.ProductStore
}

func NewSKUValidator(products repository.ProductStore) *SKUValidator {
    return &SKUValidator{products: products}
}

func (v *SKUValidator) Validate(ctx context.Context, items []domain.LineItem) error {
    for _, item := range items {
        code := domain.NormalizeCode(item.SKU)

        product, err := v.products.GetByCode(ctx, code)
        if err != nil {
            if domain.IsKind(err, domain.KindNotFound) {
                return domain.Errorf(domain.KindUnknownSKU, "sku %s does not exist in the catalog", code)
            }
            return err
        }

        if product.Stock < item.Quantity {
            return domain.Errorf(domain.KindInsufficientStock,
                "insufficient stock for sku %s (requested %d, available %d)", code, item.Quantity, product.Stock)
        }
    }
    return nil
}
