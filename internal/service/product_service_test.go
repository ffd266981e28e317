package service

import (
	"context"
	"testing"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/events"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProductService() (*ProductService, *repository.MemoryProductStore) {
	store := repository.NewMemoryProductStore()
	return NewProductService(store, events.NopPublisher{}, zap.NewNop()), store
}

func createRequest(code string, stock int) domain.CreateProductRequest {
	price := 49.90
	return domain.CreateProductRequest{
		Code:        code,
		Title:       "Product " + code,
		Description: "A reasonably detailed description for " + code,
		Price:       &price,
		Stock:       &stock,
		Category:    "tools",
	}
}

func TestProductServiceCreate(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", product.Code)
	assert.Equal(t, 5, product.Stock)
	assert.True(t, product.Status)

	_, err = svc.Create(ctx, createRequest("ABC-1", 1))
	assert.True(t, domain.IsKind(err, domain.KindDuplicateCode))
}

func TestProductServiceCreateValidation(t *testing.T) {
	svc, _ := newProductService()

	req := createRequest("ab", 5) // code too short
	_, err := svc.Create(context.Background(), req)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	req = createRequest("abc-2", -1)
	_, err = svc.Create(context.Background(), req)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestProductServicePartialUpdate(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)

	price := 99.0
	updated, err := svc.Update(ctx, product.ID, domain.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, product.Title, updated.Title)
	assert.Equal(t, product.Stock, updated.Stock)
}

func TestProductServiceUpdateDuplicateCode(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRequest("abc-2", 5))
	require.NoError(t, err)

	code := "abc-2"
	_, err = svc.Update(ctx, first.ID, domain.UpdateProductRequest{Code: &code})
	assert.True(t, domain.IsKind(err, domain.KindDuplicateCode))
}

func TestProductServiceUpdateValidation(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)

	bad := -5
	_, err = svc.Update(ctx, product.ID, domain.UpdateProductRequest{Stock: &bad})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

// flakyProductStore fails every code lookup, standing in for a store
// outage during the duplicate pre-check.
type flakyProductStore struct {
	repository.ProductStore
	err error
}

func (s *flakyProductStore) GetByCode(context.Context, string) (*domain.Product, error) {
	return nil, s.err
}

func TestProductServiceCreateSurfacesLookupFailure(t *testing.T) {
	_, store := newProductService()
	flaky := &flakyProductStore{
		ProductStore: store,
		err:          domain.NewError(domain.KindStorageFailure, "injected lookup failure"),
	}
	svc := NewProductService(flaky, events.NopPublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), createRequest("abc-1", 5))
	assert.True(t, domain.IsKind(err, domain.KindStorageFailure))

	// nothing was written past the failed pre-check
	_, err = store.GetByCode(context.Background(), "ABC-1")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestProductServiceUpdateSurfacesLookupFailure(t *testing.T) {
	svc, store := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)

	flaky := NewProductService(&flakyProductStore{
		ProductStore: store,
		err:          domain.NewError(domain.KindStorageFailure, "injected lookup failure"),
	}, events.NopPublisher{}, zap.NewNop())

	code := "abc-9"
	_, err = flaky.Update(ctx, product.ID, domain.UpdateProductRequest{Code: &code})
	assert.True(t, domain.IsKind(err, domain.KindStorageFailure))

	got, err := store.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", got.Code)
}

func TestProductServiceGetAndDelete(t *testing.T) {
	svc, store := newProductService()
	ctx := context.Background()

	product, err := svc.Create(ctx, createRequest("abc-1", 5))
	require.NoError(t, err)

	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Code, got.Code)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.True(t, domain.IsKind(err, domain.KindInvalidID))

	require.NoError(t, svc.Delete(ctx, product.ID))
	err = svc.Delete(ctx, product.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = store.GetByCode(ctx, "ABC-1")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestSKUValidator(t *testing.T) {
	_, store := newProductService()
	ctx := context.Background()

	price := 1.0
	stock := 3
	p := domain.NewProduct(domain.CreateProductRequest{
		Code:        "SKU-1",
		Title:       "Validator target",
		Description: "Product used by validator tests",
		Price:       &price,
		Stock:       &stock,
		Category:    "misc",
	})
	require.NoError(t, store.Create(ctx, p))

	v := NewSKUValidator(store)

	assert.NoError(t, v.Validate(ctx, []domain.LineItem{{SKU: "sku-1", Quantity: 3}}))

	err := v.Validate(ctx, []domain.LineItem{{SKU: "SKU-1", Quantity: 4}})
	assert.True(t, domain.IsKind(err, domain.KindInsufficientStock))

	err = v.Validate(ctx, []domain.LineItem{{SKU: "GHOST", Quantity: 1}})
	assert.True(t, domain.IsKind(err, domain.KindUnknownSKU))
}
