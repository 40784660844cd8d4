// internal/services/product_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/store/memory"
)

func newProductService() (*ProductService, *memory.Store) {
	s := memory.New()
	return NewProductService(s, query.NewEngine(s)), s
}

func TestCreateProductComputesDiscountPrice(t *testing.T) {
	svc, _ := newProductService()

	p, err := svc.CreateProduct(context.Background(), productRequest("ThinkPad", 1000, 20))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, int64(800), p.DiscountPrice)
	assert.False(t, p.Deleted)
}

func TestCreateProductBounds(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*CreateProductRequest)
		field string
	}{
		{"zero price", func(r *CreateProductRequest) { r.Price = 0 }, "price"},
		{"price above max", func(r *CreateProductRequest) { r.Price = 10001 }, "price"},
		{"full discount", func(r *CreateProductRequest) { r.DiscountPercentage = 100 }, "discountPercentage"},
		{"rating above five", func(r *CreateProductRequest) { r.Rating = 5.5 }, "rating"},
		{"negative stock", func(r *CreateProductRequest) { r.Stock = -1 }, "stock"},
		{"blank title", func(r *CreateProductRequest) { r.Title = "   " }, "title"},
		{"no images", func(r *CreateProductRequest) { r.Images = nil }, "images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := productRequest("Bounded", 1000, 10)
			tt.edit(req)

			_, err := svc.CreateProduct(ctx, req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestCreateProductDuplicateTitle(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, productRequest("Pixel", 700, 10))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, productRequest("Pixel", 800, 10))
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateProductRecomputesDiscountPrice(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productRequest("Galaxy", 1000, 20))
	require.NoError(t, err)

	price := 1500.0
	discount := 10.0
	updated, err := svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{Price: &price, DiscountPercentage: &discount})
	require.NoError(t, err)
	assert.Equal(t, int64(1350), updated.DiscountPrice)
	assert.Equal(t, "Galaxy", updated.Title)

	fetched, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1350), fetched.DiscountPrice)
	assert.Equal(t, 1500.0, fetched.Price)
}

func TestUpdateProductRejectsBadBounds(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productRequest("Moto", 400, 5))
	require.NoError(t, err)

	discount := 100.0
	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{DiscountPercentage: &discount})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	fetched, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fetched.DiscountPercentage)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _ := newProductService()

	stock := 3
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), &UpdateProductRequest{Stock: &stock})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, productRequest("Nokia", 200, 5))
	require.NoError(t, err)

	deleted, err := svc.DeleteProduct(ctx, p.ID, false)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	// soft deleted rows stay fetchable but leave the listing
	fetched, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Deleted)

	result, err := svc.ListProducts(ctx, query.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)

	result, err = svc.ListProducts(ctx, query.Query{Filter: store.ProductFilter{IncludeDeleted: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	_, err = svc.DeleteProduct(ctx, p.ID, true)
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, p.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.DeleteProduct(ctx, p.ID, false)
	assert.ErrorAs(t, err, &nf)
}

func TestListProductsByDiscountPrice(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	for i, price := range []float64{1000, 750, 1187.5, 750, 875} {
		_, err := svc.CreateProduct(ctx, productRequest("Laptop "+string(rune('A'+i)), price, 20))
		require.NoError(t, err)
	}

	result, err := svc.ListProducts(ctx, query.Query{
		Filter: store.ProductFilter{Categories: []string{"laptops"}},
		Sort:   &store.Sort{Field: store.FieldDiscountPrice, Direction: store.Ascending},
		Page:   store.Window(1, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	require.Len(t, result.Products, 2)
	assert.Equal(t, int64(600), result.Products[0].DiscountPrice)
	assert.Equal(t, int64(600), result.Products[1].DiscountPrice)
}
