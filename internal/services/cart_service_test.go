// internal/services/cart_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/pricing"
	"github.com/shopfront/storefront-api/internal/store/memory"
)

func TestCartFlow(t *testing.T) {
	s := memory.New()
	svc := NewCartService(s, s)
	ctx := context.Background()
	user := uuid.New()

	laptop := seedProduct(t, s, "Laptop", 1000, 20)
	phone := seedProduct(t, s, "Phone", 499, 10)

	item, err := svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: laptop.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	require.NotNil(t, item.Product)
	assert.Equal(t, int64(800), item.Product.DiscountPrice)

	again, err := svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: laptop.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, 3, again.Quantity)

	_, err = svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: phone.ID, Quantity: 1})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, user)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, int64(3*800+449), summary.TotalAmount)
	assert.Equal(t, 4, summary.TotalItems)

	updated, err := svc.UpdateItem(ctx, user, item.ID, &UpdateCartItemRequest{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	_, err = svc.UpdateItem(ctx, user, item.ID, &UpdateCartItemRequest{Quantity: 0})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.RemoveItem(ctx, user, item.ID))
	items, err := svc.ListCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, phone.ID, items[0].ProductID)

	require.NoError(t, svc.ClearCart(ctx, user))
	items, err = svc.ListCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRejectsUnavailableProducts(t *testing.T) {
	s := memory.New()
	svc := NewCartService(s, s)
	ctx := context.Background()

	p := seedProduct(t, s, "Retired", 100, 5)
	_, err := s.SoftDeleteProduct(ctx, p.ID)
	require.NoError(t, err)

	var nf *NotFoundError
	_, err = svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{ProductID: p.ID})
	assert.ErrorAs(t, err, &nf)

	_, err = svc.AddToCart(ctx, uuid.New(), &AddToCartRequest{ProductID: uuid.New()})
	assert.ErrorAs(t, err, &nf)
}

func TestCartSummarySkipsDeletedProducts(t *testing.T) {
	s := memory.New()
	svc := NewCartService(s, s)
	ctx := context.Background()
	user := uuid.New()

	keep := seedProduct(t, s, "Keep", 100, 10)
	drop := seedProduct(t, s, "Drop", 200, 10)
	for _, p := range []uuid.UUID{keep.ID, drop.ID} {
		_, err := svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: p, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := s.SoftDeleteProduct(ctx, drop.ID)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, user)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, int64(90), summary.TotalAmount)
	assert.Equal(t, 1, summary.TotalItems)
}

func TestCartItemsAreScopedToOwner(t *testing.T) {
	s := memory.New()
	svc := NewCartService(s, s)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	p := seedProduct(t, s, "Mine", 100, 10)
	item, err := svc.AddToCart(ctx, owner, &AddToCartRequest{ProductID: p.ID})
	require.NoError(t, err)

	var nf *NotFoundError
	_, err = svc.UpdateItem(ctx, other, item.ID, &UpdateCartItemRequest{Quantity: 5})
	assert.ErrorAs(t, err, &nf)
	assert.ErrorAs(t, svc.RemoveItem(ctx, other, item.ID), &nf)

	items, err := svc.ListCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartQuantityBounds(t *testing.T) {
	s := memory.New()
	svc := NewCartService(s, s)
	ctx := context.Background()
	user := uuid.New()
	laptop := seedProduct(t, s, "Laptop", 1000, 20)

	var verr *ValidationError
	_, err := svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: laptop.ID, Quantity: 1 << 59})
	require.ErrorAs(t, err, &verr)

	_, err = svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: laptop.ID, Quantity: pricing.MaxQuantity})
	require.NoError(t, err)

	// incrementing the existing line past the maximum is refused
	_, err = svc.AddToCart(ctx, user, &AddToCartRequest{ProductID: laptop.ID, Quantity: 1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Fields[0].Field)

	summary, err := svc.Summary(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, pricing.MaxQuantity, summary.TotalItems)
	assert.Equal(t, int64(800*pricing.MaxQuantity), summary.TotalAmount)
}
