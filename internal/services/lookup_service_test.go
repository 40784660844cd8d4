// internal/services/lookup_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/store/memory"
)

func TestLookups(t *testing.T) {
	svc := NewLookupService(memory.New())
	ctx := context.Background()

	brands, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)

	_, err = svc.CreateBrand(ctx, &CreateLookupRequest{Label: " Apple ", Value: "apple"})
	require.NoError(t, err)
	_, err = svc.CreateBrand(ctx, &CreateLookupRequest{Label: "Apple again", Value: "apple"})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	brands, err = svc.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Apple", brands[0].Label)

	_, err = svc.CreateCategory(ctx, &CreateLookupRequest{Label: "Laptops"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "value", verr.Fields[0].Field)

	_, err = svc.CreateCategory(ctx, &CreateLookupRequest{Label: "Laptops", Value: "laptops"})
	require.NoError(t, err)
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
