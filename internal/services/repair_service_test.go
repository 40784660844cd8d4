// internal/services/repair_service_test.go
package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/store/memory"
)

func TestFixPrices(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	healthy := seedProduct(t, s, "Healthy", 1000, 20)
	noPrice := seedProduct(t, s, "NoPrice", 0, 10)
	negative := seedProduct(t, s, "Negative", -5, 10)
	badDiscount := seedProduct(t, s, "BadDiscount", 500, 120)
	notANumber := seedProduct(t, s, "NaN", math.NaN(), math.NaN())
	_, err := s.SoftDeleteProduct(ctx, badDiscount.ID)
	require.NoError(t, err)

	report, err := NewRepairService(s).FixPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Scanned)
	assert.Equal(t, 4, report.Updated)

	tests := []struct {
		id       uuid.UUID
		price    float64
		discount float64
		derived  int64
	}{
		{healthy.ID, 1000, 20, 800},
		{noPrice.ID, 1000, 10, 900},
		{negative.ID, 1000, 10, 900},
		{badDiscount.ID, 500, 0, 500},
		{notANumber.ID, 1000, 0, 1000},
	}
	for _, tt := range tests {
		p, err := s.GetProduct(ctx, tt.id)
		require.NoError(t, err)
		p.ComputeDiscountPrice()
		assert.Equal(t, tt.price, p.Price, p.Title)
		assert.Equal(t, tt.discount, p.DiscountPercentage, p.Title)
		assert.Equal(t, tt.derived, p.DiscountPrice, p.Title)
	}

	// a second pass finds nothing left to fix
	report, err = NewRepairService(s).FixPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
}
