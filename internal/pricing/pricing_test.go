package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     int64
	}{
		{"twenty percent off", 1000, 20, 800},
		{"no discount", 100, 0, 100},
		{"zero discount rounds price", 10.5, 0, 11},
		{"fractional result rounds half up", 15, 10, 14},
		{"rounds down below half", 999.99, 15, 850},
		{"upper discount bound", 10000, 99, 100},
		{"lower bounds", 1, 1, 1},
		{"small price large discount", 1, 99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPrice(tt.price, tt.discount))
		})
	}
}

func TestDiscountPrice_NonFiniteInputs(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, int64(0), DiscountPrice(math.NaN(), 10))
		assert.Equal(t, int64(500), DiscountPrice(500, math.Inf(1)))
	})
}

func TestDiscountPrice_MatchesFormulaOverBounds(t *testing.T) {
	for price := 1.0; price <= 10000; price += 137 {
		for discount := 1.0; discount <= 99; discount += 7 {
			want := int64(math.Floor(price*(100-discount)/100 + 0.5))
			assert.Equal(t, want, DiscountPrice(price, discount), "price=%v discount=%v", price, discount)
		}
	}
}

func TestTotals(t *testing.T) {
	amount, items, err := Totals([]Line{
		{Price: 1000, DiscountPercentage: 20, Quantity: 2},
		{Price: 250, DiscountPercentage: 10, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1825), amount)
	assert.Equal(t, 3, items)
}

func TestTotals_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
	}{
		{"quantity above maximum", []Line{{Price: 1000, DiscountPercentage: 20, Quantity: 1 << 59}}},
		{"negative quantity", []Line{{Price: 1000, DiscountPercentage: 20, Quantity: -1}}},
		{"line overflows int64", []Line{{Price: 1e18, Quantity: MaxQuantity}}},
		{"sum overflows int64", []Line{
			{Price: 9e17, Quantity: 10},
			{Price: 9e17, Quantity: 10},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, items, err := Totals(tt.lines)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Zero(t, amount)
			assert.Zero(t, items)
		})
	}
}

func TestTotals_MaxQuantity(t *testing.T) {
	amount, items, err := Totals([]Line{{Price: 10000, DiscountPercentage: 1, Quantity: MaxQuantity}})
	assert.NoError(t, err)
	assert.Equal(t, int64(9900*MaxQuantity), amount)
	assert.Equal(t, MaxQuantity, items)
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(800, 800, 0))
	assert.True(t, WithinTolerance(800, 801, 1))
	assert.True(t, WithinTolerance(800, 799, 1))
	assert.False(t, WithinTolerance(800, 700, 1))
}
