// internal/pricing/pricing.go

// Package pricing derives display prices from a stored price and discount
// percentage. Every view that shows, sorts on, or totals a price goes through
// DiscountPrice so the catalog, cart, checkout and admin screens agree.
package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity accepted on a single cart or order line.
const MaxQuantity = 10000

// ErrOutOfRange is returned when a line or total cannot be represented.
var ErrOutOfRange = errors.New("total out of range")

var hundred = decimal.NewFromInt(100)

// DiscountPrice returns round(price × (1 − discountPercentage/100)) with halves
// rounded away from zero. Non-finite inputs are treated as zero so a corrupt
// row never panics a read path.
func DiscountPrice(price, discountPercentage float64) int64 {
	if !finite(price) {
		return 0
	}
	if !finite(discountPercentage) {
		discountPercentage = 0
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercentage).Div(hundred))
	return decimal.NewFromFloat(price).Mul(factor).Round(0).IntPart()
}

// Line is one priced line of a cart or order.
type Line struct {
	Price              float64
	DiscountPercentage float64
	Quantity           int
}

// LineTotal is the derived unit price times quantity. Quantities outside
// [0, MaxQuantity] and products that overflow int64 return ErrOutOfRange.
func LineTotal(l Line) (int64, error) {
	if l.Quantity < 0 || l.Quantity > MaxQuantity {
		return 0, ErrOutOfRange
	}
	unit := DiscountPrice(l.Price, l.DiscountPercentage)
	if unit < 0 {
		return 0, ErrOutOfRange
	}
	if unit > 0 && int64(l.Quantity) > math.MaxInt64/unit {
		return 0, ErrOutOfRange
	}
	return unit * int64(l.Quantity), nil
}

// Totals sums the derived amount and the item count over lines.
func Totals(lines []Line) (amount int64, items int, err error) {
	for _, l := range lines {
		line, err := LineTotal(l)
		if err != nil {
			return 0, 0, err
		}
		if amount > math.MaxInt64-line {
			return 0, 0, ErrOutOfRange
		}
		amount += line
		items += l.Quantity
	}
	return amount, items, nil
}

// WithinTolerance reports whether a caller supplied amount matches the
// computed one to within tolerance (inclusive).
func WithinTolerance(computed, supplied, tolerance int64) bool {
	diff := computed - supplied
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
