// internal/query/params_test.go
package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront-api/internal/store"
)

func TestParseProductQuery(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Query
	}{
		{
			name:     "empty",
			raw:      "",
			expected: Query{},
		},
		{
			name: "filters and sort",
			raw:  "category=laptops,smartphones&brand=apple&_sort=price&_order=desc",
			expected: Query{
				Filter: store.ProductFilter{
					Categories: []string{"laptops", "smartphones"},
					Brands:     []string{"apple"},
				},
				Sort: &store.Sort{Field: store.FieldPrice, Direction: store.Descending},
			},
		},
		{
			name: "pagination",
			raw:  "_page=3&_limit=10",
			expected: Query{
				Page: store.Page{Offset: 20, Limit: 10},
			},
		},
		{
			name:     "non numeric page means no pagination",
			raw:      "_page=abc&_limit=10",
			expected: Query{},
		},
		{
			name:     "limit without page",
			raw:      "_limit=10",
			expected: Query{},
		},
		{
			name:     "zero limit",
			raw:      "_page=1&_limit=0",
			expected: Query{},
		},
		{
			name:     "unknown sort key ignored",
			raw:      "_sort=popularity&_order=desc",
			expected: Query{},
		},
		{
			name: "derived sort without order is descending",
			raw:  "_sort=discountPrice",
			expected: Query{
				Sort: &store.Sort{Field: store.FieldDiscountPrice, Direction: store.Descending},
			},
		},
		{
			name: "derived sort ascending only for asc",
			raw:  "_sort=discountPrice&_order=ASC",
			expected: Query{
				Sort: &store.Sort{Field: store.FieldDiscountPrice, Direction: store.Ascending},
			},
		},
		{
			name: "derived sort unknown order is descending",
			raw:  "_sort=discountPrice&_order=up",
			expected: Query{
				Sort: &store.Sort{Field: store.FieldDiscountPrice, Direction: store.Descending},
			},
		},
		{
			name:     "stored sort without order is ignored",
			raw:      "_sort=price",
			expected: Query{},
		},
		{
			name: "stored sort ascending",
			raw:  "_sort=rating&_order=asc",
			expected: Query{
				Sort: &store.Sort{Field: store.FieldRating, Direction: store.Ascending},
			},
		},
		{
			name: "page past addressable range",
			raw:  "_page=4611686018427387905&_limit=2",
			expected: Query{
				Page: store.Page{Offset: math.MaxInt, Limit: 2},
			},
		},
		{
			name: "empty list entries dropped",
			raw:  "category=,laptops,",
			expected: Query{
				Filter: store.ProductFilter{Categories: []string{"laptops"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ParseProductQuery(values, false))
		})
	}
}

func TestParseProductQuery_IncludeDeleted(t *testing.T) {
	q := ParseProductQuery(url.Values{}, true)
	assert.True(t, q.Filter.IncludeDeleted)
}

func TestParseSort_OrderFields(t *testing.T) {
	values := url.Values{"_sort": {"totalAmount"}, "_order": {"DESC"}}
	assert.Equal(t, &store.Sort{Field: store.FieldTotalAmount, Direction: store.Descending}, ParseSort(values, OrderSortFields))

	values = url.Values{"_sort": {"discountPrice"}}
	assert.Nil(t, ParseSort(values, OrderSortFields))
}

func TestWindow(t *testing.T) {
	assert.Equal(t, store.Page{Offset: 0, Limit: 10}, store.Window(1, 10))
	assert.Equal(t, store.Page{Offset: 20, Limit: 10}, store.Window(3, 10))
	assert.Equal(t, store.Page{}, store.Window(0, 10))
	assert.Equal(t, store.Page{}, store.Window(1, -1))

	for _, tt := range []struct{ page, size int }{
		{math.MaxInt, 2},
		{math.MaxInt/2 + 2, 2},
		{2, math.MaxInt},
		{math.MaxInt, math.MaxInt},
	} {
		w := store.Window(tt.page, tt.size)
		assert.GreaterOrEqual(t, w.Offset, 0, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.size, w.Limit)
	}
}

func TestIsDerived(t *testing.T) {
	assert.True(t, IsDerived(store.FieldDiscountPrice))
	assert.False(t, IsDerived(store.FieldPrice))
}
