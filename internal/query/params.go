// internal/query/params.go
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopfront/storefront-api/internal/store"
)

// ProductSortFields maps the listing's _sort values to stored attributes.
var ProductSortFields = map[string]store.SortField{
	"id":                 store.FieldID,
	"title":              store.FieldTitle,
	"price":              store.FieldPrice,
	"discountPercentage": store.FieldDiscountPercentage,
	"rating":             store.FieldRating,
	"stock":              store.FieldStock,
	"brand":              store.FieldBrand,
	"category":           store.FieldCategory,
	"createdAt":          store.FieldCreatedAt,
	"discountPrice":      store.FieldDiscountPrice,
}

// OrderSortFields maps the admin order listing's _sort values.
var OrderSortFields = map[string]store.SortField{
	"id":          store.FieldID,
	"totalAmount": store.FieldTotalAmount,
	"totalItems":  store.FieldTotalItems,
	"status":      store.FieldStatus,
	"createdAt":   store.FieldCreatedAt,
}

// IsDerived reports whether field has no stored column and must be computed
// per row before sorting.
func IsDerived(field store.SortField) bool {
	return field == store.FieldDiscountPrice
}

// ParseProductQuery reads category, brand, _sort, _order, _page and _limit.
// Malformed values are ignored rather than rejected. includeDeleted is decided
// by the caller since it depends on who is asking.
func ParseProductQuery(values url.Values, includeDeleted bool) Query {
	return Query{
		Filter: store.ProductFilter{
			Categories:     SplitList(values.Get("category")),
			Brands:         SplitList(values.Get("brand")),
			IncludeDeleted: includeDeleted,
		},
		Sort: ParseSort(values, ProductSortFields),
		Page: ParsePage(values),
	}
}

// ParseSort returns nil when _sort is absent or not in allowed. A stored
// field is only sorted on when _order is also given. The derived discountPrice
// sorts ascending only for _order=asc and descending otherwise.
func ParseSort(values url.Values, allowed map[string]store.SortField) *store.Sort {
	key := strings.TrimSpace(values.Get("_sort"))
	field, ok := allowed[key]
	if !ok {
		return nil
	}
	order := strings.TrimSpace(values.Get("_order"))
	if IsDerived(field) {
		dir := store.Descending
		if strings.EqualFold(order, "asc") {
			dir = store.Ascending
		}
		return &store.Sort{Field: field, Direction: dir}
	}
	if order == "" {
		return nil
	}
	return &store.Sort{Field: field, Direction: ParseDirection(order)}
}

func ParseDirection(order string) store.Direction {
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return store.Descending
	}
	return store.Ascending
}

// ParsePage applies pagination only when both _page and _limit are positive
// integers.
func ParsePage(values url.Values) store.Page {
	page, err := strconv.Atoi(strings.TrimSpace(values.Get("_page")))
	if err != nil {
		return store.Page{}
	}
	limit, err := strconv.Atoi(strings.TrimSpace(values.Get("_limit")))
	if err != nil {
		return store.Page{}
	}
	return store.Window(page, limit)
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
