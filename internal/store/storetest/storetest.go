// internal/store/storetest/storetest.go

// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

// Run executes the contract against stores returned by newStore. Each
// subtest gets a fresh, empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	tests := map[string]func(*testing.T, store.Store){
		"ProductLifecycle":     testProductLifecycle,
		"ProductListing":       testProductListing,
		"DiscountPriceSort":    testDiscountPriceSort,
		"OrderLifecycle":       testOrderLifecycle,
		"MarkOrderPaidOnce":    testMarkOrderPaidOnce,
		"Users":                testUsers,
		"Cart":                 testCart,
		"BrandsAndCategories":  testLookups,
		"EachProductVisitsAll": testEachProduct,
	}
	for name, fn := range tests {
		fn := fn
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

func NewProduct(title string, price, discount float64) *models.Product {
	return &models.Product{
		Title:              title,
		Description:        title + " description",
		Price:              price,
		DiscountPercentage: discount,
		Rating:             4.5,
		Stock:              10,
		Brand:              "acme",
		Category:           "laptops",
		Thumbnail:          "https://cdn.example.com/" + title + ".png",
		Images:             []string{"https://cdn.example.com/" + title + "-1.png"},
	}
}

func testProductLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()

	p := NewProduct("Laptop", 1000, 20)
	require.NoError(t, s.CreateProduct(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, int64(800), p.DiscountPrice)

	err := s.CreateProduct(ctx, NewProduct("Laptop", 500, 10))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Title)
	assert.Equal(t, int64(800), got.DiscountPrice)

	got.Price = 2000
	got.DiscountPercentage = 50
	require.NoError(t, s.UpdateProduct(ctx, got))
	assert.Equal(t, int64(1000), got.DiscountPrice)

	reloaded, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2000), reloaded.Price)
	assert.Equal(t, int64(1000), reloaded.DiscountPrice)

	missing := NewProduct("Ghost", 10, 1)
	missing.ID = uuid.New()
	assert.ErrorIs(t, s.UpdateProduct(ctx, missing), store.ErrNotFound)

	deleted, err := s.SoftDeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	stillThere, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stillThere.Deleted)

	removed, err := s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, removed.ID)

	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.SoftDeleteProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testProductListing(t *testing.T, s store.Store) {
	ctx := context.Background()

	for i, price := range []float64{300, 100, 200, 100} {
		p := NewProduct(fmt.Sprintf("Laptop %d", i), price, 10)
		if i == 3 {
			p.Brand = "zeta"
		}
		require.NoError(t, s.CreateProduct(ctx, p))
	}
	phone := NewProduct("Phone", 50, 10)
	phone.Category = "smartphones"
	require.NoError(t, s.CreateProduct(ctx, phone))
	_, err := s.SoftDeleteProduct(ctx, phone.ID)
	require.NoError(t, err)

	n, err := s.CountProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = s.CountProducts(ctx, store.ProductFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = s.CountProducts(ctx, store.ProductFilter{Brands: []string{"zeta"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := s.FindProducts(ctx, store.ProductFilter{Categories: []string{"laptops"}},
		[]store.Sort{{Field: store.FieldPrice, Direction: store.Descending}}, store.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, float64(300), rows[0].Price)
	assert.Equal(t, float64(100), rows[3].Price)
	assert.True(t, rows[2].ID.String() < rows[3].ID.String(), "equal prices break ties on id")
	for _, r := range rows {
		assert.Equal(t, int64(r.Price*0.9+0.5), r.DiscountPrice)
	}

	page, err := s.FindProducts(ctx, store.ProductFilter{},
		[]store.Sort{{Field: store.FieldTitle, Direction: store.Ascending}}, store.Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Laptop 1", page[0].Title)
	assert.Equal(t, "Laptop 2", page[1].Title)

	_, err = s.FindProducts(ctx, store.ProductFilter{},
		[]store.Sort{{Field: store.FieldDiscountPrice}}, store.Page{})
	assert.ErrorIs(t, err, store.ErrUnsupportedSort)

	byID, err := s.GetProducts(ctx, []uuid.UUID{phone.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Phone", byID[0].Title)
}

func testDiscountPriceSort(t *testing.T, s store.Store) {
	ctx := context.Background()

	// discount prices 800, 600, 950, 600, 700, and 14 for the half-way case
	inputs := []struct {
		price    float64
		discount float64
	}{
		{1000, 20}, {1000, 40}, {1000, 5}, {750, 20}, {1000, 30}, {15, 10},
	}
	for i, in := range inputs {
		require.NoError(t, s.CreateProduct(ctx, NewProduct(fmt.Sprintf("P%d", i), in.price, in.discount)))
	}

	asc, err := s.FindProductsByDiscountPrice(ctx, store.ProductFilter{}, store.Ascending, store.Page{})
	require.NoError(t, err)
	prices := make([]int64, len(asc))
	for i, p := range asc {
		prices[i] = p.DiscountPrice
	}
	assert.Equal(t, []int64{14, 600, 600, 700, 800, 950}, prices)
	assert.True(t, asc[1].ID.String() < asc[2].ID.String())

	desc, err := s.FindProductsByDiscountPrice(ctx, store.ProductFilter{}, store.Descending, store.Page{Offset: 1, Limit: 3})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, int64(800), desc[0].DiscountPrice)
	assert.Equal(t, int64(700), desc[1].DiscountPrice)
	assert.Equal(t, int64(600), desc[2].DiscountPrice)
}

func newOrder(userID uuid.UUID, productID uuid.UUID, total int64) *models.Order {
	return &models.Order{
		UserID:      userID,
		Items:       models.OrderItems{{ProductID: productID, Quantity: 2}},
		TotalAmount: total,
		TotalItems:  2,
		SelectedAddress: models.Address{
			Name: "Asha", Email: "asha@example.com", Phone: "9999999999",
			Street: "1 MG Road", City: "Pune", State: "MH", PinCode: "411001",
		},
		PaymentMethod: models.PaymentMethodCard,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		SessionToken:  uuid.NewString(),
	}
}

func testOrderLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	productID := uuid.New()

	for _, total := range []int64{300, 100, 200} {
		require.NoError(t, s.CreateOrder(ctx, newOrder(alice, productID, total)))
	}
	bobs := newOrder(bob, productID, 50)
	require.NoError(t, s.CreateOrder(ctx, bobs))

	got, err := s.GetOrder(ctx, bobs.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, got.UserID)
	assert.Equal(t, "Pune", got.SelectedAddress.City)
	require.Len(t, got.Items, 1)
	assert.Equal(t, productID, got.Items[0].ProductID)
	assert.Equal(t, bobs.SessionToken, got.SessionToken)

	orders, total, err := s.ListOrders(ctx, store.OrderFilter{UserID: &alice},
		[]store.Sort{{Field: store.FieldTotalAmount, Direction: store.Ascending}}, store.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(100), orders[0].TotalAmount)
	assert.Equal(t, int64(200), orders[1].TotalAmount)

	_, total, err = s.ListOrders(ctx, store.OrderFilter{}, nil, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	dispatched := models.OrderStatusDispatched
	updated, err := s.UpdateOrder(ctx, bobs.ID, store.OrderUpdate{Status: &dispatched})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDispatched, updated.Status)
	assert.Equal(t, models.PaymentStatusPending, updated.PaymentStatus)
	assert.False(t, updated.UpdatedAt.Before(got.UpdatedAt))

	_, err = s.UpdateOrder(ctx, uuid.New(), store.OrderUpdate{Status: &dispatched})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SetGatewayOrderID(ctx, bobs.ID, "order_gw_1"))
	byGateway, err := s.GetOrderByGatewayID(ctx, "order_gw_1")
	require.NoError(t, err)
	assert.Equal(t, bobs.ID, byGateway.ID)

	assert.ErrorIs(t, s.SetGatewayOrderID(ctx, uuid.New(), "order_gw_2"), store.ErrNotFound)
	_, err = s.GetOrderByGatewayID(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testMarkOrderPaidOnce(t *testing.T, s store.Store) {
	ctx := context.Background()
	order := newOrder(uuid.New(), uuid.New(), 800)
	require.NoError(t, s.CreateOrder(ctx, order))
	require.NoError(t, s.SetGatewayOrderID(ctx, order.ID, "order_gw_paid"))

	paid, changed, err := s.MarkOrderPaid(ctx, "order_gw_paid")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentStatusReceived, paid.PaymentStatus)
	assert.Equal(t, models.OrderStatusReceived, paid.Status)

	again, changed, err := s.MarkOrderPaid(ctx, "order_gw_paid")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.PaymentStatusReceived, again.PaymentStatus)

	_, _, err = s.MarkOrderPaid(ctx, "order_unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	user := &models.User{Email: "asha@example.com", Name: "Asha"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.Equal(t, models.UserRoleCustomer, user.Role)
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "asha@example.com"}), store.ErrDuplicate)

	byEmail, err := s.GetUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	addresses := models.Addresses{
		{Name: "Home", Email: "asha@example.com", Phone: "1", Street: "a", City: "Pune", State: "MH", PinCode: "1"},
		{Name: "Work", Email: "asha@example.com", Phone: "2", Street: "b", City: "Mumbai", State: "MH", PinCode: "2"},
	}
	updated, err := s.ReplaceAddresses(ctx, user.ID, addresses)
	require.NoError(t, err)
	require.Len(t, updated.Addresses, 2)
	assert.Equal(t, "Work", updated.Addresses[1].Name)

	reloaded, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, addresses, reloaded.Addresses)

	_, err = s.ReplaceAddresses(ctx, uuid.New(), addresses)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testCart(t *testing.T, s store.Store) {
	ctx := context.Background()
	userID, otherID := uuid.New(), uuid.New()
	first, second := uuid.New(), uuid.New()

	item, err := s.AddCartItem(ctx, &models.CartItem{UserID: userID, ProductID: first, Quantity: 1})
	require.NoError(t, err)
	again, err := s.AddCartItem(ctx, &models.CartItem{UserID: userID, ProductID: first, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, 3, again.Quantity)

	_, err = s.AddCartItem(ctx, &models.CartItem{UserID: userID, ProductID: second, Quantity: 1})
	require.NoError(t, err)
	_, err = s.AddCartItem(ctx, &models.CartItem{UserID: otherID, ProductID: first, Quantity: 1})
	require.NoError(t, err)

	items, err := s.ListCartItems(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	updated, err := s.UpdateCartItemQuantity(ctx, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	require.NoError(t, s.DeleteCartItem(ctx, item.ID))
	assert.ErrorIs(t, s.DeleteCartItem(ctx, item.ID), store.ErrNotFound)
	_, err = s.GetCartItem(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.ClearCart(ctx, userID))
	items, err = s.ListCartItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.ListCartItems(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func testLookups(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateBrand(ctx, &models.Brand{Label: "Apple", Value: "apple"}))
	assert.ErrorIs(t, s.CreateBrand(ctx, &models.Brand{Label: "Apple Inc", Value: "apple"}), store.ErrDuplicate)
	require.NoError(t, s.CreateCategory(ctx, &models.Category{Label: "Laptops", Value: "laptops"}))
	assert.ErrorIs(t, s.CreateCategory(ctx, &models.Category{Label: "Laptop", Value: "laptops"}), store.ErrDuplicate)

	brands, err := s.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "apple", brands[0].Value)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Laptops", categories[0].Label)
}

func testEachProduct(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateProduct(ctx, NewProduct(fmt.Sprintf("Item %d", i), 100, 10)))
	}
	first, err := s.GetProductByTitle(ctx, "Item 0")
	require.NoError(t, err)
	_, err = s.SoftDeleteProduct(ctx, first.ID)
	require.NoError(t, err)

	seen := 0
	require.NoError(t, s.EachProduct(ctx, func(p *models.Product) error {
		seen++
		return nil
	}))
	assert.Equal(t, 5, seen)
}
