// internal/services/order_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/pricing"
	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/store/memory"
)

type orderFixture struct {
	store    *memory.Store
	recorder *events.Recorder
	svc      *OrderService
	laptop   *models.Product
	phone    *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	s := memory.New()
	rec := &events.Recorder{}
	return &orderFixture{
		store:    s,
		recorder: rec,
		svc:      NewOrderService(s, s, rec, 1),
		laptop:   seedProduct(t, s, "Laptop", 1000, 20),
		phone:    seedProduct(t, s, "Phone", 499, 10),
	}
}

func (f *orderFixture) request(items ...OrderItemInput) *CreateOrderRequest {
	return &CreateOrderRequest{
		Items:           items,
		SelectedAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCard,
		SessionToken:    "tab-1",
	}
}

func TestCreateOrderRecomputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	user := uuid.New()

	order, err := f.svc.CreateOrder(ctx, user, f.request(
		OrderItemInput{ProductID: f.laptop.ID, Quantity: 2},
		OrderItemInput{ProductID: f.phone.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, int64(2*800+449), order.TotalAmount)
	assert.Equal(t, 3, order.TotalItems)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "tab-1", order.SessionToken)
	assert.Equal(t, user, order.UserID)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, int64(800), order.Items[0].Product.DiscountPrice)

	assert.Equal(t, []events.Type{events.OrderCreated}, f.recorder.Types())
}

func TestCreateOrderAcceptsEmbeddedProduct(t *testing.T) {
	f := newOrderFixture(t)

	item := OrderItemInput{Quantity: 1}
	item.Product = &struct {
		ID uuid.UUID `json:"id"`
	}{ID: f.phone.ID}

	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.request(item))
	require.NoError(t, err)
	assert.Equal(t, int64(449), order.TotalAmount)
}

func TestCreateOrderSuppliedTotals(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		items  int
		field  string
	}{
		{"exact", 800, 1, ""},
		{"within tolerance", 801, 1, ""},
		{"beyond tolerance", 802, 1, "totalAmount"},
		{"tampered low", 1, 1, "totalAmount"},
		{"item count mismatch", 800, 2, "totalItems"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			req := f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1})
			req.TotalAmount = &tt.amount
			req.TotalItems = &tt.items

			order, err := f.svc.CreateOrder(context.Background(), uuid.New(), req)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(800), order.TotalAmount)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Empty(t, f.recorder.Events())
		})
	}
}

func TestCreateOrderQuantityBounds(t *testing.T) {
	f := newOrderFixture(t)
	zero := int64(0)

	req := f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1 << 59})
	req.TotalAmount = &zero
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].quantity", verr.Fields[0].Field)
	assert.Nil(t, order)
	assert.Empty(t, f.recorder.Events())

	order, err = f.svc.CreateOrder(context.Background(), uuid.New(),
		f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: pricing.MaxQuantity}))
	require.NoError(t, err)
	assert.Equal(t, int64(800*pricing.MaxQuantity), order.TotalAmount)
}

func TestCreateOrderRejectsOverflowingTotal(t *testing.T) {
	f := newOrderFixture(t)
	// stored rows may predate the price bounds
	huge := seedProduct(t, f.store, "Legacy", 1e18, 0)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(),
		f.request(OrderItemInput{ProductID: huge.ID, Quantity: 100}))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Fields[0].Field)
	assert.Empty(t, f.recorder.Events())
}

func TestCreateOrderRejectsUnavailableProducts(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.store.SoftDeleteProduct(ctx, f.phone.ID)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{f.phone.ID, uuid.New()} {
		_, err := f.svc.CreateOrder(ctx, uuid.New(), f.request(OrderItemInput{ProductID: id, Quantity: 1}))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "items[0].productId", verr.Fields[0].Field)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	req := f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1})
	req.PaymentMethod = "cheque"
	_, err := f.svc.CreateOrder(ctx, uuid.New(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "paymentMethod", verr.Fields[0].Field)

	req = f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 0})
	_, err = f.svc.CreateOrder(ctx, uuid.New(), req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].quantity", verr.Fields[0].Field)

	req = f.request()
	_, err = f.svc.CreateOrder(ctx, uuid.New(), req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Fields[0].Field)

	req = f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1})
	req.SelectedAddress.PinCode = ""
	_, err = f.svc.CreateOrder(ctx, uuid.New(), req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "selectedAddress.pinCode", verr.Fields[0].Field)
}

func TestGetOrderShowsCurrentPrices(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, uuid.New(), f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1}))
	require.NoError(t, err)

	f.laptop.Price = 2000
	require.NoError(t, f.store.UpdateProduct(ctx, f.laptop))

	fetched, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800), fetched.TotalAmount)
	require.NotNil(t, fetched.Items[0].Product)
	assert.Equal(t, int64(1600), fetched.Items[0].Product.DiscountPrice)

	_, err = f.svc.GetOrder(ctx, uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, err := f.svc.CreateOrder(ctx, alice, f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, alice, f.request(OrderItemInput{ProductID: f.phone.ID, Quantity: 3}))
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, bob, f.request(OrderItemInput{ProductID: f.phone.ID, Quantity: 1}))
	require.NoError(t, err)

	own, err := f.svc.ListUserOrders(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, own, 2)
	for _, o := range own {
		assert.Equal(t, alice, o.UserID)
	}

	all, total, err := f.svc.ListOrders(ctx, &store.Sort{Field: store.FieldTotalAmount, Direction: store.Descending}, store.Window(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, int64(3*449), all[0].TotalAmount)
	assert.Equal(t, int64(800), all[1].TotalAmount)
}

func TestUpdateOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, uuid.New(), f.request(OrderItemInput{ProductID: f.laptop.ID, Quantity: 1}))
	require.NoError(t, err)

	dispatched := models.OrderStatusDispatched
	updated, err := f.svc.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{Status: &dispatched})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDispatched, updated.Status)
	assert.Equal(t, models.PaymentStatusPending, updated.PaymentStatus)
	assert.False(t, updated.UpdatedAt.Before(order.UpdatedAt))

	bogus := models.OrderStatus("shipped")
	_, err = f.svc.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{Status: &bogus})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.UpdateOrder(ctx, uuid.New(), &UpdateOrderRequest{Status: &dispatched})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderUpdated}, f.recorder.Types())
}
