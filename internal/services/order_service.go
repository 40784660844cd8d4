// internal/services/order_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/pricing"
	"github.com/shopfront/storefront-api/internal/store"
)

type OrderService struct {
	orders    store.OrderStore
	products  store.ProductStore
	publisher events.Publisher
	tolerance int64
}

// OrderItemInput accepts either a bare productId or the cart's embedded
// product object.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId"`
	Product   *struct {
		ID uuid.UUID `json:"id"`
	} `json:"product,omitempty"`
	Quantity int `json:"quantity" validate:"required,min=1,max=10000"`
}

func (i OrderItemInput) productID() uuid.UUID {
	if i.ProductID != uuid.Nil {
		return i.ProductID
	}
	if i.Product != nil {
		return i.Product.ID
	}
	return uuid.Nil
}

type CreateOrderRequest struct {
	Items           []OrderItemInput     `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *int64               `json:"totalAmount,omitempty"`
	TotalItems      *int                 `json:"totalItems,omitempty"`
	SelectedAddress models.Address       `json:"selectedAddress"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cash card"`
	SessionToken    string               `json:"sessionToken,omitempty" validate:"omitempty,max=64"`
}

type UpdateOrderRequest struct {
	Status        *models.OrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending dispatched delivered received cancelled"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending received failed refunded"`
}

func NewOrderService(orders store.OrderStore, products store.ProductStore, publisher events.Publisher, tolerance int64) *OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
		tolerance: tolerance,
	}
}

// CreateOrder prices the order from the catalog and rejects supplied totals
// that disagree with it.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.productID()
		if ids[i] == uuid.Nil {
			return nil, NewValidationError(fmt.Sprintf("items[%d].productId", i), "required", "productId is required")
		}
	}

	products, err := productIndex(ctx, s.products, ids)
	if err != nil {
		return nil, err
	}

	items := make(models.OrderItems, len(req.Items))
	lines := make([]pricing.Line, len(req.Items))
	for i, in := range req.Items {
		product, ok := products[ids[i]]
		if !ok || product.Deleted {
			return nil, NewValidationError(fmt.Sprintf("items[%d].productId", i), "exists", "product "+ids[i].String()+" is not available")
		}
		items[i] = models.OrderItem{ProductID: product.ID, Quantity: in.Quantity, Product: product}
		lines[i] = pricing.Line{Price: product.Price, DiscountPercentage: product.DiscountPercentage, Quantity: in.Quantity}
	}
	amount, count, err := pricing.Totals(lines)
	if err != nil {
		return nil, NewValidationError("items", "max", fmt.Sprintf("order total is out of range, quantities are limited to %d per line", pricing.MaxQuantity))
	}

	if req.TotalAmount != nil && !pricing.WithinTolerance(amount, *req.TotalAmount, s.tolerance) {
		return nil, NewValidationError("totalAmount", "total_mismatch",
			fmt.Sprintf("totalAmount %d does not match computed total %d", *req.TotalAmount, amount))
	}
	if req.TotalItems != nil && *req.TotalItems != count {
		return nil, NewValidationError("totalItems", "total_mismatch",
			fmt.Sprintf("totalItems %d does not match item count %d", *req.TotalItems, count))
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     amount,
		TotalItems:      count,
		SelectedAddress: req.SelectedAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		SessionToken:    req.SessionToken,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, storeError("create order", "order", err)
	}

	// stores keep only references; reattach the priced products
	for i := range order.Items {
		order.Items[i].Product = products[order.Items[i].ProductID]
	}

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storeError("get order", "order", err)
	}
	if err := s.populate(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, _, err := s.orders.ListOrders(ctx, store.OrderFilter{UserID: &userID},
		[]store.Sort{{Field: store.FieldCreatedAt, Direction: store.Descending}}, store.Page{})
	if err != nil {
		return nil, storeError("list orders", "order", err)
	}
	if err := s.populateAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders is the admin listing. Without a sort it shows newest first.
func (s *OrderService) ListOrders(ctx context.Context, sort *store.Sort, page store.Page) ([]models.Order, int64, error) {
	sorts := []store.Sort{{Field: store.FieldCreatedAt, Direction: store.Descending}}
	if sort != nil {
		sorts = []store.Sort{*sort}
	}
	orders, total, err := s.orders.ListOrders(ctx, store.OrderFilter{}, sorts, page)
	if err != nil {
		return nil, 0, storeError("list orders", "order", err)
	}
	if err := s.populateAll(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	order, err := s.orders.UpdateOrder(ctx, id, store.OrderUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return nil, storeError("update order", "order", err)
	}
	if err := s.populate(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderUpdated, order)
	return order, nil
}

func (s *OrderService) populateAll(ctx context.Context, orders []models.Order) error {
	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return s.populate(ctx, ptrs)
}

// populate attaches current catalog products to order items. Prices shown
// are those at read time.
func (s *OrderService) populate(ctx context.Context, orders []*models.Order) error {
	var ids []uuid.UUID
	for _, o := range orders {
		ids = append(ids, o.Items.ProductIDs()...)
	}
	products, err := productIndex(ctx, s.products, ids)
	if err != nil {
		return err
	}
	for _, o := range orders {
		for i := range o.Items {
			o.Items[i].Product = products[o.Items[i].ProductID]
		}
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, t events.Type, order *models.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(t, order)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":    t,
			"order_id": order.ID,
		}).Warn("Failed to publish order event")
	}
}
