// internal/services/cart_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/pricing"
	"github.com/shopfront/storefront-api/internal/store"
)

type CartService struct {
	cart     store.CartStore
	products store.ProductStore
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0,max=10000"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=10000"`
}

type CartSummary struct {
	Items       []models.CartItem `json:"items"`
	TotalAmount int64             `json:"totalAmount"`
	TotalItems  int               `json:"totalItems"`
}

func NewCartService(cart store.CartStore, products store.ProductStore) *CartService {
	return &CartService{
		cart:     cart,
		products: products,
	}
}

func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*models.CartItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, storeError("get product", "product", err)
	}
	if product.Deleted {
		return nil, &NotFoundError{Resource: "product"}
	}

	// adding increments an existing line, keep the result within bounds
	existing, err := s.cart.ListCartItems(ctx, userID)
	if err != nil {
		return nil, storeError("list cart", "cart_item", err)
	}
	for _, line := range existing {
		if line.ProductID == req.ProductID && line.Quantity+req.Quantity > pricing.MaxQuantity {
			return nil, quantityError()
		}
	}

	item, err := s.cart.AddCartItem(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, storeError("add cart item", "cart_item", err)
	}

	product.ComputeDiscountPrice()
	item.Product = product
	return item, nil
}

// ListCart returns the user's items with current product data attached.
// Items whose product no longer exists are returned without a product.
func (s *CartService) ListCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.cart.ListCartItems(ctx, userID)
	if err != nil {
		return nil, storeError("list cart", "cart_item", err)
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := productIndex(ctx, s.products, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Product = products[items[i].ProductID]
	}
	return items, nil
}

func (s *CartService) Summary(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	items, err := s.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil || item.Product.Deleted {
			continue
		}
		lines = append(lines, pricing.Line{
			Price:              item.Product.Price,
			DiscountPercentage: item.Product.DiscountPercentage,
			Quantity:           item.Quantity,
		})
	}
	amount, count, err := pricing.Totals(lines)
	if err != nil {
		return nil, quantityError()
	}

	return &CartSummary{Items: items, TotalAmount: amount, TotalItems: count}, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.CartItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureOwner(ctx, userID, itemID); err != nil {
		return nil, err
	}

	item, err := s.cart.UpdateCartItemQuantity(ctx, itemID, req.Quantity)
	if err != nil {
		return nil, storeError("update cart item", "cart_item", err)
	}

	product, err := s.products.GetProduct(ctx, item.ProductID)
	if err == nil {
		product.ComputeDiscountPrice()
		item.Product = product
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.ensureOwner(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.cart.DeleteCartItem(ctx, itemID); err != nil {
		return storeError("delete cart item", "cart_item", err)
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cart.ClearCart(ctx, userID); err != nil {
		return storeError("clear cart", "cart_item", err)
	}
	return nil
}

// ensureOwner reports another user's item as missing.
func (s *CartService) ensureOwner(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.cart.GetCartItem(ctx, itemID)
	if err != nil {
		return storeError("get cart item", "cart_item", err)
	}
	if item.UserID != userID {
		return &NotFoundError{Resource: "cart_item"}
	}
	return nil
}

// productIndex loads products by id with the derived price populated.
func productIndex(ctx context.Context, products store.ProductStore, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	index := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return index, nil
	}
	found, err := products.GetProducts(ctx, ids)
	if err != nil {
		return nil, storeError("get products", "product", err)
	}
	for i := range found {
		found[i].ComputeDiscountPrice()
		index[found[i].ID] = &found[i]
	}
	return index, nil
}

func quantityError() error {
	return NewValidationError("quantity", "max", fmt.Sprintf("quantity must not exceed %d", pricing.MaxQuantity))
}
