// internal/services/product_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/store"
)

type ProductService struct {
	products store.ProductStore
	engine   *query.Engine
}

type CreateProductRequest struct {
	Title              string         `json:"title" validate:"required,notblank,max=255"`
	Description        string         `json:"description" validate:"required"`
	Price              float64        `json:"price" validate:"min=1,max=10000"`
	DiscountPercentage float64        `json:"discountPercentage" validate:"min=1,max=99"`
	Rating             float64        `json:"rating" validate:"min=0,max=5"`
	Stock              int            `json:"stock" validate:"min=0"`
	Brand              string         `json:"brand" validate:"required,notblank"`
	Category           string         `json:"category" validate:"required,notblank"`
	Thumbnail          string         `json:"thumbnail" validate:"required"`
	Images             []string       `json:"images" validate:"required,min=1,dive,required"`
	Highlights         []string       `json:"highlights,omitempty"`
	Colors             []models.JSONB `json:"colors,omitempty"`
	Sizes              []models.JSONB `json:"sizes,omitempty"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Title              *string        `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description        *string        `json:"description,omitempty" validate:"omitempty,min=1"`
	Price              *float64       `json:"price,omitempty" validate:"omitempty,min=1,max=10000"`
	DiscountPercentage *float64       `json:"discountPercentage,omitempty" validate:"omitempty,min=1,max=99"`
	Rating             *float64       `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Stock              *int           `json:"stock,omitempty" validate:"omitempty,min=0"`
	Brand              *string        `json:"brand,omitempty" validate:"omitempty,min=1"`
	Category           *string        `json:"category,omitempty" validate:"omitempty,min=1"`
	Thumbnail          *string        `json:"thumbnail,omitempty" validate:"omitempty,min=1"`
	Images             []string       `json:"images,omitempty" validate:"omitempty,min=1,dive,required"`
	Highlights         []string       `json:"highlights,omitempty"`
	Colors             []models.JSONB `json:"colors,omitempty"`
	Sizes              []models.JSONB `json:"sizes,omitempty"`
	Deleted            *bool          `json:"deleted,omitempty"`
}

func NewProductService(products store.ProductStore, engine *query.Engine) *ProductService {
	return &ProductService{
		products: products,
		engine:   engine,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		Brand:              req.Brand,
		Category:           req.Category,
		Thumbnail:          req.Thumbnail,
		Images:             req.Images,
		Highlights:         req.Highlights,
		Colors:             models.Variants(req.Colors),
		Sizes:              models.Variants(req.Sizes),
	}
	product.ComputeDiscountPrice()

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, storeError("create product", "product", err)
	}
	product.ComputeDiscountPrice()
	return product, nil
}

// GetProduct returns soft-deleted products too so order history can resolve them.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError("get product", "product", err)
	}
	product.ComputeDiscountPrice()
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError("get product", "product", err)
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = *req.DiscountPercentage
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Thumbnail != nil {
		product.Thumbnail = *req.Thumbnail
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Highlights != nil {
		product.Highlights = req.Highlights
	}
	if req.Colors != nil {
		product.Colors = models.Variants(req.Colors)
	}
	if req.Sizes != nil {
		product.Sizes = models.Variants(req.Sizes)
	}
	if req.Deleted != nil {
		product.Deleted = *req.Deleted
	}
	product.ComputeDiscountPrice()

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, storeError("update product", "product", err)
	}
	product.ComputeDiscountPrice()
	return product, nil
}

// DeleteProduct sets the deleted flag. purge removes the record instead.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID, purge bool) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	if purge {
		product, err = s.products.DeleteProduct(ctx, id)
	} else {
		product, err = s.products.SoftDeleteProduct(ctx, id)
	}
	if err != nil {
		return nil, storeError("delete product", "product", err)
	}
	product.ComputeDiscountPrice()
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, q query.Query) (*query.Result, error) {
	result, err := s.engine.Run(ctx, q)
	if err != nil {
		return nil, storeError("list products", "product", err)
	}
	return result, nil
}
