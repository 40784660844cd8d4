// internal/services/lookup_service.go
package services

import (
	"context"
	"strings"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

// LookupService serves the brand and category lists used by catalog filters.
type LookupService struct {
	lookups store.LookupStore
}

type CreateLookupRequest struct {
	Label string `json:"label" validate:"required,notblank,max=100"`
	Value string `json:"value" validate:"required,notblank,max=100"`
}

func NewLookupService(lookups store.LookupStore) *LookupService {
	return &LookupService{lookups: lookups}
}

func (s *LookupService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.lookups.ListBrands(ctx)
	if err != nil {
		return nil, storeError("list brands", "brand", err)
	}
	if brands == nil {
		brands = []models.Brand{}
	}
	return brands, nil
}

func (s *LookupService) CreateBrand(ctx context.Context, req *CreateLookupRequest) (*models.Brand, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	brand := &models.Brand{Label: strings.TrimSpace(req.Label), Value: strings.TrimSpace(req.Value)}
	if err := s.lookups.CreateBrand(ctx, brand); err != nil {
		return nil, storeError("create brand", "brand", err)
	}
	return brand, nil
}

func (s *LookupService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.lookups.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", "category", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *LookupService) CreateCategory(ctx context.Context, req *CreateLookupRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	category := &models.Category{Label: strings.TrimSpace(req.Label), Value: strings.TrimSpace(req.Value)}
	if err := s.lookups.CreateCategory(ctx, category); err != nil {
		return nil, storeError("create category", "category", err)
	}
	return category, nil
}
