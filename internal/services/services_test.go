// internal/services/services_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store/memory"
)

func productRequest(title string, price, discount float64) *CreateProductRequest {
	return &CreateProductRequest{
		Title:              title,
		Description:        title + " description",
		Price:              price,
		DiscountPercentage: discount,
		Rating:             4,
		Stock:              5,
		Brand:              "acme",
		Category:           "laptops",
		Thumbnail:          "https://cdn.example.com/" + title + ".png",
		Images:             []string{"https://cdn.example.com/" + title + "-1.png"},
	}
}

func seedProduct(t *testing.T, s *memory.Store, title string, price, discount float64) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:              title,
		Description:        title,
		Price:              price,
		DiscountPercentage: discount,
		Brand:              "acme",
		Category:           "laptops",
		Thumbnail:          "thumb.png",
		Images:             []string{"1.png"},
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func testAddress() models.Address {
	return models.Address{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Street:  "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		PinCode: "560001",
	}
}
