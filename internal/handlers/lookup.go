// internal/handlers/lookup.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

type LookupHandler struct {
	lookupService *services.LookupService
}

func NewLookupHandler(lookupService *services.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// GET /brands
func (h *LookupHandler) GetBrands(c *gin.Context) {
	brands, err := h.lookupService.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, brands, int64(len(brands)))
}

// POST /brands
func (h *LookupHandler) CreateBrand(c *gin.Context) {
	var req services.CreateLookupRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := h.lookupService.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, brand)
}

// GET /categories
func (h *LookupHandler) GetCategories(c *gin.Context) {
	categories, err := h.lookupService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, categories, int64(len(categories)))
}

// POST /categories
func (h *LookupHandler) CreateCategory(c *gin.Context) {
	var req services.CreateLookupRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.lookupService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, category)
}
