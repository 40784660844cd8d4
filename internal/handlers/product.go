// internal/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/i18n"
	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	values := c.Request.URL.Query()

	// admin=true is only honored for admin tokens
	includeDeleted := false
	if admin, err := strconv.ParseBool(values.Get("admin")); err == nil && admin {
		includeDeleted = utils.IsAdmin(c)
	}

	result, err := h.productService.ListProducts(c.Request.Context(), query.ParseProductQuery(values, includeDeleted))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListResponse(c, result.Products, result.Total)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return
	}
	purge, _ := strconv.ParseBool(c.Query("purge"))

	product, err := h.productService.DeleteProduct(c.Request.Context(), id, purge)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/images
func (h *ProductHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "form"), err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "images"), nil)
		return
	}

	results := make([]*services.UploadResult, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "file"), err.Error())
			return
		}
		result, err := h.storageService.UploadProductImage(c.Request.Context(), file, header)
		file.Close()
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, result)
	}

	c.JSON(http.StatusCreated, results)
}
