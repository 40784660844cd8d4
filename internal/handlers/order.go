// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /orders/own
func (h *OrderHandler) GetOwnOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListResponse(c, orders, int64(len(orders)))
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, order.UserID, "order") {
		return
	}

	utils.SuccessResponse(c, order)
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	values := c.Request.URL.Query()

	orders, total, err := h.orderService.ListOrders(c.Request.Context(),
		query.ParseSort(values, query.OrderSortFields), query.ParsePage(values))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListResponse(c, orders, total)
}

// PATCH /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id", "order")
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}
