// internal/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// POST /api/razorpay/order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req services.CreateGatewayOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.paymentService.CreateGatewayOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /api/razorpay/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req services.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.paymentService.Verify(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Status != services.VerificationSuccess {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	utils.SuccessResponse(c, result)
}
