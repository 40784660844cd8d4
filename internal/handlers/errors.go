// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/i18n"
	"github.com/shopfront/storefront-api/internal/payment"
	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

// respondError maps a service error onto the HTTP error envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var (
		invalid  *services.ValidationError
		notFound *services.NotFoundError
		conflict *services.ConflictError
		gateway  *services.GatewayError
		storeErr *services.StoreError
	)
	switch {
	case errors.As(err, &invalid):
		utils.ValidationErrorResponse(c, invalid.Fields)
	case errors.As(err, &notFound):
		utils.NotFoundResponse(c, notFound.Resource)
	case errors.As(err, &conflict):
		utils.ConflictResponse(c, conflict.Resource)
	case errors.Is(err, services.ErrGatewayTimeout):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", i18n.T(lang, i18n.KeyPaymentGatewayTimeout), nil)
	case errors.Is(err, payment.ErrNotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "PAYMENT_NOT_CONFIGURED", i18n.T(lang, i18n.KeyPaymentNotConfigured), nil)
	case errors.Is(err, services.ErrStorageNotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_NOT_CONFIGURED", i18n.T(lang, i18n.KeyStorageNotConfigured), nil)
	case errors.As(err, &gateway):
		utils.ErrorResponse(c, http.StatusBadGateway, "GATEWAY_ERROR", i18n.T(lang, i18n.KeyPaymentGatewayError), gateway.Err.Error())
	case errors.As(err, &storeErr):
		utils.ErrorResponse(c, http.StatusInternalServerError, "STORE_ERROR", i18n.T(lang, i18n.KeyStoreError),
			gin.H{"retryable": storeErr.Retryable()})
	default:
		_ = c.Error(err)
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body and writes a 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID, resource), nil)
		return uuid.Nil, false
	}
	return id, true
}

func paramIndex(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidIndex), nil)
		return 0, false
	}
	return index, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}

// canAccess allows the owner and admins. Others get a 404 so ids of other
// users' resources are not confirmed.
func canAccess(c *gin.Context, owner uuid.UUID, resource string) bool {
	if utils.IsAdmin(c) {
		return true
	}
	if id, ok := utils.GetUserIDFromContext(c); ok && id == owner {
		return true
	}
	utils.NotFoundResponse(c, resource)
	return false
}
