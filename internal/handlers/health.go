// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/i18n"
	"github.com/shopfront/storefront-api/internal/utils"
)

// Pinger is the part of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	driver string
}

func NewHealthHandler(store Pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNHEALTHY",
			i18n.T(utils.GetLangFromContext(c), i18n.KeyServiceUnhealthy), gin.H{"store": h.driver})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"store":     h.driver,
		"timestamp": time.Now().UTC(),
	})
}
