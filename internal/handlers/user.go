// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	// only admins may create admins
	if req.Role == models.UserRoleAdmin && !utils.IsAdmin(c) {
		utils.ForbiddenResponse(c, "")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, user)
}

// GET /users/own
func (h *UserHandler) GetOwnUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok || !canAccess(c, id, "user") {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// POST /users/:id/addresses
func (h *UserHandler) AddAddress(c *gin.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok || !canAccess(c, id, "user") {
		return
	}

	var address models.Address
	if !bindJSON(c, &address) {
		return
	}

	user, err := h.userService.AddAddress(c.Request.Context(), id, &address)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, user)
}

// PUT /users/:id/addresses/:index
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok || !canAccess(c, id, "user") {
		return
	}
	index, ok := paramIndex(c, "index")
	if !ok {
		return
	}

	var address models.Address
	if !bindJSON(c, &address) {
		return
	}

	user, err := h.userService.UpdateAddress(c.Request.Context(), id, index, &address)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// DELETE /users/:id/addresses/:index
func (h *UserHandler) RemoveAddress(c *gin.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok || !canAccess(c, id, "user") {
		return
	}
	index, ok := paramIndex(c, "index")
	if !ok {
		return
	}

	user, err := h.userService.RemoveAddress(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}
