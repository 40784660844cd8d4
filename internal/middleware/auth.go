// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/i18n"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/utils"
)

var errNoToken = errors.New("no bearer token")

// OptionalAuth attaches the caller when a valid token is present. With
// allowQueryUser a `user` query parameter identifies a customer instead,
// which the storefront client uses in development.
func OptionalAuth(allowQueryUser bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := bearerClaims(c); err == nil {
			setClaims(c, claims)
			c.Next()
			return
		}

		if allowQueryUser {
			if id, err := uuid.Parse(c.Query("user")); err == nil {
				c.Set("user_id", id)
				c.Set("user_role", string(models.UserRoleCustomer))
			}
		}
		c.Next()
	}
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c); ok {
			c.Next()
			return
		}

		lang := utils.GetLangFromContext(c)
		claims, err := bearerClaims(c)
		switch {
		case errors.Is(err, errNoToken):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			return
		case utils.IsExpired(err):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			return
		case err != nil:
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAdmin(c) {
			utils.ForbiddenResponse(c, "")
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*utils.JWTClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("malformed authorization header")
	}

	return utils.ValidateJWT(parts[1])
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}
	c.Set("user_id", id)
	c.Set("user_role", claims.Role)
	c.Set("user_email", claims.Email)
}
