// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAdminRequired    = "auth.admin_required"

	// Resources
	KeyProductNotFound  = "product.not_found"
	KeyOrderNotFound    = "order.not_found"
	KeyUserNotFound     = "user.not_found"
	KeyCartItemNotFound = "cart_item.not_found"
	KeyAddressNotFound  = "address.not_found"
	KeyBrandNotFound    = "brand.not_found"
	KeyCategoryNotFound = "category.not_found"
	KeyRouteNotFound    = "route.not_found"

	// Conflicts
	KeyConflict = "resource.conflict"

	// Payments
	KeyPaymentGatewayError   = "payment.gateway_error"
	KeyPaymentGatewayTimeout = "payment.gateway_timeout"
	KeyPaymentNotConfigured  = "payment.not_configured"

	// Storage
	KeyStorageNotConfigured = "storage.not_configured"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyInvalidID         = "validation.invalid_id"
	KeyInvalidIndex      = "validation.invalid_index"

	// System
	KeyStoreError       = "system.store_error"
	KeyInternalError    = "system.internal_error"
	KeyRateLimited      = "system.rate_limited"
	KeyServiceUnhealthy = "system.unhealthy"
)
