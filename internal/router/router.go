// internal/router/router.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/handlers"
	"github.com/shopfront/storefront-api/internal/middleware"
	"github.com/shopfront/storefront-api/internal/payment"
	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/services"
	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/utils"
)

// Dependencies are the process-wide handles the routes are built from.
type Dependencies struct {
	Config    *config.Config
	Store     store.Store
	Gateway   payment.Gateway
	Publisher events.Publisher
	Storage   *services.StorageService
	Metrics   *middleware.Metrics
}

// Router is the HTTP handler together with the background work it started.
type Router struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup loops.
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

func Initialize(deps Dependencies) *Router {
	cfg := deps.Config
	if deps.Metrics == nil {
		deps.Metrics = middleware.NewMetrics()
	}
	if deps.Storage == nil {
		deps.Storage = services.NewStorageServiceWithClient(nil, cfg.AWS)
	}

	// Initialize services
	productService := services.NewProductService(deps.Store, query.NewEngine(deps.Store))
	cartService := services.NewCartService(deps.Store, deps.Store)
	orderService := services.NewOrderService(deps.Store, deps.Store, deps.Publisher, cfg.Payment.TotalTolerance)
	userService := services.NewUserService(deps.Store)
	lookupService := services.NewLookupService(deps.Store)
	paymentService := services.NewPaymentService(deps.Gateway, deps.Store, deps.Publisher, services.PaymentOptions{
		Currency:  cfg.Payment.Currency,
		Tolerance: cfg.Payment.TotalTolerance,
	})

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, deps.Storage)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService)
	lookupHandler := handlers.NewLookupHandler(lookupService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler(deps.Store, cfg.Store.Driver)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	uploadLimiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 10)

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout()))

	// Operational endpoints skip rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("")
	api.Use(generalLimiter.Middleware())
	api.Use(middleware.OptionalAuth(!cfg.IsProduction()))

	authed := middleware.AuthRequired()
	admin := []gin.HandlerFunc{authed, middleware.AdminRequired()}

	// Product routes
	products := api.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		protected := products.Group("", admin...)
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PATCH("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeleteProduct)
			protected.POST("/images", uploadLimiter.Middleware(), productHandler.UploadImages)
		}
	}

	// Lookup routes
	brands := api.Group("/brands")
	{
		brands.GET("", lookupHandler.GetBrands)
		brands.POST("", append(admin, lookupHandler.CreateBrand)...)
	}
	categories := api.Group("/categories")
	{
		categories.GET("", lookupHandler.GetCategories)
		categories.POST("", append(admin, lookupHandler.CreateCategory)...)
	}

	// Cart routes
	cart := api.Group("/cart", authed)
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/summary", cartHandler.GetSummary)
		cart.POST("", cartHandler.AddToCart)
		cart.PATCH("/:id", cartHandler.UpdateItem)
		cart.DELETE("/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
	}

	// Order routes
	orders := api.Group("/orders", authed)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/own", orderHandler.GetOwnOrders)
		orders.GET("/:id", orderHandler.GetOrder)

		adminOrders := orders.Group("", middleware.AdminRequired())
		{
			adminOrders.GET("", orderHandler.GetOrders)
			adminOrders.PATCH("/:id", orderHandler.UpdateOrder)
		}
	}

	// User routes
	users := api.Group("/users")
	{
		users.POST("", userHandler.CreateUser)

		protected := users.Group("", authed)
		{
			protected.GET("/own", userHandler.GetOwnUser)
			protected.GET("/:id", userHandler.GetUser)
			protected.POST("/:id/addresses", userHandler.AddAddress)
			protected.PUT("/:id/addresses/:index", userHandler.UpdateAddress)
			protected.DELETE("/:id/addresses/:index", userHandler.RemoveAddress)
		}
	}

	// Payment gateway routes
	razorpay := api.Group("/api/razorpay")
	{
		razorpay.POST("/order", paymentHandler.CreateOrder)
		razorpay.POST("/verify", paymentHandler.VerifyPayment)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "route")
	})

	return &Router{Engine: r, limiters: []*middleware.RateLimiter{generalLimiter, uploadLimiter}}
}
