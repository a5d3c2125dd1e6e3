package routes

import (
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/config"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/controllers"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the controllers served by the router.
type Handlers struct {
	Cart       *controllers.CartController
	Promo      *controllers.PromoController
	PromoAdmin *controllers.PromoAdminController
	Checkout   *controllers.CheckoutController
	Catalog    *controllers.CatalogController
	Health     *controllers.HealthController
}

// NewRouter builds the gin engine with the global middleware chain and all routes.
func NewRouter(cfg *config.Config, logger *zap.Logger, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	RegisterRoutes(r, h, limiter)
	return r
}

// RegisterRoutes sets up all storefront routes.
func RegisterRoutes(r *gin.Engine, h Handlers, limiter *middleware.RateLimiter) {
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	// Public catalog
	api.GET("/products", h.Catalog.ListProducts)
	api.GET("/classes", h.Catalog.ListClasses)
	api.POST("/classes/quote", h.Checkout.QuoteClasses)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())

	cart := authed.Group("/cart")
	cart.GET("", h.Cart.GetCart)
	cart.DELETE("", h.Cart.ClearCart)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateItem)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)
	cart.PUT("/currency", h.Cart.SetCurrency)

	// Promo entry and checkout submission are rate limited per client
	limited := authed.Group("")
	if limiter != nil {
		limited.Use(limiter.Middleware())
	}
	limited.POST("/promo", h.Promo.ApplyPromo)
	limited.POST("/checkout", h.Checkout.Submit)
	limited.POST("/checkout/confirm", h.Checkout.Confirm)

	authed.DELETE("/promo", h.Promo.ClearPromo)
	authed.POST("/checkout/quote", h.Checkout.Quote)
	authed.GET("/checkout/state", h.Checkout.State)
	authed.GET("/orders", h.Checkout.ListOrders)

	// Admin-only routes
	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.POST("/promos", h.PromoAdmin.CreatePromo)
	admin.GET("/promos", h.PromoAdmin.ListPromos)
	admin.GET("/promos/:code", h.PromoAdmin.GetPromo)
	admin.DELETE("/promos/:code", h.PromoAdmin.DeactivatePromo)
}
