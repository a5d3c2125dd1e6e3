package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/clients"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/config"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/controllers"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/database"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/middleware"
	aws_pkg "github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pkg/aws"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pkg/logger"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pricing"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/routes"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database ---
	db, err := database.ConnectPostgres(cfg.PostgresDSN())
	if err != nil {
		zl.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}

	// --- Redis ---
	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zl.Fatal("Redis connection failed", zap.Error(err))
	}

	// --- AWS setup (optional) ---
	var sns aws_pkg.SNSPublisher
	if cfg.CheckoutSNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			zl.Fatal("Failed to load AWS config", zap.Error(err))
		}
		sns = aws_pkg.NewSNSClient(awsCfg)
	} else {
		zl.Info("CHECKOUT_SNS_TOPIC_ARN not set, checkout events disabled")
	}

	// --- Upstream clients ---
	api := clients.NewStorefrontAPI(cfg.StorefrontAPIURL, cfg.APITimeout, zl)

	var stripe clients.PaymentInitiator
	if cfg.StripeSecretKey != "" {
		stripe = clients.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL, zl)
	} else {
		zl.Info("STRIPE_API_KEY not set, foreign currencies go through PayPal")
	}
	payments := clients.NewGatewayRouter(api, stripe)

	// --- Dependency injection ---
	promoRepo := repository.NewGormPromoRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	cartRepo := repository.NewCartRepository(redisClient, cfg.CartTTL)
	promoSessions := repository.NewPromoSessionRepository(redisClient, cfg.PromoSessionTTL)
	idempotency := repository.NewIdempotencyRepository(redisClient, cfg.IdempotencyTTL)
	catalogCache := repository.NewCatalogCache(redisClient, cfg.CatalogCacheTTL)

	var promoLookup services.PromoLookup = promoRepo
	if cfg.PromoSource == config.PromoSourceAPI {
		promoLookup = api
	}

	catalogService := services.NewCatalogService(api, catalogCache, zl)
	cartService := services.NewCartService(cartRepo, catalogService, zl)
	promoService := services.NewPromoService(promoLookup, promoSessions, zl)
	promoAdminService := services.NewPromoAdminService(promoRepo, zl)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Carts:       cartService,
		Promos:      promoService,
		Classes:     catalogService,
		Orders:      orderRepo,
		Payments:    payments,
		Booker:      api,
		Idempotency: idempotency,
		SNS:         sns,
		SNSTopicArn: cfg.CheckoutSNSTopicARN,
		Aggregator:  pricing.NewAggregator(),
		Logger:      zl,
	})

	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("Failed to get database handle", zap.Error(err))
	}
	handlers := routes.Handlers{
		Cart:       controllers.NewCartController(cartService),
		Promo:      controllers.NewPromoController(promoService),
		PromoAdmin: controllers.NewPromoAdminController(promoAdminService),
		Checkout:   controllers.NewCheckoutController(checkoutService),
		Catalog:    controllers.NewCatalogController(catalogService),
		Health: controllers.NewHealthController("storefront", map[string]controllers.HealthCheck{
			"postgres": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
	}

	limiterDone := make(chan struct{})
	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/100), 50, 5*time.Minute, limiterDone)
	r := routes.NewRouter(cfg, zl, handlers, limiter)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		zl.Info("Storefront service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown error", zap.Error(err))
	}
	close(limiterDone)

	if err := redisClient.Close(); err != nil {
		zl.Error("Redis close error", zap.Error(err))
	}
	if err := database.ClosePostgres(db); err != nil {
		zl.Error("Database close error", zap.Error(err))
	}

	zl.Info("Storefront service stopped gracefully")
}
