package main

import (
	"fmt"
	"log"
	"net/http"

	"goshop/internal/config"
	handlers "goshop/internal/handlers/shared"
	"goshop/internal/middleware"
	"goshop/internal/models"
	"goshop/internal/repositories/mongodb"
	"goshop/internal/services"
	"goshop/pkg/cache"
	"goshop/pkg/database"
	"goshop/pkg/logger"
	"goshop/pkg/payment"
	"goshop/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Structured logging
	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	auditLogger, err := logger.NewAuditLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}

	// MongoDB
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()

	// Schema migrations, including the unique payment confirmation index
	migrator := database.NewMigrator(mongoDB.Database)
	if err := migrator.Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Repositories
	couponRepo := mongodb.NewCouponRepository(mongoDB.Database, redisCache)
	orderRepo := mongodb.NewOrderRepository(mongoDB.Database, redisCache)
	cartRepo := mongodb.NewCartRepository(mongoDB.Database)
	productRepo := mongodb.NewProductRepository(mongoDB.Database, redisCache)
	userRepo := mongodb.NewUserRepository(mongoDB.Database, redisCache)

	// Payment providers
	providers := map[models.PaymentMethod]payment.Provider{
		models.PaymentMethodRazorpay: payment.NewRazorpayProvider(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
			cfg.Checkout.ProviderVerifyTimeout,
		),
		models.PaymentMethodStripe: payment.NewStripeProvider(
			cfg.Payment.Stripe.SecretKey,
			cfg.Payment.Stripe.WebhookSecret,
		),
	}

	// Services
	settlementService := services.NewSettlementService(
		cartRepo,
		productRepo,
		couponRepo,
		orderRepo,
		userRepo,
		providers,
		redisCache,
		cfg.Checkout,
		cfg.Payment.Currency,
		appLogger,
		auditLogger,
	)
	couponService := services.NewCouponService(couponRepo, appLogger)
	orderService := services.NewOrderService(orderRepo, appLogger)
	webhookService := services.NewWebhookService(orderRepo, providers, appLogger)

	// Handlers
	checkoutHandler := handlers.NewCheckoutHandler(settlementService, appLogger)
	orderHandler := handlers.NewOrderHandler(orderService)
	couponHandler := handlers.NewCouponHandler(couponService)
	webhookHandler := handlers.NewWebhookHandler(webhookService, appLogger)

	// Gin router
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupCheckoutRoutes(v1, checkoutHandler, cfg.Security.JWTSecret)
		routes.SetupOrderRoutes(v1, orderHandler, cfg.Security.JWTSecret)
		routes.SetupCouponRoutes(v1, couponHandler, cfg.Security.JWTSecret)
		routes.SetupWebhookRoutes(v1, webhookHandler)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := mongoDB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"version": cfg.App.Version,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}
