package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"prohealth/internal/config"
	"prohealth/internal/handlers"
	"prohealth/internal/middleware"
	"prohealth/internal/repositories/mongodb"
	shopifyrepo "prohealth/internal/repositories/shopify"
	"prohealth/internal/services"
	"prohealth/pkg/cache"
	"prohealth/pkg/database"
	"prohealth/pkg/logger"
	"prohealth/pkg/shopify"
	"prohealth/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Infrastructure
	db, err := database.NewMongoDB(&database.DatabaseConfig{
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
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

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

	api := shopify.NewClient(cfg.Shopify.APIVersion)

	// Repositories
	shopRepo := mongodb.NewShopRepository(db.Database)
	depositRepo := mongodb.NewDepositRepository(db.Database)
	partnerRepo := shopifyrepo.NewPartnerRepository(api, cfg.Shopify.MetaobjectType)
	signupRepo := shopifyrepo.NewPendingSignupRepository(api)
	settingsRepo := shopifyrepo.NewSettingsRepository(api)

	gateway := services.NewShopifyGateway(api)

	// Services
	settingsService := services.NewSettingsService(settingsRepo, redisCache, cfg.Program, appLogger)
	editLockService := services.NewEditLockService(redisCache, cfg.Security, appLogger)
	partnerService := services.NewPartnerService(partnerRepo, gateway, settingsService, appLogger)
	signupService := services.NewSignupService(signupRepo, partnerService, partnerRepo, settingsService, redisCache, appLogger)
	reconcilerService := services.NewReconcilerService(partnerRepo, depositRepo, gateway, gateway, settingsService, redisCache, cfg.App.Currency, appLogger)
	analyticsService := services.NewAnalyticsService(partnerRepo, gateway, appLogger)
	shopService := services.NewShopService(shopRepo, api, cfg.Shopify, cfg.App.BaseURL, appLogger)
	depositLedger := services.NewDepositLedgerService(depositRepo)

	// Handlers
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	signupHandler := handlers.NewSignupHandler(signupService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, depositLedger)
	webhookHandler := handlers.NewWebhookHandler(shopService, reconcilerService, redisCache, appLogger)
	authHandler := handlers.NewAuthHandler(shopService, editLockService, cfg.Shopify, cfg.App.BaseURL, appLogger)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(appLogger))

	// Public routes: OAuth and signed webhooks
	public := router.Group("/")
	{
		routes.SetupOAuthRoutes(public, authHandler)
		routes.SetupWebhookRoutes(public, webhookHandler, middleware.WebhookHMAC(cfg.Shopify.APISecret, appLogger))
	}

	// Admin API, behind the embedded-app session token
	editUnlock := middleware.EditUnlockRequired(editLockService)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.SessionAuth(cfg.Shopify, shopRepo, appLogger))
	{
		routes.SetupPartnerRoutes(v1, partnerHandler, editUnlock)
		routes.SetupSignupRoutes(v1, signupHandler, editUnlock)
		routes.SetupSettingsRoutes(v1, settingsHandler, editUnlock)
		routes.SetupAnalyticsRoutes(v1, analyticsHandler)
		routes.SetupEditModeRoutes(v1, authHandler)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func newLogger(app *config.AppConfig) (*logger.Logger, error) {
	format := "text"
	if config.IsProduction() {
		format = "json"
	}
	return logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(app.LogLevel),
		Format: format,
		Output: "stdout",
		Colors: app.Debug,
	})
}
