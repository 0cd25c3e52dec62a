package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/marketbay/storefront-api/configs"
	"github.com/marketbay/storefront-api/internal/application/services"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
	"github.com/marketbay/storefront-api/internal/infrastructure/email"
	"github.com/marketbay/storefront-api/internal/infrastructure/health"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver"
	"github.com/marketbay/storefront-api/internal/infrastructure/redis"
	"github.com/marketbay/storefront-api/internal/infrastructure/repositories"
	"github.com/marketbay/storefront-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting storefront API...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize Redis repository implementations
	codeRepo := repositories.NewActionCodeRedisRepository(redisClient, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	// Generic Redis cache for read-heavy entities
	redisCache := redis.NewRedisCache(redisClient, "storecache")

	// Initialize db repository implementations
	baseAccountRepo := repositories.NewAccountRepository(database, logger)
	baseCartRepo := repositories.NewCartRepository(database, logger)
	tokenRepo := repositories.NewTokenRepository(database, logger)
	auditRepo := repositories.NewAuditRepository(database, logger)

	// Decorate with caching (choose TTLs)
	accountRepo := repositories.NewCachingAccountRepository(baseAccountRepo, redisCache, 3*time.Minute)
	cartRepo := repositories.NewCachingCartRepository(baseCartRepo, redisCache, 5*time.Minute)

	// Email service
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		StoreName:      cfg.Email.StoreName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Wire all services with their repository dependencies
	hasher := utils.NewBcryptHasher(cfg.Hash.BcryptCost)

	accountService := services.NewAccountService(accountRepo, codeRepo, tokenRepo, emailService, hasher, &cfg.Code, logger)
	authService := services.NewAuthService(accountRepo, tokenRepo, hasher, &cfg.JWT, logger)
	cartService := services.NewCartService(cartRepo, logger)
	auditService := services.NewAuditService(auditRepo, logger)
	accessControlService := services.NewAccessControlService(cfg.Admin.AllowedEmails)

	rateLimiterConfig := &services.RateLimiterConfig{
		DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
		Window:                   cfg.RateLimit.Window,
		KeyPrefix:                cfg.RateLimit.KeyPrefix,
	}
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, rateLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		AccountService:       accountService,
		AuthService:          authService,
		CartService:          cartService,
		AuditService:         auditService,
		AccessControlService: accessControlService,
		RateLimiterService:   rateLimiterService,
		HealthCheckers:       hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Background maintenance stops when the root context is canceled on shutdown
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	authService.StartTokenCleanup(rootCtx)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopBackground()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
