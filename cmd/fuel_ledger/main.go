package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/fuel_ledger/internal/adapters/cache"
	"github.com/SscSPs/fuel_ledger/internal/adapters/database/pgsql"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/core/services"
	"github.com/SscSPs/fuel_ledger/internal/handlers"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/platform/config"
	"github.com/SscSPs/fuel_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Fuel Ledger API
// @version 1.0
// @description Approval and rollback of fuel station records against a double-entry ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis is optional: without it the stock cache and rollback notifications are no-ops
	// and rate limiting counts per instance.
	var (
		stockCache  portssvc.StockCache       = cache.Noop{}
		notifier    portssvc.RollbackNotifier = cache.Noop{}
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		stationCache := cache.NewRedisStationCache(client, cfg.StockCacheTTL, cfg.RedisChannel)
		if err := stationCache.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			_ = stationCache.Close()
		} else {
			logger.Info("Connected to Redis", slog.String("addr", cfg.RedisAddr))
			defer stationCache.Close()
			stockCache, notifier, redisClient = stationCache, stationCache, client
		}
	}

	uow := pgsql.NewUnitOfWork(dbPool, cfg.RollbackTimeout)
	serviceContainer := services.NewServiceContainer(cfg, uow, clock.System(), stockCache, notifier)

	rollbackLimiter, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	}))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rollbackLimiter, dbPool.Ping)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
