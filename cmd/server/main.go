package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	// Internal packages
	"github.com/seu-repo/retention-center/internal/adapter/cache"
	"github.com/seu-repo/retention-center/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/retention-center/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/retention-center/internal/adapter/storage/postgres"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
	"github.com/seu-repo/retention-center/internal/service/analytics"
	"github.com/seu-repo/retention-center/internal/service/auth"
	"github.com/seu-repo/retention-center/internal/service/health"
	"github.com/seu-repo/retention-center/internal/service/retention"
	"github.com/seu-repo/retention-center/internal/service/scoring"
	"github.com/seu-repo/retention-center/pkg/config"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting Retention Center",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry.ServiceName, cfg.OpenTelemetry.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	// 5. Initialize Response Cache (Redis, with in-memory fallback)
	var responseCache ports.Cache
	if cfg.Redis.Enabled {
		responseCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			responseCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
		}
	} else {
		responseCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
	}
	defer responseCache.Close()

	// 6. Initialize Repositories
	customerRepo := postgres.NewCustomerRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	subscriptionRepo := postgres.NewSubscriptionRepository(db, logger)
	contactRepo := postgres.NewContactEventRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)

	// 7. Initialize Scoring Components
	classifier := scoring.NewClassifier(&scoring.ClassifyThresholds{
		DueSoonDays:      cfg.Retention.DueSoonDays,
		DormantDueDays:   cfg.Retention.DormantDueDays,
		DormantLapseDays: cfg.Retention.DormantLapseDays,
	})
	scorer := scoring.NewScorer(&scoring.ScoreParams{
		RevenueCap:         cfg.Scoring.RevenueCap,
		UrgencyCap:         cfg.Scoring.UrgencyCap,
		TierCap:            cfg.Scoring.TierCap,
		EngagementCap:      cfg.Scoring.EngagementCap,
		RevenueThresholds:  cfg.Scoring.RevenueThresholds,
		RevenueSteps:       cfg.Scoring.RevenueSteps,
		RevenueFloor:       cfg.Scoring.RevenueFloor,
		UrgencyHorizonDays: cfg.Scoring.UrgencyHorizonDays,
		TopTierGroups:      cfg.Scoring.TopTierGroups,
		MidTierGroups:      cfg.Scoring.MidTierGroups,
		TopTierScore:       cfg.Scoring.TopTierScore,
		MidTierScore:       cfg.Scoring.MidTierScore,
		BaseTierScore:      cfg.Scoring.BaseTierScore,
		CriticalThreshold:  cfg.Scoring.CriticalThreshold,
		HighThreshold:      cfg.Scoring.HighThreshold,
		MediumThreshold:    cfg.Scoring.MediumThreshold,
	})
	estimator := scoring.NewEstimator(&scoring.UpsellParams{
		PerSeatPrice:     cfg.Upsell.PerSeatPrice,
		SeatBaseline:     cfg.Upsell.SeatBaseline,
		CrossSellValue:   cfg.Upsell.CrossSellValue,
		CrossSellMaxList: cfg.Upsell.CrossSellMaxList,
		TierUpgradeValue: cfg.Upsell.TierUpgradeValue,
		Catalog:          cfg.Upsell.Catalog,
		PotentialFactor:  cfg.Upsell.PotentialFactor,
	})

	// 8. Initialize Services (Business Logic Layer)
	authService := auth.NewService(userRepo, responseCache, cfg.JWT.Secret, logger)
	retentionService := retention.NewService(
		customerRepo,
		orderRepo,
		subscriptionRepo,
		contactRepo,
		classifier,
		scorer,
		estimator,
		responseCache,
		retention.Params{
			AtRiskWindowDays: cfg.Retention.AtRiskWindowDays,
			RecentOrderLimit: cfg.Retention.RecentOrderLimit,
			DashboardTTL:     cfg.Cache.DashboardTTL,
		},
		logger,
	)
	analyticsService := analytics.NewService(
		orderRepo,
		subscriptionRepo,
		responseCache,
		analytics.Params{
			HighValueThreshold:   cfg.Retention.HighValueThreshold,
			MediumValueThreshold: cfg.Retention.MediumValueThreshold,
			TrendTTL:             cfg.Cache.TrendTTL,
			CalendarTTL:          cfg.Cache.CalendarTTL,
		},
		logger,
	)
	healthService := health.NewService(&health.Config{
		Version: cfg.App.Version,
		DB:      sqlDB,
		Cache:   responseCache,
	}, logger)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	// Health check endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// 10. Register API Routes
	authHandler := handlers.NewAuthHandler(authService, logger)
	retentionHandler := handlers.NewRetentionHandler(retentionService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)

	v1 := app.Group("/api/v1")

	// Public auth routes
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/dashboard/summary", retentionHandler.DashboardSummary)
	protected.Get("/clients", retentionHandler.ListClients)
	protected.Get("/clients/search", retentionHandler.SearchClients)
	protected.Get("/clients/:id", retentionHandler.ClientDetail)
	protected.Get("/clients/:id/contacts", retentionHandler.ContactHistory)
	protected.Post("/clients/:id/contacted", middleware.WriteRequired(), retentionHandler.MarkContacted)

	protected.Get("/analytics/trend", analyticsHandler.Trend)
	protected.Get("/analytics/calendar", analyticsHandler.Calendar)
	protected.Get("/analytics/calendar/:year/:month", analyticsHandler.CalendarMonth)
	protected.Get("/analytics/products", analyticsHandler.ProductRetention)

	// 11. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
