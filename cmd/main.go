package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/moeketsims/stocktracking-sub002/internal/analytics"
	"github.com/moeketsims/stocktracking-sub002/internal/caching"
	"github.com/moeketsims/stocktracking-sub002/internal/config"
	"github.com/moeketsims/stocktracking-sub002/internal/handlers"
	"github.com/moeketsims/stocktracking-sub002/internal/jobs"
	"github.com/moeketsims/stocktracking-sub002/internal/jobs/background"
	"github.com/moeketsims/stocktracking-sub002/internal/middleware"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
	"github.com/moeketsims/stocktracking-sub002/internal/services"
	"github.com/moeketsims/stocktracking-sub002/pkg/database"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Warn().Msg("no JWT secret configured, using a generated one; tokens will not survive a restart")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cacheSvc := caching.NewRedisCacheService(redisClient, log)

	objectStore, err := services.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object store")
	}

	// Repositories
	locationRepo := repositories.NewLocationRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	batchRepo := repositories.NewBatchRepo(pool)
	txnRepo := repositories.NewTransactionRepo(pool)
	usageRepo := repositories.NewUsageLogRepo(pool)
	alertRepo := repositories.NewAlertRepo(pool)

	// Services
	stockSvc := services.NewStockService(batchRepo, itemRepo, txnRepo, cacheSvc, log)
	thresholdSvc := services.NewThresholdService(locationRepo)
	usageSvc := services.NewUsageService(usageRepo, itemRepo, stockSvc, log)
	analyticsSvc := analytics.NewService(locationRepo, itemRepo, batchRepo, txnRepo, usageRepo, alertRepo,
		cacheSvc, log, cfg.Stock.PrimarySKU, cfg.Jobs.RecentActivitySize)
	reportSvc := services.NewReportService(analyticsSvc, objectStore, cfg.Minio.Bucket, log)

	// Background jobs
	alertSweep := jobs.NewStockAlertService(locationRepo, itemRepo, batchRepo, alertRepo, log, cfg.Stock.PrimarySKU)
	scheduler, err := background.NewJobScheduler(alertSweep, reportSvc, background.Config{
		AlertSweepInterval:   time.Duration(cfg.Jobs.AlertSweepMinutes) * time.Minute,
		ReportExportInterval: time.Duration(cfg.Jobs.ReportExportHours) * time.Hour,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build job scheduler")
	}
	scheduler.Start()

	// Handlers
	locationHandlers := handlers.NewLocationHandlers(locationRepo, thresholdSvc)
	itemHandlers := handlers.NewItemHandlers(itemRepo)
	batchHandlers := handlers.NewBatchHandlers(batchRepo)
	stockHandlers := handlers.NewStockHandlers(stockSvc)
	usageHandlers := handlers.NewUsageHandlers(usageSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsSvc, cfg.Jobs.DefaultTrendDays)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWT(jwtSecret))
	v1.Use(middleware.ActorExtractor())

	// Locations and thresholds
	v1.POST("/locations", locationHandlers.CreateLocation)
	v1.GET("/locations", locationHandlers.ListLocations)
	v1.GET("/locations/:id", locationHandlers.GetLocation)
	v1.PUT("/locations/:id", locationHandlers.UpdateLocation)
	v1.PUT("/locations/:id/thresholds", locationHandlers.UpdateThresholds)
	v1.DELETE("/locations/:id", locationHandlers.DeleteLocation)

	// Items
	v1.POST("/items", itemHandlers.CreateItem)
	v1.GET("/items", itemHandlers.ListItems)
	v1.GET("/items/:id", itemHandlers.GetItem)
	v1.PUT("/items/:id", itemHandlers.UpdateItem)

	// Batches
	v1.GET("/batches/:id", batchHandlers.GetBatch)
	v1.PUT("/batches/:id/status", batchHandlers.UpdateBatchStatus)
	v1.GET("/locations/:id/batches", batchHandlers.ListBatchesByLocation)

	// Stock movements
	v1.POST("/stock/receive", stockHandlers.ReceiveStock)
	v1.POST("/stock/issue", stockHandlers.IssueStock)
	v1.POST("/stock/waste", stockHandlers.WasteStock)
	v1.POST("/stock/adjust", stockHandlers.AdjustStock)
	v1.POST("/stock/transfer", stockHandlers.TransferStock)
	v1.GET("/locations/:id/on-hand", stockHandlers.OnHand)
	v1.GET("/locations/:id/fifo-suggestion", stockHandlers.FIFOSuggestion)

	// Usage log
	v1.POST("/usage", usageHandlers.LogUsage)
	v1.POST("/usage/:id/undo", usageHandlers.UndoUsage)
	v1.GET("/locations/:id/usage", usageHandlers.ListUsage)

	// Dashboard and trends
	v1.GET("/dashboard", dashboardHandlers.Overview)
	v1.GET("/locations/:id/snapshot", dashboardHandlers.LocationSnapshot)
	v1.GET("/locations/:id/trends/daily", dashboardHandlers.DailyTrend)
	v1.GET("/locations/:id/trends/hourly", dashboardHandlers.HourlyPattern)
	v1.GET("/locations/:id/trends/summary", dashboardHandlers.TrendSummary)

	// Serve until interrupted, then drain.
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		log.Info().Str("addr", addr).Str("version", version).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
