package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gridstor/curvecast/internal/api"
	"github.com/gridstor/curvecast/internal/api/handlers"
	"github.com/gridstor/curvecast/internal/cache"
	"github.com/gridstor/curvecast/internal/config"
	"github.com/gridstor/curvecast/internal/database"
	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/services"
	"github.com/gridstor/curvecast/internal/telemetry"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewStandardLogger(cfg.LogLevel, cfg.Environment)

	// Initialize tracing
	shutdownTelemetry, err := telemetry.InitTelemetry(cfg.Telemetry.Enabled, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Repositories and services
	curveRepo := database.NewCurveRepository(db.Pool)
	instanceRepo := database.NewInstanceRepository(db.Pool)

	cacheTTL, _ := time.ParseDuration(cfg.Freshness.CacheTTL)
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	freshnessCache := cache.NewRedisFreshnessCache(redis.Client, cacheTTL)
	freshnessService := services.NewFreshnessService(logger.Logger())
	validator := services.NewUploadValidator(cfg.Upload.MinValue, cfg.Upload.MaxValue, cfg.Upload.MaxBatchSize)

	defaultFreq := models.UpdateFrequency(cfg.Freshness.DefaultFrequency)

	routeHandlers := api.Handlers{
		Curves:  handlers.NewCurveHandler(curveRepo, instanceRepo, freshnessService, freshnessCache, defaultFreq, cfg.Freshness.VintageWindowDays, logger),
		Data:    handlers.NewDataHandler(instanceRepo, logger),
		Upload:  handlers.NewUploadHandler(curveRepo, instanceRepo, instanceRepo, validator, freshnessCache, logger),
		Overlay: handlers.NewOverlayHandler(instanceRepo, logger),
	}

	// Setup Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, db, redis, routeHandlers, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.LogStartup(telemetry.ServiceName, telemetry.ServiceVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.LogShutdown(telemetry.ServiceName, "signal received")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := shutdownTelemetry(ctx); err != nil {
		logger.WithError(err).Warn("Telemetry shutdown failed")
	}

	log.Println("Server exited")
}
