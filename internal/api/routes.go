package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridstor/curvecast/internal/api/handlers"
	"github.com/gridstor/curvecast/internal/database"
	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/middleware"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Handlers groups the route handlers wired in main.
type Handlers struct {
	Curves  *handlers.CurveHandler
	Data    *handlers.DataHandler
	Upload  *handlers.UploadHandler
	Overlay *handlers.OverlayHandler
}

func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, h Handlers, logger *logging.StandardLogger) {
	router.Use(middleware.TelemetryMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health check endpoint
	router.GET("/health", healthCheck(db, redis))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Curve catalog and per-definition views
		curves := v1.Group("/curves")
		{
			curves.GET("", h.Curves.ListCurves)
			curves.POST("", h.Curves.CreateCurve)
			curves.DELETE("/:id", h.Curves.DeactivateCurve)
			curves.GET("/:id/instances", h.Curves.ListInstances)
			curves.GET("/:id/best", h.Curves.GetBestInstance)
			curves.GET("/:id/freshness", h.Curves.GetFreshness)
			curves.POST("/:id/upload", h.Upload.Upload)
		}

		// Instance data and lifecycle
		instances := v1.Group("/instances")
		{
			instances.GET("/:id/data", h.Data.GetInstanceData)
			instances.GET("/:id/aggregate", h.Data.GetAggregate)
			instances.POST("/:id/promote", h.Upload.Promote)
			instances.POST("/:id/archive", h.Upload.Archive)
		}

		// Single point edits
		v1.PUT("/points/:id", h.Upload.UpdatePoint)

		// Cohort freshness summary
		v1.GET("/freshness", h.Curves.FreshnessSummary)

		// Overlay view-model
		v1.POST("/overlay", h.Overlay.BuildOverlay)

		// CSV export
		v1.GET("/export/csv", h.Data.ExportCSV)
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
			},
		}

		// Check database health
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Database = "error"
			response.Status = "degraded"
		}

		// Check Redis health
		if err := redis.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
