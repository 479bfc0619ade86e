package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/services"
)

// DataHandler serves tall/wide data, aggregates, and CSV export.
type DataHandler struct {
	instances InstanceStore
	logger    *logging.StandardLogger
}

// NewDataHandler creates a data handler.
func NewDataHandler(instances InstanceStore, logger *logging.StandardLogger) *DataHandler {
	return &DataHandler{
		instances: instances,
		logger:    logger,
	}
}

// GetInstanceData returns an instance's data points, tall by default or
// pivoted wide with ?format=wide.
// GET /api/v1/instances/:id/data
func (h *DataHandler) GetInstanceData(c *gin.Context) {
	instanceID := c.Param("id")

	points, err := h.instances.ListDataPoints(c.Request.Context(), []string{instanceID})
	if err != nil {
		h.logger.WithInstance(instanceID).WithError(err).Error("Failed to load data points")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data points"})
		return
	}

	if c.Query("format") == "wide" {
		wide := services.PivotToWide(points)
		c.JSON(http.StatusOK, gin.H{
			"data":  wide,
			"total": len(wide),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  points,
		"total": len(points),
	})
}

// AggregateResponse wraps period aggregates with their cross-scenario
// summaries.
type AggregateResponse struct {
	Period     models.AggregationPeriod `json:"period"`
	Aggregates []models.AggregatedPoint `json:"aggregates"`
	Summaries  []models.PeriodSummary   `json:"summaries"`
	Timestamp  time.Time                `json:"timestamp"`
}

// GetAggregate rolls an instance's points up to monthly or annual means.
// GET /api/v1/instances/:id/aggregate?period=monthly|annual
func (h *DataHandler) GetAggregate(c *gin.Context) {
	instanceID := c.Param("id")

	period := models.AggregationPeriod(c.DefaultQuery("period", string(models.PeriodMonthly)))
	if period != models.PeriodMonthly && period != models.PeriodAnnual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be monthly or annual"})
		return
	}

	points, err := h.instances.ListDataPoints(c.Request.Context(), []string{instanceID})
	if err != nil {
		h.logger.WithInstance(instanceID).WithError(err).Error("Failed to load data points for aggregation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data points"})
		return
	}

	aggregates := services.Aggregate(points, period)
	c.JSON(http.StatusOK, AggregateResponse{
		Period:     period,
		Aggregates: aggregates,
		Summaries:  services.OverallAverages(aggregates),
		Timestamp:  time.Now(),
	})
}

// ExportCSV streams the selected instances as CSV: a header row, then one
// row per date with one value column per curve key.
// GET /api/v1/export/csv?instance_ids=a,b&mode=wide|aggregate&period=annual
func (h *DataHandler) ExportCSV(c *gin.Context) {
	idsParam := c.Query("instance_ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instance_ids is required"})
		return
	}
	instanceIDs := strings.Split(idsParam, ",")

	points, err := h.instances.ListDataPoints(c.Request.Context(), instanceIDs)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load data points for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data points"})
		return
	}

	var columns []services.ExportColumn
	switch c.DefaultQuery("mode", "wide") {
	case "wide":
		columns = services.ColumnsFromWide(services.PivotToWide(points))
	case "aggregate":
		period := models.AggregationPeriod(c.DefaultQuery("period", string(models.PeriodMonthly)))
		if period != models.PeriodMonthly && period != models.PeriodAnnual {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period must be monthly or annual"})
			return
		}
		columns = services.ColumnsFromAggregates(services.Aggregate(points, period))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be wide or aggregate"})
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCurveCSV(&buf, columns); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write csv"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="curves.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
