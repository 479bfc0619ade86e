package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/services"
)

// CurveStore is the definition-level persistence the handlers depend on.
type CurveStore interface {
	ListDefinitions(ctx context.Context, market, location string, includeInactive bool) ([]models.CurveDefinition, error)
	GetDefinition(ctx context.Context, id string) (*models.CurveDefinition, error)
	CreateDefinition(ctx context.Context, def *models.CurveDefinition) error
	DeactivateDefinition(ctx context.Context, id string) error
}

// InstanceStore is the instance-level persistence the handlers depend on.
type InstanceStore interface {
	ListActiveInstances(ctx context.Context, definitionID string) ([]models.CurveInstance, error)
	ListCohortInstances(ctx context.Context, market, location string) ([]models.CurveInstance, error)
	GetInstance(ctx context.Context, id string) (*models.CurveInstance, error)
	UpdateInstanceStatus(ctx context.Context, id string, status models.InstanceStatus) error
	ListMarkDates(ctx context.Context, definitionID string) ([]time.Time, error)
	CreateInstanceWithPoints(ctx context.Context, instance *models.CurveInstance, points []models.CurveDataPoint) error
	ListDataPoints(ctx context.Context, instanceIDs []string) ([]models.CurveDataPoint, error)
}

// FreshnessCache is the cached-state layer in front of streak computation.
type FreshnessCache interface {
	Get(ctx context.Context, definitionID string) (*models.FreshnessState, error)
	Set(ctx context.Context, definitionID string, state models.FreshnessState) error
	Invalidate(ctx context.Context, definitionID string) error
}

// CurveHandler serves the curve catalog, instance selection, and freshness
// endpoints.
type CurveHandler struct {
	curves      CurveStore
	instances   InstanceStore
	freshness   *services.FreshnessService
	cache       FreshnessCache
	defaultFreq models.UpdateFrequency
	vintageDays int
	logger      *logging.StandardLogger
}

// NewCurveHandler creates a curve handler.
func NewCurveHandler(curves CurveStore, instances InstanceStore, freshness *services.FreshnessService, freshnessCache FreshnessCache, defaultFreq models.UpdateFrequency, vintageDays int, logger *logging.StandardLogger) *CurveHandler {
	return &CurveHandler{
		curves:      curves,
		instances:   instances,
		freshness:   freshness,
		cache:       freshnessCache,
		defaultFreq: defaultFreq,
		vintageDays: vintageDays,
		logger:      logger,
	}
}

// CurveListResponse wraps the catalog listing.
type CurveListResponse struct {
	Data      []models.CurveDefinition `json:"data"`
	Total     int                      `json:"total"`
	Timestamp time.Time                `json:"timestamp"`
}

// ListCurves returns curve definitions filtered by market/location.
// GET /api/v1/curves?market=&location=&include_inactive=
func (h *CurveHandler) ListCurves(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	defs, err := h.curves.ListDefinitions(c.Request.Context(), c.Query("market"), c.Query("location"), includeInactive)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list curve definitions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list curves"})
		return
	}

	c.JSON(http.StatusOK, CurveListResponse{
		Data:      defs,
		Total:     len(defs),
		Timestamp: time.Now(),
	})
}

// CreateCurveRequest is the body of a catalog entry creation.
type CreateCurveRequest struct {
	Market          string  `json:"market" binding:"required"`
	Location        string  `json:"location" binding:"required"`
	Product         string  `json:"product" binding:"required"`
	BatteryDuration *string `json:"battery_duration"`
	Units           string  `json:"units"`
	Granularity     string  `json:"granularity"`
}

// CreateCurve registers a new curve definition in the catalog. Definitions
// are immutable once created; only is_active can change afterwards.
// POST /api/v1/curves
func (h *CurveHandler) CreateCurve(c *gin.Context) {
	var req CreateCurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid curve payload: " + err.Error()})
		return
	}

	granularity := models.Granularity(req.Granularity)
	if granularity == "" {
		granularity = models.GranularityMonthly
	}

	def := &models.CurveDefinition{
		ID:              uuid.New().String(),
		Market:          req.Market,
		Location:        req.Location,
		Product:         req.Product,
		BatteryDuration: req.BatteryDuration,
		Units:           req.Units,
		Granularity:     granularity,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.curves.CreateDefinition(c.Request.Context(), def); err != nil {
		h.logger.WithError(err).Error("Failed to create curve definition")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create curve"})
		return
	}

	c.JSON(http.StatusCreated, def)
}

// DeactivateCurve removes a definition from catalog listings without deleting
// its instances or data.
// DELETE /api/v1/curves/:id
func (h *CurveHandler) DeactivateCurve(c *gin.Context) {
	definitionID := c.Param("id")

	if err := h.curves.DeactivateDefinition(c.Request.Context(), definitionID); err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Warn("Failed to deactivate curve definition")
		c.JSON(http.StatusNotFound, gin.H{"error": "curve definition not found or already inactive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"definition_id": definitionID, "is_active": false})
}

// ListInstances returns the ACTIVE instances for a definition, newest first.
// GET /api/v1/curves/:id/instances
func (h *CurveHandler) ListInstances(c *gin.Context) {
	definitionID := c.Param("id")

	instances, err := h.instances.ListActiveInstances(c.Request.Context(), definitionID)
	if err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Error("Failed to list instances")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list instances"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  instances,
		"total": len(instances),
	})
}

// BestInstanceResponse carries the scorer result. Instance is null when no
// eligible instance exists — an empty state, not an error.
type BestInstanceResponse struct {
	Instance *models.CurveInstance `json:"instance"`
	Score    int                   `json:"score,omitempty"`
}

// GetBestInstance runs the selection scorer over a definition's ACTIVE
// instances.
// GET /api/v1/curves/:id/best
func (h *CurveHandler) GetBestInstance(c *gin.Context) {
	definitionID := c.Param("id")

	instances, err := h.instances.ListActiveInstances(c.Request.Context(), definitionID)
	if err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Error("Failed to load instances for selection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load instances"})
		return
	}

	best := services.SelectBestInstance(instances)
	resp := BestInstanceResponse{Instance: best}
	if best != nil {
		resp.Score = services.ScoreInstance(best)
	}
	c.JSON(http.StatusOK, resp)
}

// GetFreshness reports the cadence state and streak for one definition.
// GET /api/v1/curves/:id/freshness
func (h *CurveHandler) GetFreshness(c *gin.Context) {
	definitionID := c.Param("id")
	ctx := c.Request.Context()

	if cached, err := h.cache.Get(ctx, definitionID); err == nil && cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	marks, err := h.instances.ListMarkDates(ctx, definitionID)
	if err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Error("Failed to load mark dates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute freshness"})
		return
	}

	state := h.freshness.ComputeState(definitionID, h.defaultFreq, marks)
	if err := h.cache.Set(ctx, definitionID, state); err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Warn("Failed to cache freshness state")
	}

	c.JSON(http.StatusOK, state)
}

// FreshnessSummary tags every instance of a market/location cohort with
// whether it belongs to the current vintage.
// GET /api/v1/freshness?market=&location=
func (h *CurveHandler) FreshnessSummary(c *gin.Context) {
	market := c.Query("market")
	location := c.Query("location")
	if market == "" || location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market and location are required"})
		return
	}

	instances, err := h.instances.ListCohortInstances(c.Request.Context(), market, location)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cohort instances")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cohort"})
		return
	}

	window := time.Duration(h.vintageDays) * 24 * time.Hour
	tags := services.TagVintages(instances, window)
	c.JSON(http.StatusOK, gin.H{
		"data":  tags,
		"total": len(tags),
	})
}
