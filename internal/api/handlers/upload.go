package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/services"
	"github.com/gridstor/curvecast/internal/utils"
)

// PointStore is the data-point persistence the upload handler depends on.
type PointStore interface {
	UpdatePointValue(ctx context.Context, pointID string, value decimal.Decimal) error
}

// UploadHandler serves uploads, lifecycle transitions, and point edits.
type UploadHandler struct {
	curves    CurveStore
	instances InstanceStore
	points    PointStore
	validator *services.UploadValidator
	cache     FreshnessCache
	logger    *logging.StandardLogger
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(curves CurveStore, instances InstanceStore, points PointStore, validator *services.UploadValidator, freshnessCache FreshnessCache, logger *logging.StandardLogger) *UploadHandler {
	return &UploadHandler{
		curves:    curves,
		instances: instances,
		points:    points,
		validator: validator,
		cache:     freshnessCache,
		logger:    logger,
	}
}

// Upload validates and persists a curve upload atomically. Any malformed row
// rejects the whole batch with per-row messages; nothing is partially
// committed.
// POST /api/v1/curves/:id/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	definitionID := c.Param("id")
	ctx := c.Request.Context()

	var req services.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload payload: " + err.Error()})
		return
	}

	def, err := h.curves.GetDefinition(ctx, definitionID)
	if err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Error("Failed to load definition for upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load definition"})
		return
	}
	if def == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "curve definition not found"})
		return
	}

	instance, points, err := h.validator.Validate(definitionID, req)
	if err != nil {
		var batchErr *utils.BatchError
		if errors.As(err, &batchErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "upload rejected",
				"row_errors": batchErr.RowErrors,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.instances.CreateInstanceWithPoints(ctx, instance, points); err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Error("Failed to persist upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist upload"})
		return
	}

	if err := h.cache.Invalidate(ctx, definitionID); err != nil {
		h.logger.WithCurve(definitionID).WithError(err).Warn("Failed to invalidate freshness cache")
	}

	h.logger.WithInstance(instance.ID).WithField("points", len(points)).Info("Curve upload persisted")
	c.JSON(http.StatusCreated, gin.H{
		"instance": instance,
		"points":   len(points),
	})
}

// Promote moves a DRAFT instance to ACTIVE, making it visible to selection.
// POST /api/v1/instances/:id/promote
func (h *UploadHandler) Promote(c *gin.Context) {
	h.transition(c, models.InstanceStatusActive)
}

// Archive excludes an instance from selection and catalogs.
// POST /api/v1/instances/:id/archive
func (h *UploadHandler) Archive(c *gin.Context) {
	h.transition(c, models.InstanceStatusArchived)
}

func (h *UploadHandler) transition(c *gin.Context, status models.InstanceStatus) {
	instanceID := c.Param("id")
	ctx := c.Request.Context()

	instance, err := h.instances.GetInstance(ctx, instanceID)
	if err != nil {
		h.logger.WithInstance(instanceID).WithError(err).Error("Failed to load instance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load instance"})
		return
	}
	if instance == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "curve instance not found"})
		return
	}

	if err := h.instances.UpdateInstanceStatus(ctx, instanceID, status); err != nil {
		h.logger.WithInstance(instanceID).WithError(err).Error("Failed to update instance status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	if err := h.cache.Invalidate(ctx, instance.DefinitionID); err != nil {
		h.logger.WithCurve(instance.DefinitionID).WithError(err).Warn("Failed to invalidate freshness cache")
	}

	c.JSON(http.StatusOK, gin.H{
		"instance_id": instanceID,
		"status":      status,
	})
}

// PointEditRequest is the body of a single-point edit.
type PointEditRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// UpdatePoint overwrites one data point's value. Last writer wins; there is
// no optimistic concurrency on point edits.
// PUT /api/v1/points/:id
func (h *UploadHandler) UpdatePoint(c *gin.Context) {
	pointID := c.Param("id")

	var req PointEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point edit payload: " + err.Error()})
		return
	}

	value := decimal.NewFromFloat(*req.Value)
	if err := h.points.UpdatePointValue(c.Request.Context(), pointID, value); err != nil {
		h.logger.WithError(err).Error("Failed to update data point")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update point"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"point_id": pointID,
		"value":    value,
	})
}
