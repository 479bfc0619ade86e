package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridstor/curvecast/internal/logging"
	"github.com/gridstor/curvecast/internal/models"
	"github.com/gridstor/curvecast/internal/services"
)

// OverlayHandler builds the renderable series set for multi-curve charts.
type OverlayHandler struct {
	instances InstanceStore
	logger    *logging.StandardLogger
}

// NewOverlayHandler creates an overlay handler.
func NewOverlayHandler(instances InstanceStore, logger *logging.StandardLogger) *OverlayHandler {
	return &OverlayHandler{
		instances: instances,
		logger:    logger,
	}
}

// OverlayRequest names the primary instance and the overlays currently
// selected, in selection order. Colors are assigned per request from the
// current selection, so deselecting a curve frees its color.
type OverlayRequest struct {
	PrimaryInstanceID  string   `json:"primary_instance_id" binding:"required"`
	OverlayInstanceIDs []string `json:"overlay_instance_ids"`
}

// BuildOverlay produces the series set: median + confidence bands for the
// primary, one line per overlay with a collision-free palette color.
// POST /api/v1/overlay
func (h *OverlayHandler) BuildOverlay(c *gin.Context) {
	var req OverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid overlay payload: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	primary, err := h.instances.GetInstance(ctx, req.PrimaryInstanceID)
	if err != nil {
		h.logger.WithInstance(req.PrimaryInstanceID).WithError(err).Error("Failed to load primary instance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load primary instance"})
		return
	}
	if primary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "primary instance not found"})
		return
	}

	overlays := make([]models.CurveInstance, 0, len(req.OverlayInstanceIDs))
	for _, id := range req.OverlayInstanceIDs {
		overlay, err := h.instances.GetInstance(ctx, id)
		if err != nil {
			h.logger.WithInstance(id).WithError(err).Error("Failed to load overlay instance")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load overlay instance"})
			return
		}
		if overlay == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "overlay instance not found: " + id})
			return
		}
		overlays = append(overlays, *overlay)
	}

	set := services.BuildOverlaySet(primary, overlays, services.NewColorAllocator())
	c.JSON(http.StatusOK, set)
}
