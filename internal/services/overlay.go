package services

import (
	"fmt"
	"sync"

	"github.com/gridstor/curvecast/internal/models"
)

// overlayPalette is the fixed set of colors overlay curves draw from. The
// primary curve always uses primaryColor and never competes for these.
var overlayPalette = []string{
	"#E8702A", "#5B8C5A", "#7A5195", "#FFA600",
	"#2F4B7C", "#BC5090", "#00876C", "#D45087",
}

const primaryColor = "#003F5C"

// ColorAllocator hands out palette colors so no two simultaneously-selected
// curves share one. Releasing a curve frees its color for reuse.
type ColorAllocator struct {
	mu       sync.Mutex
	palette  []string
	assigned map[string]string // instanceID -> color
}

// NewColorAllocator creates an allocator over the fixed overlay palette.
func NewColorAllocator() *ColorAllocator {
	return &ColorAllocator{
		palette:  overlayPalette,
		assigned: make(map[string]string),
	}
}

// Assign returns the color for an instance, allocating the first palette
// color not already in use. An instance keeps its color across repeated
// calls. When the palette is exhausted a deterministic fallback shade is
// generated so rendering never fails.
func (a *ColorAllocator) Assign(instanceID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if color, ok := a.assigned[instanceID]; ok {
		return color
	}

	inUse := make(map[string]bool, len(a.assigned))
	for _, color := range a.assigned {
		inUse[color] = true
	}
	for _, color := range a.palette {
		if !inUse[color] {
			a.assigned[instanceID] = color
			return color
		}
	}

	color := fmt.Sprintf("#%06X", 0x808080+len(a.assigned)*0x0B1D31%0x7FFFFF)
	a.assigned[instanceID] = color
	return color
}

// Release frees the color held by an instance.
func (a *ColorAllocator) Release(instanceID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.assigned, instanceID)
}

// BuildOverlaySet produces the renderable series set for a chart: the primary
// instance contributes a P50 median line plus P5–P95 and P25–P75 band
// boundaries, and each overlay contributes a single line (P50 when present,
// else Base). Pure view-model transform; nothing is persisted.
func BuildOverlaySet(primary *models.CurveInstance, overlays []models.CurveInstance, alloc *ColorAllocator) models.OverlaySet {
	var set models.OverlaySet
	if primary != nil {
		label := primary.InstanceVersion
		set.Primary = []models.OverlaySeries{
			{InstanceID: primary.ID, Label: label, Role: models.RoleMedian, Scenario: models.ScenarioP50, Color: primaryColor},
			{InstanceID: primary.ID, Label: label, Role: models.RoleBandUpper, Scenario: models.ScenarioP95, Band: "P5-P95", Color: primaryColor},
			{InstanceID: primary.ID, Label: label, Role: models.RoleBandLower, Scenario: models.ScenarioP5, Band: "P5-P95", Color: primaryColor},
			{InstanceID: primary.ID, Label: label, Role: models.RoleBandUpper, Scenario: models.ScenarioP75, Band: "P25-P75", Color: primaryColor},
			{InstanceID: primary.ID, Label: label, Role: models.RoleBandLower, Scenario: models.ScenarioP25, Band: "P25-P75", Color: primaryColor},
		}
	}

	for _, overlay := range overlays {
		scenario := models.ScenarioBase
		for _, s := range overlay.Scenarios {
			if models.NormalizeScenario(s) == models.ScenarioP50 {
				scenario = models.ScenarioP50
				break
			}
		}
		set.Overlays = append(set.Overlays, models.OverlaySeries{
			InstanceID: overlay.ID,
			Label:      overlay.InstanceVersion,
			Role:       models.RoleOverlay,
			Scenario:   scenario,
			Color:      alloc.Assign(overlay.ID),
		})
	}
	return set
}
