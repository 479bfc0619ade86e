package models

// SeriesRole identifies how a rendered series is used by the chart.
type SeriesRole string

const (
	RoleMedian    SeriesRole = "MEDIAN"
	RoleBandUpper SeriesRole = "BAND_UPPER"
	RoleBandLower SeriesRole = "BAND_LOWER"
	RoleOverlay   SeriesRole = "OVERLAY"
)

// OverlaySeries is one renderable line in the multi-curve overlay. Band
// boundary series come in upper/lower pairs sharing a Band name.
type OverlaySeries struct {
	InstanceID string     `json:"instance_id"`
	Label      string     `json:"label"`
	Role       SeriesRole `json:"role"`
	Scenario   Scenario   `json:"scenario"`
	Band       string     `json:"band,omitempty"`
	Color      string     `json:"color"`
}

// OverlaySet is the full series set for one chart: the primary's median and
// confidence bands plus one line per overlay instance.
type OverlaySet struct {
	Primary  []OverlaySeries `json:"primary"`
	Overlays []OverlaySeries `json:"overlays"`
}
