package models

import (
	"strings"
	"time"
)

// InstanceStatus represents the lifecycle state of a curve instance.
type InstanceStatus string

const (
	InstanceStatusDraft    InstanceStatus = "DRAFT"
	InstanceStatusActive   InstanceStatus = "ACTIVE"
	InstanceStatusArchived InstanceStatus = "ARCHIVED"
)

// Granularity describes the native resolution of a curve's data points.
type Granularity string

const (
	GranularityHourly  Granularity = "HOURLY"
	GranularityMonthly Granularity = "MONTHLY"
	GranularityAnnual  Granularity = "ANNUAL"
)

// ProvenanceTier classifies who produced an instance. It is resolved once at
// ingestion so scoring code never repeats substring checks on CreatedBy.
type ProvenanceTier string

const (
	ProvenanceTrusted  ProvenanceTier = "TRUSTED"
	ProvenanceExternal ProvenanceTier = "EXTERNAL"
	ProvenanceUnknown  ProvenanceTier = "UNKNOWN"
)

// trustedCreatorMarker identifies the in-house forecasting team in
// free-text provenance strings.
const trustedCreatorMarker = "gridstor"

// ResolveProvenanceTier maps a free-text createdBy string to a tier.
func ResolveProvenanceTier(createdBy string) ProvenanceTier {
	if createdBy == "" {
		return ProvenanceUnknown
	}
	if strings.Contains(strings.ToLower(createdBy), trustedCreatorMarker) {
		return ProvenanceTrusted
	}
	return ProvenanceExternal
}

// CommodityKind classifies revenue-stream commodity labels. Resolved once at
// ingestion from the free-text commodity field.
type CommodityKind string

const (
	CommodityEnergy    CommodityKind = "ENERGY"
	CommodityAncillary CommodityKind = "ANCILLARY"
	CommodityCapacity  CommodityKind = "CAPACITY"
	CommodityTotal     CommodityKind = "TOTAL"
	CommodityOther     CommodityKind = "OTHER"
)

// ResolveCommodityKind maps a free-text commodity label to a kind.
func ResolveCommodityKind(commodity string) CommodityKind {
	c := strings.ToLower(commodity)
	switch {
	case strings.Contains(c, "total"):
		return CommodityTotal
	case strings.Contains(c, "capacity"):
		return CommodityCapacity
	case strings.Contains(c, "as ") || strings.Contains(c, "ancillary"):
		return CommodityAncillary
	case strings.Contains(c, "ea ") || strings.Contains(c, "energy"):
		return CommodityEnergy
	default:
		return CommodityOther
	}
}

// CurveDefinition is the stable taxonomy key for a forecast series. Many
// instances reference one definition; the definition itself is immutable.
type CurveDefinition struct {
	ID              string      `json:"id" db:"id"`
	Market          string      `json:"market" db:"market"`
	Location        string      `json:"location" db:"location"`
	Product         string      `json:"product" db:"product"`
	Commodity       *string     `json:"commodity,omitempty" db:"commodity"` // legacy, superseded by instance-level fields
	BatteryDuration *string     `json:"battery_duration,omitempty" db:"battery_duration"`
	Units           string      `json:"units" db:"units"`
	Granularity     Granularity `json:"granularity" db:"granularity"`
	IsActive        bool        `json:"is_active" db:"is_active"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// CurveInstance is one versioned upload/run of a definition's data.
type CurveInstance struct {
	ID              string         `json:"instance_id" db:"id"`
	DefinitionID    string         `json:"definition_id" db:"definition_id"`
	InstanceVersion string         `json:"instance_version" db:"instance_version"`
	Status          InstanceStatus `json:"status" db:"status"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	CreatedBy       string         `json:"created_by" db:"created_by"`
	Provenance      ProvenanceTier `json:"provenance" db:"provenance"`
	CurveTypes      []string       `json:"curve_types" db:"curve_types"`
	Commodities     []string       `json:"commodities" db:"commodities"`
	Scenarios       []string       `json:"scenarios" db:"scenarios"`
	Granularity     Granularity    `json:"granularity" db:"granularity"`
	DegradationType string         `json:"degradation_type" db:"degradation_type"`
}

// HasFullPercentileSet reports whether the instance carries the P5 and P95
// extremes alongside the P50 median.
func (ci *CurveInstance) HasFullPercentileSet() bool {
	var hasP5, hasP50, hasP95 bool
	for _, s := range ci.Scenarios {
		switch NormalizeScenario(s) {
		case ScenarioP5:
			hasP5 = true
		case ScenarioP50:
			hasP50 = true
		case ScenarioP95:
			hasP95 = true
		}
	}
	return hasP5 && hasP50 && hasP95
}
