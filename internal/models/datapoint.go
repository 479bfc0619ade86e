package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Scenario is a canonical percentile/scenario label for a data row.
type Scenario string

const (
	ScenarioP5   Scenario = "P5"
	ScenarioP25  Scenario = "P25"
	ScenarioP50  Scenario = "P50"
	ScenarioP75  Scenario = "P75"
	ScenarioP95  Scenario = "P95"
	ScenarioBase Scenario = "BASE"
	// ScenarioUnknown marks labels that map to no known scenario. Rows keep
	// their raw label for tall consumers; the wide view ignores them.
	ScenarioUnknown Scenario = ""
)

// NormalizeScenario maps raw scenario labels (P5/P05, base, Base Case) to a
// canonical Scenario.
func NormalizeScenario(label string) Scenario {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "P5", "P05":
		return ScenarioP5
	case "P25":
		return ScenarioP25
	case "P50":
		return ScenarioP50
	case "P75":
		return ScenarioP75
	case "P95":
		return ScenarioP95
	case "BASE", "BASE CASE":
		return ScenarioBase
	default:
		return ScenarioUnknown
	}
}

// CurveDataPoint is one (timestamp, commodity, scenario) observation owned by
// exactly one instance. Value is nil when no forecast exists for that
// confidence level.
type CurveDataPoint struct {
	ID         string           `json:"id,omitempty" db:"id"`
	InstanceID string           `json:"instance_id" db:"instance_id"`
	Timestamp  time.Time        `json:"timestamp" db:"timestamp"`
	Value      *decimal.Decimal `json:"value" db:"value"`
	CurveType  string           `json:"curve_type" db:"curve_type"`
	Commodity  string           `json:"commodity" db:"commodity"`
	Scenario   string           `json:"scenario" db:"scenario"`
	Units      string           `json:"units" db:"units"`
}

// WideDataRow is the derived one-row-per-timestamp view of a curve, with one
// column per percentile. It is never persisted.
type WideDataRow struct {
	InstanceID string           `json:"instance_id"`
	Timestamp  time.Time        `json:"timestamp"`
	CurveType  string           `json:"curve_type"`
	ValueP5    *decimal.Decimal `json:"value_p5"`
	ValueP25   *decimal.Decimal `json:"value_p25"`
	ValueP50   *decimal.Decimal `json:"value_p50"`
	ValueP75   *decimal.Decimal `json:"value_p75"`
	ValueP95   *decimal.Decimal `json:"value_p95"`
}

// AggregationPeriod selects the roll-up resolution.
type AggregationPeriod string

const (
	PeriodMonthly AggregationPeriod = "monthly"
	PeriodAnnual  AggregationPeriod = "annual"
)

// PeriodKey identifies one aggregation bucket. Month is zero for annual keys.
type PeriodKey struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// String renders the key as "2025" or "2025-03".
func (pk PeriodKey) String() string {
	if pk.Month == 0 {
		return fmt.Sprintf("%04d", pk.Year)
	}
	return fmt.Sprintf("%04d-%02d", pk.Year, pk.Month)
}

// AggregatedPoint is the mean of a (period, commodity, scenario) group.
// Count is the number of non-null values that contributed.
type AggregatedPoint struct {
	PeriodKey PeriodKey       `json:"period_key"`
	Commodity string          `json:"commodity"`
	Scenario  string          `json:"scenario"`
	Average   decimal.Decimal `json:"average"`
	Count     int             `json:"count"`
}

// PeriodSummary carries the cross-scenario average for one period, used by
// summary cards. It is only produced when at least one scenario has data.
type PeriodSummary struct {
	PeriodKey      PeriodKey       `json:"period_key"`
	Commodity      string          `json:"commodity"`
	OverallAverage decimal.Decimal `json:"overall_average"`
	ScenarioCount  int             `json:"scenario_count"`
}
