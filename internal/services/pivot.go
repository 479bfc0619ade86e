package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/models"
)

// pivotKey identifies one wide row.
type pivotKey struct {
	instanceID string
	timestamp  time.Time
	curveType  string
}

// PivotToWide converts tall row-per-scenario data into one row per
// (instance, timestamp, curveType) with percentile columns. Scenario labels
// that map to no percentile column (e.g. "Base") are ignored here; tall
// consumers still see them. A missing percentile stays nil — that is a valid
// "no forecast at this confidence level" state, not an error.
func PivotToWide(rows []models.CurveDataPoint) []models.WideDataRow {
	if len(rows) == 0 {
		return nil
	}

	grouped := make(map[pivotKey]*models.WideDataRow)
	order := make([]pivotKey, 0)

	for _, row := range rows {
		key := pivotKey{row.InstanceID, row.Timestamp, row.CurveType}
		wide, ok := grouped[key]
		if !ok {
			wide = &models.WideDataRow{
				InstanceID: row.InstanceID,
				Timestamp:  row.Timestamp,
				CurveType:  row.CurveType,
			}
			grouped[key] = wide
			order = append(order, key)
		}

		switch models.NormalizeScenario(row.Scenario) {
		case models.ScenarioP5:
			wide.ValueP5 = row.Value
		case models.ScenarioP25:
			wide.ValueP25 = row.Value
		case models.ScenarioP50:
			wide.ValueP50 = row.Value
		case models.ScenarioP75:
			wide.ValueP75 = row.Value
		case models.ScenarioP95:
			wide.ValueP95 = row.Value
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.instanceID != b.instanceID {
			return a.instanceID < b.instanceID
		}
		if !a.timestamp.Equal(b.timestamp) {
			return a.timestamp.Before(b.timestamp)
		}
		return a.curveType < b.curveType
	})

	out := make([]models.WideDataRow, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	return out
}

// UnpivotFromWide expands wide rows back to tall data, one point per non-nil
// percentile column. Scenario labels come out canonical (P5, P25, ...).
func UnpivotFromWide(rows []models.WideDataRow) []models.CurveDataPoint {
	if len(rows) == 0 {
		return nil
	}

	out := make([]models.CurveDataPoint, 0, len(rows))
	for _, row := range rows {
		slots := []struct {
			scenario models.Scenario
			value    *decimal.Decimal
		}{
			{models.ScenarioP5, row.ValueP5},
			{models.ScenarioP25, row.ValueP25},
			{models.ScenarioP50, row.ValueP50},
			{models.ScenarioP75, row.ValueP75},
			{models.ScenarioP95, row.ValueP95},
		}
		for _, slot := range slots {
			if slot.value == nil {
				continue
			}
			out = append(out, models.CurveDataPoint{
				InstanceID: row.InstanceID,
				Timestamp:  row.Timestamp,
				CurveType:  row.CurveType,
				Scenario:   string(slot.scenario),
				Value:      slot.value,
			})
		}
	}
	return out
}
