package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstor/curvecast/internal/models"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func tallPoint(instanceID string, ts time.Time, curveType, scenario string, value *decimal.Decimal) models.CurveDataPoint {
	return models.CurveDataPoint{
		InstanceID: instanceID,
		Timestamp:  ts,
		CurveType:  curveType,
		Scenario:   scenario,
		Value:      value,
	}
}

func TestPivotToWide_GroupsByTimestampAndCurveType(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.CurveDataPoint{
		tallPoint("inst-1", jan, "revenue", "P5", dec("10")),
		tallPoint("inst-1", jan, "revenue", "P50", dec("20")),
		tallPoint("inst-1", jan, "revenue", "P95", dec("30")),
		tallPoint("inst-1", feb, "revenue", "P50", dec("25")),
	}

	wide := PivotToWide(rows)
	require.Len(t, wide, 2)

	assert.Equal(t, jan, wide[0].Timestamp)
	require.NotNil(t, wide[0].ValueP5)
	require.NotNil(t, wide[0].ValueP50)
	require.NotNil(t, wide[0].ValueP95)
	assert.True(t, wide[0].ValueP5.Equal(decimal.NewFromInt(10)))
	assert.True(t, wide[0].ValueP50.Equal(decimal.NewFromInt(20)))
	assert.True(t, wide[0].ValueP95.Equal(decimal.NewFromInt(30)))
	assert.Nil(t, wide[0].ValueP25)
	assert.Nil(t, wide[0].ValueP75)

	assert.Equal(t, feb, wide[1].Timestamp)
	require.NotNil(t, wide[1].ValueP50)
	assert.Nil(t, wide[1].ValueP5)
}

func TestPivotToWide_P05AliasMapsToP5(t *testing.T) {
	ts := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	wide := PivotToWide([]models.CurveDataPoint{
		tallPoint("inst-1", ts, "revenue", "P05", dec("1.5")),
	})

	require.Len(t, wide, 1)
	require.NotNil(t, wide[0].ValueP5)
	assert.True(t, wide[0].ValueP5.Equal(decimal.RequireFromString("1.5")))
}

func TestPivotToWide_UnknownScenarioIgnored(t *testing.T) {
	ts := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	wide := PivotToWide([]models.CurveDataPoint{
		tallPoint("inst-1", ts, "revenue", "Base", dec("42")),
		tallPoint("inst-1", ts, "revenue", "P12", dec("7")),
		tallPoint("inst-1", ts, "revenue", "P50", dec("42")),
	})

	require.Len(t, wide, 1)
	assert.Nil(t, wide[0].ValueP5)
	assert.Nil(t, wide[0].ValueP25)
	assert.Nil(t, wide[0].ValueP75)
	assert.Nil(t, wide[0].ValueP95)
	require.NotNil(t, wide[0].ValueP50)
}

func TestPivotToWide_MissingPercentileIsNilNotError(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wide := PivotToWide([]models.CurveDataPoint{
		tallPoint("inst-1", ts, "revenue", "P50", nil),
	})

	require.Len(t, wide, 1)
	assert.Nil(t, wide[0].ValueP50)
}

func TestPivotToWide_Empty(t *testing.T) {
	assert.Nil(t, PivotToWide(nil))
	assert.Nil(t, PivotToWide([]models.CurveDataPoint{}))
}

func TestUnpivotFromWide_OnePointPerNonNilPercentile(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tall := UnpivotFromWide([]models.WideDataRow{
		{
			InstanceID: "inst-1",
			Timestamp:  ts,
			CurveType:  "revenue",
			ValueP5:    dec("10"),
			ValueP50:   dec("20"),
			ValueP95:   dec("30"),
		},
	})

	require.Len(t, tall, 3)
	scenarios := []string{tall[0].Scenario, tall[1].Scenario, tall[2].Scenario}
	assert.ElementsMatch(t, []string{"P5", "P50", "P95"}, scenarios)
}

func TestPivotRoundTrip_TallToWideToTall(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.CurveDataPoint{
		tallPoint("inst-1", jan, "revenue", "P5", dec("1")),
		tallPoint("inst-1", jan, "revenue", "P25", dec("2")),
		tallPoint("inst-1", jan, "revenue", "P50", dec("3")),
		tallPoint("inst-1", jan, "revenue", "P75", dec("4")),
		tallPoint("inst-1", jan, "revenue", "P95", dec("5")),
		tallPoint("inst-1", feb, "revenue", "P50", dec("6")),
		tallPoint("inst-2", jan, "price", "P50", dec("7")),
	}

	roundTripped := UnpivotFromWide(PivotToWide(rows))
	require.Len(t, roundTripped, len(rows))

	type key struct {
		instanceID string
		ts         time.Time
		curveType  string
		scenario   string
	}
	want := make(map[key]string)
	for _, r := range rows {
		want[key{r.InstanceID, r.Timestamp, r.CurveType, r.Scenario}] = r.Value.String()
	}
	for _, r := range roundTripped {
		k := key{r.InstanceID, r.Timestamp, r.CurveType, r.Scenario}
		require.Contains(t, want, k)
		assert.Equal(t, want[k], r.Value.String())
	}
}

func TestPivotRoundTrip_WideToTallToWide(t *testing.T) {
	ts := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	wide := []models.WideDataRow{
		{
			InstanceID: "inst-1",
			Timestamp:  ts,
			CurveType:  "revenue",
			ValueP25:   dec("12.5"),
			ValueP50:   dec("15"),
			ValueP75:   dec("17.5"),
		},
	}

	roundTripped := PivotToWide(UnpivotFromWide(wide))
	require.Len(t, roundTripped, 1)
	assert.Equal(t, wide[0].InstanceID, roundTripped[0].InstanceID)
	assert.Nil(t, roundTripped[0].ValueP5)
	assert.Nil(t, roundTripped[0].ValueP95)
	assert.True(t, roundTripped[0].ValueP25.Equal(*wide[0].ValueP25))
	assert.True(t, roundTripped[0].ValueP50.Equal(*wide[0].ValueP50))
	assert.True(t, roundTripped[0].ValueP75.Equal(*wide[0].ValueP75))
}
