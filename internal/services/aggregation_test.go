package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstor/curvecast/internal/models"
)

func aggPoint(ts time.Time, commodity, scenario string, value *decimal.Decimal) models.CurveDataPoint {
	return models.CurveDataPoint{
		InstanceID: "inst-1",
		Timestamp:  ts,
		CurveType:  "revenue",
		Commodity:  commodity,
		Scenario:   scenario,
		Value:      value,
	}
}

func TestAggregate_MonthlyMean(t *testing.T) {
	points := []models.CurveDataPoint{
		aggPoint(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "EA Revenue", "P50", dec("10")),
		aggPoint(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), "EA Revenue", "P50", dec("20")),
		aggPoint(time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC), "EA Revenue", "P50", dec("30")),
	}

	aggs := Aggregate(points, models.PeriodMonthly)
	require.Len(t, aggs, 1)
	assert.Equal(t, models.PeriodKey{Year: 2025, Month: 1}, aggs[0].PeriodKey)
	assert.Equal(t, "EA Revenue", aggs[0].Commodity)
	assert.Equal(t, "P50", aggs[0].Scenario)
	assert.True(t, aggs[0].Average.Equal(decimal.NewFromInt(20)), "got %s", aggs[0].Average)
	assert.Equal(t, 3, aggs[0].Count)
}

func TestAggregate_NullValuesExcludedFromCount(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []models.CurveDataPoint{
		aggPoint(jan, "EA Revenue", "P50", dec("10")),
		aggPoint(jan.AddDate(0, 0, 1), "EA Revenue", "P50", nil),
		aggPoint(jan.AddDate(0, 0, 2), "EA Revenue", "P50", dec("30")),
	}

	aggs := Aggregate(points, models.PeriodMonthly)
	require.Len(t, aggs, 1)
	assert.True(t, aggs[0].Average.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 2, aggs[0].Count)
}

func TestAggregate_AllNullGroupOmitted(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []models.CurveDataPoint{
		aggPoint(jan, "EA Revenue", "P50", nil),
		aggPoint(jan, "AS Revenue", "P50", dec("5")),
	}

	aggs := Aggregate(points, models.PeriodMonthly)
	require.Len(t, aggs, 1)
	assert.Equal(t, "AS Revenue", aggs[0].Commodity)
}

func TestAggregate_AnnualIsPlainMeanOfAvailableMonths(t *testing.T) {
	// Partial year: only two months present, mean over what exists.
	points := []models.CurveDataPoint{
		aggPoint(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "EA Revenue", "P50", dec("10")),
		aggPoint(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), "EA Revenue", "P50", dec("30")),
	}

	aggs := Aggregate(points, models.PeriodAnnual)
	require.Len(t, aggs, 1)
	assert.Equal(t, models.PeriodKey{Year: 2025}, aggs[0].PeriodKey)
	assert.Equal(t, "2025", aggs[0].PeriodKey.String())
	assert.True(t, aggs[0].Average.Equal(decimal.NewFromInt(20)))
}

func TestAggregate_GroupsByCommodityAndScenario(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []models.CurveDataPoint{
		aggPoint(jan, "EA Revenue", "P5", dec("1")),
		aggPoint(jan, "EA Revenue", "P95", dec("3")),
		aggPoint(jan, "AS Revenue", "P5", dec("5")),
	}

	aggs := Aggregate(points, models.PeriodMonthly)
	require.Len(t, aggs, 3)
	// deterministic sort: commodity then scenario within the period
	assert.Equal(t, "AS Revenue", aggs[0].Commodity)
	assert.Equal(t, "EA Revenue", aggs[1].Commodity)
	assert.Equal(t, "P5", aggs[1].Scenario)
	assert.Equal(t, "P95", aggs[2].Scenario)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, models.PeriodMonthly))
}

func TestOverallAverages_UnweightedAcrossScenarios(t *testing.T) {
	key := models.PeriodKey{Year: 2025, Month: 1}
	aggs := []models.AggregatedPoint{
		{PeriodKey: key, Commodity: "EA Revenue", Scenario: "P5", Average: decimal.NewFromInt(10), Count: 100},
		{PeriodKey: key, Commodity: "EA Revenue", Scenario: "P50", Average: decimal.NewFromInt(20), Count: 1},
		{PeriodKey: key, Commodity: "EA Revenue", Scenario: "P95", Average: decimal.NewFromInt(60), Count: 3},
	}

	summaries := OverallAverages(aggs)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].OverallAverage.Equal(decimal.NewFromInt(30)), "got %s", summaries[0].OverallAverage)
	assert.Equal(t, 3, summaries[0].ScenarioCount)
}

func TestOverallAverages_Empty(t *testing.T) {
	assert.Nil(t, OverallAverages(nil))
}

func TestPeriodKeyString(t *testing.T) {
	assert.Equal(t, "2025-03", models.PeriodKey{Year: 2025, Month: 3}.String())
	assert.Equal(t, "2025-11", models.PeriodKey{Year: 2025, Month: 11}.String())
	assert.Equal(t, "2025", models.PeriodKey{Year: 2025}.String())
}
