package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/models"
)

type aggregateKey struct {
	period    models.PeriodKey
	commodity string
	scenario  string
}

type aggregateAccumulator struct {
	sum   decimal.Decimal
	count int
}

// Aggregate rolls point-level values up to monthly or annual summaries.
// Groups are keyed by (period, commodity, scenario); the average is the
// arithmetic mean over non-null values and Count is how many contributed.
// Groups with no contributing values are omitted, never emitted as zero.
// Annual averages are the plain mean of whatever months exist in the year —
// partial years get no special casing.
func Aggregate(points []models.CurveDataPoint, period models.AggregationPeriod) []models.AggregatedPoint {
	if len(points) == 0 {
		return nil
	}

	groups := make(map[aggregateKey]*aggregateAccumulator)
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		key := aggregateKey{
			period:    periodKeyFor(p, period),
			commodity: p.Commodity,
			scenario:  p.Scenario,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &aggregateAccumulator{}
			groups[key] = acc
		}
		acc.sum = acc.sum.Add(*p.Value)
		acc.count++
	}

	out := make([]models.AggregatedPoint, 0, len(groups))
	for key, acc := range groups {
		out = append(out, models.AggregatedPoint{
			PeriodKey: key.period,
			Commodity: key.commodity,
			Scenario:  key.scenario,
			Average:   acc.sum.Div(decimal.NewFromInt(int64(acc.count))),
			Count:     acc.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PeriodKey.Year != b.PeriodKey.Year {
			return a.PeriodKey.Year < b.PeriodKey.Year
		}
		if a.PeriodKey.Month != b.PeriodKey.Month {
			return a.PeriodKey.Month < b.PeriodKey.Month
		}
		if a.Commodity != b.Commodity {
			return a.Commodity < b.Commodity
		}
		return a.Scenario < b.Scenario
	})
	return out
}

func periodKeyFor(p models.CurveDataPoint, period models.AggregationPeriod) models.PeriodKey {
	if period == models.PeriodMonthly {
		return models.PeriodKey{Year: p.Timestamp.Year(), Month: int(p.Timestamp.Month())}
	}
	return models.PeriodKey{Year: p.Timestamp.Year()}
}

// OverallAverages computes the cross-scenario summary for each
// (period, commodity): the simple mean of the scenario averages, explicitly
// not weighted by scenario. Periods where no scenario has data produce
// nothing.
func OverallAverages(aggregates []models.AggregatedPoint) []models.PeriodSummary {
	if len(aggregates) == 0 {
		return nil
	}

	type summaryKey struct {
		period    models.PeriodKey
		commodity string
	}
	groups := make(map[summaryKey]*aggregateAccumulator)
	for _, agg := range aggregates {
		key := summaryKey{agg.PeriodKey, agg.Commodity}
		acc, ok := groups[key]
		if !ok {
			acc = &aggregateAccumulator{}
			groups[key] = acc
		}
		acc.sum = acc.sum.Add(agg.Average)
		acc.count++
	}

	out := make([]models.PeriodSummary, 0, len(groups))
	for key, acc := range groups {
		out = append(out, models.PeriodSummary{
			PeriodKey:      key.period,
			Commodity:      key.commodity,
			OverallAverage: acc.sum.Div(decimal.NewFromInt(int64(acc.count))),
			ScenarioCount:  acc.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PeriodKey.Year != b.PeriodKey.Year {
			return a.PeriodKey.Year < b.PeriodKey.Year
		}
		if a.PeriodKey.Month != b.PeriodKey.Month {
			return a.PeriodKey.Month < b.PeriodKey.Month
		}
		return a.Commodity < b.Commodity
	})
	return out
}
