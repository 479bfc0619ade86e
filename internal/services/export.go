package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/models"
)

// ExportColumn is one value column in a curve CSV: a curve key plus its
// values keyed by timestamp.
type ExportColumn struct {
	Key    string
	Values map[time.Time]decimal.Decimal
}

// ColumnsFromWide builds one export column per (instance, curveType) from
// wide rows, taking the P50 median as the column value. Rows without a P50
// leave a gap at that timestamp.
func ColumnsFromWide(rows []models.WideDataRow) []ExportColumn {
	byKey := make(map[string]map[time.Time]decimal.Decimal)
	for _, row := range rows {
		if row.ValueP50 == nil {
			continue
		}
		key := fmt.Sprintf("%s/%s", row.InstanceID, row.CurveType)
		if byKey[key] == nil {
			byKey[key] = make(map[time.Time]decimal.Decimal)
		}
		byKey[key][row.Timestamp] = *row.ValueP50
	}
	return sortedColumns(byKey)
}

// ColumnsFromAggregates builds one export column per (commodity, scenario)
// from aggregated points. Period keys become the first day of the period.
func ColumnsFromAggregates(aggregates []models.AggregatedPoint) []ExportColumn {
	byKey := make(map[string]map[time.Time]decimal.Decimal)
	for _, agg := range aggregates {
		key := fmt.Sprintf("%s/%s", agg.Commodity, agg.Scenario)
		if byKey[key] == nil {
			byKey[key] = make(map[time.Time]decimal.Decimal)
		}
		byKey[key][periodStart(agg.PeriodKey)] = agg.Average
	}
	return sortedColumns(byKey)
}

func periodStart(pk models.PeriodKey) time.Time {
	month := time.Month(1)
	if pk.Month > 0 {
		month = time.Month(pk.Month)
	}
	return time.Date(pk.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

func sortedColumns(byKey map[string]map[time.Time]decimal.Decimal) []ExportColumn {
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	columns := make([]ExportColumn, 0, len(keys))
	for _, key := range keys {
		columns = append(columns, ExportColumn{Key: key, Values: byKey[key]})
	}
	return columns
}

// WriteCurveCSV serializes columns as header_row, [date, value_per_curve...]
// rows matched by timestamp. Missing values become empty cells; no rounding
// is applied.
func WriteCurveCSV(w io.Writer, columns []ExportColumn) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, len(columns)+1)
	header = append(header, "date")
	for _, col := range columns {
		header = append(header, col.Key)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	stamps := make(map[time.Time]bool)
	for _, col := range columns {
		for ts := range col.Values {
			stamps[ts] = true
		}
	}
	ordered := make([]time.Time, 0, len(stamps))
	for ts := range stamps {
		ordered = append(ordered, ts)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	for _, ts := range ordered {
		row := make([]string, 0, len(columns)+1)
		row = append(row, fmtDate(ts))
		for _, col := range columns {
			if v, ok := col.Values[ts]; ok {
				row = append(row, v.String())
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
