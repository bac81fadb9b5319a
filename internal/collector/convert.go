package collector

import (
	"strconv"
	"time"

	"github.com/dashspectre/dashspectre/internal/models"
)

// shapedPayload decides the payload shape for a scanned row set. Panels that
// declare a time column get their table pivoted into time series; everything
// else stays tabular.
func shapedPayload(table *models.TablePayload, timeColumn string) any {
	if timeColumn == "" {
		return table
	}
	if ts := tableToTimeSeries(table, timeColumn); ts != nil {
		return ts
	}
	return table
}

// tableToTimeSeries pivots a table on its time column: every other numeric
// column becomes one series. Returns nil when the time column is missing or
// no column is numeric, leaving the payload tabular.
func tableToTimeSeries(table *models.TablePayload, timeColumn string) *models.TimeSeriesPayload {
	if table == nil {
		return nil
	}

	hasTime := false
	var valueColumns []models.Column
	for _, col := range table.Columns {
		if col.Name == timeColumn {
			hasTime = true
			continue
		}
		valueColumns = append(valueColumns, col)
	}
	if !hasTime || len(valueColumns) == 0 {
		return nil
	}

	series := make([]models.Series, len(valueColumns))
	for i, col := range valueColumns {
		name := col.DisplayName
		if name == "" {
			name = col.Name
		}
		series[i] = models.Series{Name: name}
	}

	matched := false
	for _, row := range table.Rows {
		t, ok := timestampMillis(row[timeColumn])
		if !ok {
			continue
		}
		for i, col := range valueColumns {
			point := models.SeriesPoint{T: t}
			if v, ok := numericCell(row[col.Name]); ok {
				point.V = &v
				matched = true
			}
			series[i].Values = append(series[i].Values, point)
		}
	}
	if !matched {
		return nil
	}

	return &models.TimeSeriesPayload{Series: series}
}

// timestampMillis converts a time cell to epoch milliseconds. Numeric cells
// are passed through untouched; the serializer disambiguates their unit.
func timestampMillis(v any) (float64, bool) {
	switch t := v.(type) {
	case time.Time:
		return float64(t.UnixMilli()), true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return float64(parsed.UnixMilli()), true
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return numericCell(v)
	}
}

func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
