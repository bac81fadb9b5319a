// Package classify infers the structural shape of query-result payloads.
//
// Payloads arrive from independently-evolving producers with no shared base
// type, so every probe is a presence-of-key check over decoded JSON, never a
// type tag. Probe order is part of the contract: when a payload matches more
// than one shape (for example both series[].values and categories are
// present) the earlier probe wins.
package classify

import (
	"sort"
	"strconv"

	"github.com/dashspectre/dashspectre/internal/models"
)

// Classify scans results in order and returns the classification of the
// first result carrying non-empty data. A concrete hint narrows the scan to
// results matching that shape; if nothing matches the hint the full probe
// order is applied. When no result has any data the shape is unknown.
//
// Classify never panics on malformed input: anything that does not match a
// concrete shape degrades to generic.
func Classify(results []models.QueryResult, hint models.Shape) models.Classification {
	if hint != "" && hint != models.ShapeUnknown && hint != models.ShapeGeneric {
		for _, r := range results {
			if !hasData(r.Data) {
				continue
			}
			if c, ok := matchAs(r.Data, hint); ok {
				return c
			}
		}
	}

	for _, r := range results {
		if !hasData(r.Data) {
			continue
		}
		return probe(r.Data)
	}

	return models.Classification{Shape: models.ShapeUnknown}
}

// hasData reports whether a payload is worth probing: non-nil and, for
// containers, non-empty.
func hasData(data any) bool {
	switch v := data.(type) {
	case nil:
		return false
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case string:
		return v != ""
	default:
		return true
	}
}

// probe applies the full probe order to one payload.
func probe(data any) models.Classification {
	// Typed payloads produced in-process skip the structural probes.
	if c, ok := typedPayload(data); ok {
		return c
	}

	if m, ok := asMap(data); ok {
		if ts, ok := timeSeriesFrom(m); ok {
			return models.Classification{Shape: models.ShapeTimeSeries, TimeSeries: ts}
		}
		if tbl, ok := tableFrom(m); ok {
			return models.Classification{Shape: models.ShapeTable, Table: tbl}
		}
		if bc, ok := barChartFrom(m); ok {
			return models.Classification{Shape: models.ShapeBarChart, BarChart: bc}
		}
		if bc, ok := flatBarChartFrom(m); ok {
			return models.Classification{Shape: models.ShapeBarChart, BarChart: bc}
		}
		if tr, ok := traceFrom(m); ok {
			return models.Classification{Shape: models.ShapeTrace, Trace: tr}
		}
		if bc, ok := labeledBarChartFrom(m); ok {
			return models.Classification{Shape: models.ShapeBarChart, BarChart: bc}
		}
		if ts, ok := datasetTimeSeriesFrom(m); ok {
			return models.Classification{Shape: models.ShapeTimeSeries, TimeSeries: ts}
		}
	}

	if items, ok := asObjectSlice(data); ok {
		return models.Classification{Shape: models.ShapeTable, Table: synthesizeTable(items)}
	}

	return models.Classification{Shape: models.ShapeGeneric, Generic: &models.GenericPayload{Value: data}}
}

// matchAs applies only the probes belonging to one shape.
func matchAs(data any, shape models.Shape) (models.Classification, bool) {
	if c, ok := typedPayload(data); ok {
		return c, c.Shape == shape
	}

	m, isMap := asMap(data)

	switch shape {
	case models.ShapeTimeSeries:
		if isMap {
			if ts, ok := timeSeriesFrom(m); ok {
				return models.Classification{Shape: shape, TimeSeries: ts}, true
			}
			if ts, ok := datasetTimeSeriesFrom(m); ok {
				return models.Classification{Shape: shape, TimeSeries: ts}, true
			}
		}
	case models.ShapeTable:
		if isMap {
			if tbl, ok := tableFrom(m); ok {
				return models.Classification{Shape: shape, Table: tbl}, true
			}
		}
		if items, ok := asObjectSlice(data); ok {
			return models.Classification{Shape: shape, Table: synthesizeTable(items)}, true
		}
	case models.ShapeBarChart:
		if isMap {
			if bc, ok := barChartFrom(m); ok {
				return models.Classification{Shape: shape, BarChart: bc}, true
			}
			if bc, ok := flatBarChartFrom(m); ok {
				return models.Classification{Shape: shape, BarChart: bc}, true
			}
			if bc, ok := labeledBarChartFrom(m); ok {
				return models.Classification{Shape: shape, BarChart: bc}, true
			}
		}
	case models.ShapeTrace:
		if isMap {
			if tr, ok := traceFrom(m); ok {
				return models.Classification{Shape: shape, Trace: tr}, true
			}
		}
	}

	return models.Classification{}, false
}

// typedPayload recognizes payloads that were built in-process by the
// collector and never went through a JSON round trip.
func typedPayload(data any) (models.Classification, bool) {
	switch p := data.(type) {
	case *models.TimeSeriesPayload:
		return models.Classification{Shape: models.ShapeTimeSeries, TimeSeries: p}, true
	case *models.TablePayload:
		return models.Classification{Shape: models.ShapeTable, Table: p}, true
	case *models.BarChartPayload:
		return models.Classification{Shape: models.ShapeBarChart, BarChart: p}, true
	case *models.TracePayload:
		return models.Classification{Shape: models.ShapeTrace, Trace: p}, true
	default:
		return models.Classification{}, false
	}
}

// timeSeriesFrom matches {series: [{..., values: [...]}, ...]}.
func timeSeriesFrom(m map[string]any) (*models.TimeSeriesPayload, bool) {
	raw, ok := asSlice(m["series"])
	if !ok || len(raw) == 0 {
		return nil, false
	}

	matched := false
	series := make([]models.Series, 0, len(raw))
	for _, elem := range raw {
		em, ok := asMap(elem)
		if !ok {
			continue
		}
		values, hasValues := asSlice(em["values"])
		if hasValues {
			matched = true
		}
		series = append(series, models.Series{
			Name:          stringField(em, "name"),
			DisplayName:   stringField(em, "displayName"),
			Legend:        stringField(em, "legend"),
			LegendName:    stringField(em, "legendName"),
			FormattedName: stringField(em, "formattedName"),
			Values:        parsePoints(values),
		})
	}
	if !matched {
		return nil, false
	}
	return &models.TimeSeriesPayload{Series: series}, true
}

// tableFrom matches {columns: [...], rows: [...]}.
func tableFrom(m map[string]any) (*models.TablePayload, bool) {
	rawCols, okCols := asSlice(m["columns"])
	rawRows, okRows := asSlice(m["rows"])
	if !okCols || !okRows {
		return nil, false
	}

	columns := make([]models.Column, 0, len(rawCols))
	for _, c := range rawCols {
		switch col := c.(type) {
		case string:
			columns = append(columns, models.Column{Name: col})
		case map[string]any:
			columns = append(columns, models.Column{
				Name:        stringField(col, "name"),
				DisplayName: stringField(col, "displayName"),
				Type:        stringField(col, "type"),
			})
		}
	}

	rows := make([]map[string]any, 0, len(rawRows))
	for _, r := range rawRows {
		if rm, ok := asMap(r); ok {
			rows = append(rows, rm)
		}
	}

	return &models.TablePayload{Columns: columns, Rows: rows}, true
}

// barChartFrom matches {categories: [...], series: [{data: [...]}, ...]}.
func barChartFrom(m map[string]any) (*models.BarChartPayload, bool) {
	rawCats, okCats := asSlice(m["categories"])
	rawSeries, okSeries := asSlice(m["series"])
	if !okCats || !okSeries {
		return nil, false
	}

	series := make([]models.BarSeries, 0, len(rawSeries))
	for _, elem := range rawSeries {
		em, ok := asMap(elem)
		if !ok {
			return nil, false
		}
		data, ok := asSlice(em["data"])
		if !ok {
			return nil, false
		}
		series = append(series, models.BarSeries{
			Name:        stringField(em, "name"),
			DisplayName: stringField(em, "displayName"),
			Data:        parseNumbers(data),
		})
	}

	return &models.BarChartPayload{Categories: stringSlice(rawCats), Series: series}, true
}

// flatBarChartFrom matches the legacy {data: [{category, value, series?}]}
// form and pivots it into categories/series. Series default to "Value" when
// a tuple omits one; category and series order is first-seen.
func flatBarChartFrom(m map[string]any) (*models.BarChartPayload, bool) {
	raw, ok := asSlice(m["data"])
	if !ok || len(raw) == 0 {
		return nil, false
	}

	type tuple struct {
		category string
		series   string
		value    *float64
	}
	tuples := make([]tuple, 0, len(raw))
	for _, elem := range raw {
		em, ok := asMap(elem)
		if !ok {
			return nil, false
		}
		if _, hasCat := em["category"]; !hasCat {
			return nil, false
		}
		if _, hasVal := em["value"]; !hasVal {
			return nil, false
		}
		name := stringField(em, "series")
		if name == "" {
			name = "Value"
		}
		var value *float64
		if f, ok := toFloat(em["value"]); ok {
			value = &f
		}
		tuples = append(tuples, tuple{category: stringify(em["category"]), series: name, value: value})
	}

	var categories []string
	catIndex := map[string]int{}
	var seriesNames []string
	seriesIndex := map[string]int{}
	for _, t := range tuples {
		if _, seen := catIndex[t.category]; !seen {
			catIndex[t.category] = len(categories)
			categories = append(categories, t.category)
		}
		if _, seen := seriesIndex[t.series]; !seen {
			seriesIndex[t.series] = len(seriesNames)
			seriesNames = append(seriesNames, t.series)
		}
	}

	series := make([]models.BarSeries, len(seriesNames))
	for i, name := range seriesNames {
		series[i] = models.BarSeries{Name: name, Data: make([]*float64, len(categories))}
	}
	for _, t := range tuples {
		series[seriesIndex[t.series]].Data[catIndex[t.category]] = t.value
	}

	return &models.BarChartPayload{Categories: categories, Series: series}, true
}

// traceFrom matches {spans: [...]}.
func traceFrom(m map[string]any) (*models.TracePayload, bool) {
	raw, ok := asSlice(m["spans"])
	if !ok {
		return nil, false
	}
	spans := make([]map[string]any, 0, len(raw))
	for _, s := range raw {
		if sm, ok := asMap(s); ok {
			spans = append(spans, sm)
		}
	}
	return &models.TracePayload{Spans: spans}, true
}

// labeledBarChartFrom matches the alternate {labels: [...], datasets: [...]}
// bar-chart convention.
func labeledBarChartFrom(m map[string]any) (*models.BarChartPayload, bool) {
	rawLabels, okLabels := asSlice(m["labels"])
	rawSets, okSets := asSlice(m["datasets"])
	if !okLabels || !okSets {
		return nil, false
	}

	series := make([]models.BarSeries, 0, len(rawSets))
	for _, elem := range rawSets {
		em, ok := asMap(elem)
		if !ok {
			return nil, false
		}
		data, ok := asSlice(em["data"])
		if !ok {
			return nil, false
		}
		name := stringField(em, "label")
		if name == "" {
			name = stringField(em, "name")
		}
		series = append(series, models.BarSeries{Name: name, Data: parseNumbers(data)})
	}

	return &models.BarChartPayload{Categories: stringSlice(rawLabels), Series: series}, true
}

// datasetTimeSeriesFrom matches {datasets: [...]} where any dataset's points
// look time-like, either [t, v] pairs or {x|t, y|value} objects.
func datasetTimeSeriesFrom(m map[string]any) (*models.TimeSeriesPayload, bool) {
	rawSets, ok := asSlice(m["datasets"])
	if !ok || len(rawSets) == 0 {
		return nil, false
	}

	matched := false
	series := make([]models.Series, 0, len(rawSets))
	for _, elem := range rawSets {
		em, ok := asMap(elem)
		if !ok {
			continue
		}
		points, ok := asSlice(em["data"])
		if !ok {
			points, ok = asSlice(em["points"])
		}
		if !ok {
			continue
		}
		if !looksTimeLike(points) {
			continue
		}
		matched = true
		name := stringField(em, "label")
		if name == "" {
			name = stringField(em, "name")
		}
		series = append(series, models.Series{Name: name, Values: parsePoints(points)})
	}
	if !matched {
		return nil, false
	}
	return &models.TimeSeriesPayload{Series: series}, true
}

// synthesizeTable turns an array of plain objects into a table whose columns
// are the union of item keys, sorted for determinism.
func synthesizeTable(items []map[string]any) *models.TablePayload {
	seen := map[string]bool{}
	var keys []string
	for _, item := range items {
		for key := range item {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	columns := make([]models.Column, len(keys))
	for i, key := range keys {
		columns[i] = models.Column{Name: key}
	}
	return &models.TablePayload{Columns: columns, Rows: items}
}

// looksTimeLike reports whether the first parseable point is a [t, v] pair
// or an {x|t, y|value} object.
func looksTimeLike(points []any) bool {
	for _, p := range points {
		switch v := p.(type) {
		case []any:
			if len(v) >= 2 {
				_, okT := toFloat(v[0])
				return okT
			}
			return false
		case map[string]any:
			_, okX := toFloat(v["x"])
			_, okT := toFloat(v["t"])
			return okX || okT
		case nil:
			continue
		default:
			return false
		}
	}
	return false
}

// parsePoints converts raw point entries into SeriesPoints, dropping
// anything unparseable.
func parsePoints(raw []any) []models.SeriesPoint {
	if len(raw) == 0 {
		return nil
	}
	points := make([]models.SeriesPoint, 0, len(raw))
	for _, p := range raw {
		switch v := p.(type) {
		case []any:
			if len(v) == 0 {
				continue
			}
			t, ok := toFloat(v[0])
			if !ok {
				continue
			}
			point := models.SeriesPoint{T: t}
			if len(v) > 1 {
				if f, ok := toFloat(v[1]); ok {
					point.V = &f
				}
			}
			points = append(points, point)
		case map[string]any:
			t, ok := toFloat(v["x"])
			if !ok {
				t, ok = toFloat(v["t"])
			}
			if !ok {
				continue
			}
			point := models.SeriesPoint{T: t}
			if f, ok := toFloat(v["y"]); ok {
				point.V = &f
			} else if f, ok := toFloat(v["value"]); ok {
				point.V = &f
			}
			points = append(points, point)
		case models.SeriesPoint:
			points = append(points, v)
		}
	}
	return points
}

// parseNumbers converts raw entries into nullable floats; unparseable
// entries stay nil so positional alignment with categories is preserved.
func parseNumbers(raw []any) []*float64 {
	out := make([]*float64, len(raw))
	for i, v := range raw {
		if f, ok := toFloat(v); ok {
			out[i] = &f
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// asObjectSlice matches an array whose elements are all plain objects.
func asObjectSlice(v any) ([]map[string]any, bool) {
	raw, ok := asSlice(v)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	items := make([]map[string]any, 0, len(raw))
	for _, elem := range raw {
		m, ok := asMap(elem)
		if !ok {
			return nil, false
		}
		items = append(items, m)
	}
	return items, true
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func stringSlice(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, stringify(v))
	}
	return out
}

// stringify renders a scalar the way it would appear in a CSV cell.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

