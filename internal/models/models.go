package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape is the inferred structural category of a query-result payload.
type Shape string

const (
	ShapeTimeSeries Shape = "time_series"
	ShapeTable      Shape = "table"
	ShapeBarChart   Shape = "bar_chart"
	ShapeTrace      Shape = "trace"
	ShapeGeneric    Shape = "generic"
	ShapeUnknown    Shape = "unknown"
)

// ParseShape maps a string to a known shape tag, defaulting to unknown.
func ParseShape(s string) Shape {
	switch shape := Shape(strings.TrimSpace(strings.ToLower(s))); shape {
	case ShapeTimeSeries, ShapeTable, ShapeBarChart, ShapeTrace, ShapeGeneric:
		return shape
	default:
		return ShapeUnknown
	}
}

// QueryError carries the failure of a single query execution.
type QueryError struct {
	Message string `json:"message"`
}

// QueryResult is one query's current outcome. Data holds the raw payload as
// decoded from JSON (or a typed payload produced by the collector); the
// classifier treats it as untrusted and probes it structurally.
type QueryResult struct {
	Data       any         `json:"data,omitempty"`
	IsFetching bool        `json:"is_fetching,omitempty"`
	Error      *QueryError `json:"error,omitempty"`
}

// Series is one named sequence of (timestamp, value) points. The optional
// display fields mirror what independently-evolving producers attach; legend
// resolution picks the first non-empty one.
type Series struct {
	Name          string        `json:"name,omitempty"`
	DisplayName   string        `json:"displayName,omitempty"`
	Legend        string        `json:"legend,omitempty"`
	LegendName    string        `json:"legendName,omitempty"`
	FormattedName string        `json:"formattedName,omitempty"`
	Values        []SeriesPoint `json:"values"`
}

// SeriesPoint is a single (timestamp, value) pair. T may be seconds or
// milliseconds; the serializer disambiguates by magnitude. A nil V is a gap.
// On the wire a point is a two-element array, [timestamp, value].
type SeriesPoint struct {
	T float64
	V *float64
}

// MarshalJSON emits the point as a [timestamp, value] pair.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.T, p.V})
}

// UnmarshalJSON accepts a [timestamp, value] pair; a null or absent value
// leaves V nil.
func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var pair []*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) == 0 || pair[0] == nil {
		return fmt.Errorf("series point is missing a timestamp")
	}
	p.T = *pair[0]
	if len(pair) > 1 {
		p.V = pair[1]
	}
	return nil
}

// TimeSeriesPayload is the time-series payload variant.
type TimeSeriesPayload struct {
	Series []Series `json:"series"`
}

// Column describes one tabular column.
type Column struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type,omitempty"`
}

// TablePayload is the tabular payload variant. Rows map column name to a
// scalar cell value.
type TablePayload struct {
	Columns []Column         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// BarSeries is one series of a bar chart; Data is aligned positionally with
// the chart's categories. Nil entries and missing indexes are gaps.
type BarSeries struct {
	Name        string     `json:"name,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Data        []*float64 `json:"data"`
}

// BarChartPayload is the bar-chart payload variant, already pivoted into the
// categories/series form (the flattened tuple form is pivoted on classify).
type BarChartPayload struct {
	Categories []string    `json:"categories"`
	Series     []BarSeries `json:"series"`
}

// TracePayload is the trace payload variant. Spans are kept opaque: traces
// are detected but never exported.
type TracePayload struct {
	Spans []map[string]any `json:"spans"`
}

// GenericPayload wraps anything that matched no concrete shape.
type GenericPayload struct {
	Value any `json:"value"`
}

// Classification is the tagged result of probing a query-result set. Exactly
// one payload field, the one matching Shape, is set; all are nil for unknown.
type Classification struct {
	Shape      Shape              `json:"shape"`
	TimeSeries *TimeSeriesPayload `json:"time_series,omitempty"`
	Table      *TablePayload      `json:"table,omitempty"`
	BarChart   *BarChartPayload   `json:"bar_chart,omitempty"`
	Trace      *TracePayload      `json:"trace,omitempty"`
	Generic    *GenericPayload    `json:"generic,omitempty"`
}

// Payload returns whichever payload field matches Shape, or nil.
func (c Classification) Payload() any {
	switch c.Shape {
	case ShapeTimeSeries:
		return c.TimeSeries
	case ShapeTable:
		return c.Table
	case ShapeBarChart:
		return c.BarChart
	case ShapeTrace:
		return c.Trace
	case ShapeGeneric:
		return c.Generic
	default:
		return nil
	}
}

// Link is a navigation link attached to a panel.
type Link struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}
