package classify

import (
	"encoding/json"
	"testing"

	"github.com/dashspectre/dashspectre/internal/models"
)

// decode parses inline JSON the way a snapshot read would.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return v
}

func resultsFor(t *testing.T, raw string) []models.QueryResult {
	t.Helper()
	return []models.QueryResult{{Data: decode(t, raw)}}
}

func TestClassifyShapes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  models.Shape
	}{
		{
			name:  "time_series",
			input: `{"series":[{"name":"cpu","values":[[1000,0.5],[2000,0.6]]}]}`,
			want:  models.ShapeTimeSeries,
		},
		{
			name:  "table",
			input: `{"columns":[{"name":"id"}],"rows":[{"id":1}]}`,
			want:  models.ShapeTable,
		},
		{
			name:  "table_string_columns",
			input: `{"columns":["id","name"],"rows":[{"id":1,"name":"a"}]}`,
			want:  models.ShapeTable,
		},
		{
			name:  "bar_chart",
			input: `{"categories":["a","b"],"series":[{"name":"s1","data":[1,2]}]}`,
			want:  models.ShapeBarChart,
		},
		{
			name:  "flat_bar_chart",
			input: `{"data":[{"category":"a","value":1},{"category":"b","value":2}]}`,
			want:  models.ShapeBarChart,
		},
		{
			name:  "trace",
			input: `{"spans":[{"spanId":"x","duration":12}]}`,
			want:  models.ShapeTrace,
		},
		{
			name:  "object_array_table",
			input: `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`,
			want:  models.ShapeTable,
		},
		{
			name:  "labeled_bar_chart",
			input: `{"labels":["a","b"],"datasets":[{"label":"s1","data":[1,2]}]}`,
			want:  models.ShapeBarChart,
		},
		{
			name:  "dataset_time_series",
			input: `{"datasets":[{"label":"cpu","data":[[1000,0.5],[2000,0.6]]}]}`,
			want:  models.ShapeTimeSeries,
		},
		{
			name:  "generic_object",
			input: `{"total":42,"status":"ok"}`,
			want:  models.ShapeGeneric,
		},
		{
			name:  "generic_scalar_array",
			input: `[1,2,3]`,
			want:  models.ShapeGeneric,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(resultsFor(t, tc.input), "")
			if got.Shape != tc.want {
				t.Fatalf("expected shape %q, got %q", tc.want, got.Shape)
			}
			if got.Payload() == nil {
				t.Fatalf("expected a payload for shape %q", got.Shape)
			}
		})
	}
}

func TestClassifyAmbiguousPayloadPrefersTimeSeries(t *testing.T) {
	// Both series[].values and categories are present; the earlier probe wins.
	raw := `{"series":[{"name":"cpu","values":[[1000,0.5]]}],"categories":["a"]}`
	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeTimeSeries {
		t.Fatalf("expected time_series for ambiguous payload, got %q", got.Shape)
	}
}

func TestClassifyHint(t *testing.T) {
	// Without a hint the labels/datasets probe classifies this as bar_chart.
	raw := `{"labels":["x"],"datasets":[{"label":"cpu","data":[[1000,0.5]]}]}`

	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeBarChart {
		t.Fatalf("expected bar_chart without hint, got %q", got.Shape)
	}

	hinted := Classify(resultsFor(t, raw), models.ShapeTimeSeries)
	if hinted.Shape != models.ShapeTimeSeries {
		t.Fatalf("expected time_series with hint, got %q", hinted.Shape)
	}
	if len(hinted.TimeSeries.Series) != 1 || len(hinted.TimeSeries.Series[0].Values) != 1 {
		t.Fatalf("expected one series with one point, got %+v", hinted.TimeSeries)
	}
}

func TestClassifyHintFallsBackToProbeOrder(t *testing.T) {
	raw := `{"columns":[{"name":"id"}],"rows":[{"id":1}]}`
	got := Classify(resultsFor(t, raw), models.ShapeTrace)
	if got.Shape != models.ShapeTable {
		t.Fatalf("expected fallback to table, got %q", got.Shape)
	}
}

func TestClassifySkipsEmptyResults(t *testing.T) {
	results := []models.QueryResult{
		{Data: nil},
		{Data: map[string]any{}},
		{Data: []any{}},
		{Data: decode(t, `{"columns":[{"name":"id"}],"rows":[{"id":1}]}`)},
	}
	got := Classify(results, "")
	if got.Shape != models.ShapeTable {
		t.Fatalf("expected table from the first non-empty result, got %q", got.Shape)
	}
}

func TestClassifyUnknown(t *testing.T) {
	cases := []struct {
		name    string
		results []models.QueryResult
	}{
		{name: "no_results", results: nil},
		{name: "nil_data", results: []models.QueryResult{{Data: nil}}},
		{name: "empty_object", results: []models.QueryResult{{Data: map[string]any{}}}},
		{name: "error_only", results: []models.QueryResult{{Error: &models.QueryError{Message: "boom"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.results, "")
			if got.Shape != models.ShapeUnknown {
				t.Fatalf("expected unknown, got %q", got.Shape)
			}
			if got.Payload() != nil {
				t.Fatalf("expected no payload for unknown, got %+v", got.Payload())
			}
		})
	}
}

func TestFlatBarChartPivot(t *testing.T) {
	raw := `{"data":[
		{"category":"a","value":1,"series":"s1"},
		{"category":"b","value":2,"series":"s1"},
		{"category":"a","value":3,"series":"s2"}
	]}`

	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeBarChart {
		t.Fatalf("expected bar_chart, got %q", got.Shape)
	}

	bc := got.BarChart
	if len(bc.Categories) != 2 || bc.Categories[0] != "a" || bc.Categories[1] != "b" {
		t.Fatalf("expected first-seen categories [a b], got %v", bc.Categories)
	}
	if len(bc.Series) != 2 || bc.Series[0].Name != "s1" || bc.Series[1].Name != "s2" {
		t.Fatalf("expected series [s1 s2], got %+v", bc.Series)
	}
	// s2 has no value for category b.
	if bc.Series[1].Data[1] != nil {
		t.Fatalf("expected nil for missing s2/b value, got %v", *bc.Series[1].Data[1])
	}
	if *bc.Series[0].Data[1] != 2 {
		t.Fatalf("expected s1/b value 2, got %v", *bc.Series[0].Data[1])
	}
}

func TestFlatBarChartDefaultSeriesName(t *testing.T) {
	raw := `{"data":[{"category":"a","value":1}]}`
	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeBarChart {
		t.Fatalf("expected bar_chart, got %q", got.Shape)
	}
	if got.BarChart.Series[0].Name != "Value" {
		t.Fatalf("expected default series name Value, got %q", got.BarChart.Series[0].Name)
	}
}

func TestSynthesizedTableColumnsAreSortedUnion(t *testing.T) {
	raw := `[{"b":1},{"a":2,"c":3}]`
	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeTable {
		t.Fatalf("expected table, got %q", got.Shape)
	}

	want := []string{"a", "b", "c"}
	cols := got.Table.Columns
	if len(cols) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(cols))
	}
	for i, col := range cols {
		if col.Name != want[i] {
			t.Fatalf("expected column %d to be %q, got %q", i, want[i], col.Name)
		}
	}
}

func TestClassifyTypedPayload(t *testing.T) {
	table := &models.TablePayload{
		Columns: []models.Column{{Name: "id"}},
		Rows:    []map[string]any{{"id": 1}},
	}
	got := Classify([]models.QueryResult{{Data: table}}, "")
	if got.Shape != models.ShapeTable {
		t.Fatalf("expected table, got %q", got.Shape)
	}
	if got.Table != table {
		t.Fatalf("expected typed payload to pass through untouched")
	}
}

func TestParsePointsObjectForm(t *testing.T) {
	raw := `{"datasets":[{"label":"cpu","data":[{"x":1000,"y":0.5},{"t":2000,"value":0.6},{"x":"bad"}]}]}`
	got := Classify(resultsFor(t, raw), "")
	if got.Shape != models.ShapeTimeSeries {
		t.Fatalf("expected time_series, got %q", got.Shape)
	}
	points := got.TimeSeries.Series[0].Values
	if len(points) != 2 {
		t.Fatalf("expected 2 parseable points, got %d", len(points))
	}
	if points[0].T != 1000 || *points[0].V != 0.5 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[1].T != 2000 || *points[1].V != 0.6 {
		t.Fatalf("unexpected second point: %+v", points[1])
	}
}
