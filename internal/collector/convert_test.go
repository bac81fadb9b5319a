package collector

import (
	"testing"
	"time"

	"github.com/dashspectre/dashspectre/internal/models"
)

func sampleTable() *models.TablePayload {
	return &models.TablePayload{
		Columns: []models.Column{
			{Name: "ts"},
			{Name: "cpu", DisplayName: "CPU"},
			{Name: "mem"},
		},
		Rows: []map[string]any{
			{"ts": time.Unix(1700000000, 0).UTC(), "cpu": 0.5, "mem": int64(1024)},
			{"ts": time.Unix(1700000060, 0).UTC(), "cpu": 0.6, "mem": int64(2048)},
		},
	}
}

func TestTableToTimeSeries(t *testing.T) {
	ts := tableToTimeSeries(sampleTable(), "ts")
	if ts == nil {
		t.Fatal("expected a time series payload")
	}
	if len(ts.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(ts.Series))
	}
	if ts.Series[0].Name != "CPU" || ts.Series[1].Name != "mem" {
		t.Fatalf("unexpected series names: %q, %q", ts.Series[0].Name, ts.Series[1].Name)
	}
	if len(ts.Series[0].Values) != 2 {
		t.Fatalf("expected 2 points, got %d", len(ts.Series[0].Values))
	}

	first := ts.Series[0].Values[0]
	if first.T != 1700000000000 {
		t.Fatalf("expected millisecond timestamp, got %v", first.T)
	}
	if first.V == nil || *first.V != 0.5 {
		t.Fatalf("unexpected first cpu value: %v", first.V)
	}
	if v := ts.Series[1].Values[1].V; v == nil || *v != 2048 {
		t.Fatalf("unexpected second mem value: %v", v)
	}
}

func TestTableToTimeSeriesMissingTimeColumn(t *testing.T) {
	if ts := tableToTimeSeries(sampleTable(), "when"); ts != nil {
		t.Fatalf("expected nil for missing time column, got %+v", ts)
	}
}

func TestTableToTimeSeriesNoNumericData(t *testing.T) {
	table := &models.TablePayload{
		Columns: []models.Column{{Name: "ts"}, {Name: "label"}},
		Rows: []map[string]any{
			{"ts": time.Unix(1700000000, 0).UTC(), "label": "a"},
		},
	}
	if ts := tableToTimeSeries(table, "ts"); ts != nil {
		t.Fatalf("expected nil when no column is numeric, got %+v", ts)
	}
}

func TestShapedPayload(t *testing.T) {
	table := sampleTable()

	if got := shapedPayload(table, ""); got != any(table) {
		t.Fatalf("expected table passthrough without time column")
	}
	if _, ok := shapedPayload(table, "ts").(*models.TimeSeriesPayload); !ok {
		t.Fatalf("expected time series with time column")
	}
	// Pivot failure keeps the payload tabular.
	if got := shapedPayload(table, "when"); got != any(table) {
		t.Fatalf("expected table fallback for unknown time column")
	}
}

func TestTimestampMillis(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{name: "time_value", input: time.Unix(1700000000, 0).UTC(), want: 1700000000000, ok: true},
		{name: "rfc3339_string", input: "2023-11-14T22:13:20Z", want: 1700000000000, ok: true},
		{name: "numeric_string", input: "1700000000", want: 1700000000, ok: true},
		{name: "float", input: 1700000000.5, want: 1700000000.5, ok: true},
		{name: "garbage_string", input: "yesterday", ok: false},
		{name: "nil", input: nil, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := timestampMillis(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
