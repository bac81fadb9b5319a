package models

import (
	"encoding/json"
	"testing"
)

func TestParseShape(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Shape
	}{
		{name: "time_series", input: "time_series", want: ShapeTimeSeries},
		{name: "table", input: "table", want: ShapeTable},
		{name: "bar_chart", input: "bar_chart", want: ShapeBarChart},
		{name: "trace", input: "trace", want: ShapeTrace},
		{name: "generic", input: "generic", want: ShapeGeneric},
		{name: "mixed_case", input: " Table ", want: ShapeTable},
		{name: "unknown_literal", input: "unknown", want: ShapeUnknown},
		{name: "garbage", input: "pie", want: ShapeUnknown},
		{name: "empty", input: "", want: ShapeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseShape(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSeriesPointJSON(t *testing.T) {
	v := 0.5
	point := SeriesPoint{T: 1700000000, V: &v}

	data, err := json.Marshal(point)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "[1700000000,0.5]" {
		t.Fatalf("expected pair encoding, got %s", data)
	}

	var decoded SeriesPoint
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.T != point.T || decoded.V == nil || *decoded.V != v {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestSeriesPointJSONNullValue(t *testing.T) {
	point := SeriesPoint{T: 1700000000}

	data, err := json.Marshal(point)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "[1700000000,null]" {
		t.Fatalf("expected null value encoding, got %s", data)
	}

	var decoded SeriesPoint
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.V != nil {
		t.Fatalf("expected nil value, got %v", *decoded.V)
	}
}

func TestSeriesPointJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty_pair", raw: "[]"},
		{name: "null_timestamp", raw: "[null,1]"},
		{name: "not_a_pair", raw: `{"t":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p SeriesPoint
			if err := json.Unmarshal([]byte(tc.raw), &p); err == nil {
				t.Fatalf("expected error for %s", tc.raw)
			}
		})
	}
}

func TestClassificationPayload(t *testing.T) {
	table := &TablePayload{Columns: []Column{{Name: "id"}}}
	c := Classification{Shape: ShapeTable, Table: table}
	if c.Payload() != table {
		t.Fatalf("expected table payload")
	}

	if (Classification{Shape: ShapeUnknown}).Payload() != nil {
		t.Fatalf("expected nil payload for unknown")
	}
}

func TestSnapshotPanel(t *testing.T) {
	snap := &Snapshot{
		Panels: []PanelSnapshot{
			{Ref: "a", Title: "A"},
			{Ref: "b", Title: "B"},
		},
	}

	if p := snap.Panel("b"); p == nil || p.Title != "B" {
		t.Fatalf("expected panel b, got %+v", p)
	}
	if p := snap.Panel("missing"); p != nil {
		t.Fatalf("expected nil for missing ref, got %+v", p)
	}

	var nilSnap *Snapshot
	if p := nilSnap.Panel("a"); p != nil {
		t.Fatalf("expected nil for nil snapshot")
	}
}
