package collector

import (
	"testing"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/dac"
)

func TestPanelSpecs(t *testing.T) {
	builder, err := dac.New("board",
		dac.AddPanelGroup("Group",
			dac.AddPanel("CPU Usage",
				dac.PanelDescription("Per-node CPU"),
				dac.AddLink("https://example.com", "Docs"),
				dac.AddQuery("SELECT ts, cpu FROM metrics"),
				dac.TimeColumn("ts"),
				dac.ShapeHint("time_series"),
			),
			dac.AddPanel("Namespaces",
				dac.AddQuery("SELECT namespace FROM pods"),
				dac.AddQuery("SELECT count() FROM pods"),
			),
		),
	)
	if err != nil {
		t.Fatalf("failed to build dashboard: %v", err)
	}

	specs := PanelSpecs(&builder.Dashboard)
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}

	first := specs[0]
	if first.Ref != "CPUUsage" || first.Title != "CPU Usage" {
		t.Fatalf("unexpected first spec identity: %+v", first)
	}
	if first.Description != "Per-node CPU" {
		t.Fatalf("unexpected description: %q", first.Description)
	}
	if len(first.Links) != 1 || first.Links[0].URL != "https://example.com" {
		t.Fatalf("unexpected links: %v", first.Links)
	}
	if first.TimeColumn != "ts" {
		t.Fatalf("unexpected time column: %q", first.TimeColumn)
	}
	if first.ShapeHint != models.ShapeTimeSeries {
		t.Fatalf("unexpected shape hint: %q", first.ShapeHint)
	}

	second := specs[1]
	if second.Ref != "Namespaces" || len(second.Queries) != 2 {
		t.Fatalf("unexpected second spec: %+v", second)
	}
	if second.ShapeHint != "" {
		t.Fatalf("expected empty shape hint, got %q", second.ShapeHint)
	}
}

func TestPanelSpecsNil(t *testing.T) {
	if specs := PanelSpecs(nil); specs != nil {
		t.Fatalf("expected nil for nil dashboard, got %v", specs)
	}
}
