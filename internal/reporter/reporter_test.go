package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/config"
)

func testSnapshot(t *testing.T) *models.Snapshot {
	t.Helper()

	tablePayload := func(raw string) any {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("failed to decode fixture: %v", err)
		}
		return v
	}

	return &models.Snapshot{
		Tool:        "dashspectre",
		Version:     "test",
		Dashboard:   "board",
		GeneratedAt: time.Now().UTC(),
		Panels: []models.PanelSnapshot{
			{
				Ref:   "namespaces",
				Title: "Namespaces",
				Results: []models.QueryResult{{
					Data: tablePayload(`{
						"columns":[{"name":"namespace","displayName":"Namespace"}],
						"rows":[{"namespace":"kube-system"},{"namespace":"default"}]
					}`),
				}},
			},
			{
				Ref:     "broken",
				Title:   "Broken",
				Results: []models.QueryResult{{Error: &models.QueryError{Message: "boom"}}},
			},
			{
				Ref:   "internal",
				Title: "Internal Debug",
				Results: []models.QueryResult{{
					Data: tablePayload(`{"columns":[{"name":"a"}],"rows":[{"a":1}]}`),
				}},
			},
		},
	}
}

func TestGenerateWritesBundle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.ExcludePanels = []string{"internal*"}

	manifest, err := New(cfg, "test").Generate(testSnapshot(t))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if manifest.Exported != 1 {
		t.Fatalf("expected 1 exported panel, got %d", manifest.Exported)
	}
	if len(manifest.Panels) != 3 {
		t.Fatalf("expected 3 manifest entries, got %d", len(manifest.Panels))
	}

	exported := manifest.Panels[0]
	if exported.Skipped || exported.Filename != "Namespaces_table_data.csv" {
		t.Fatalf("unexpected exported entry: %+v", exported)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, exported.Filename))
	if err != nil {
		t.Fatalf("failed to read exported CSV: %v", err)
	}
	want := "Namespace\nkube-system\ndefault\n"
	if string(data) != want {
		t.Fatalf("expected:\n%q\ngot:\n%q", want, string(data))
	}

	broken := manifest.Panels[1]
	if !broken.Skipped || broken.Reason != "no exportable data" {
		t.Fatalf("expected broken panel skipped for no data, got %+v", broken)
	}

	filtered := manifest.Panels[2]
	if !filtered.Skipped || filtered.Reason != "filtered out" {
		t.Fatalf("expected internal panel filtered, got %+v", filtered)
	}

	var onDisk models.Manifest
	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, "manifest.json"))
	if err != nil {
		t.Fatalf("failed to read manifest.json: %v", err)
	}
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("failed to parse manifest.json: %v", err)
	}
	if onDisk.Dashboard != "board" || onDisk.Exported != 1 {
		t.Fatalf("unexpected manifest on disk: %+v", onDisk)
	}
}

func TestGenerateNilSnapshot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	if _, err := New(cfg, "test").Generate(nil); err == nil {
		t.Fatal("expected error for nil snapshot")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	snap := testSnapshot(t)

	if err := WriteSnapshot(snap, path); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	loaded, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if loaded.Dashboard != snap.Dashboard || len(loaded.Panels) != len(snap.Panels) {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if loaded.Panel("broken") == nil || loaded.Panel("broken").Results[0].Error == nil {
		t.Fatalf("expected query error to survive the round trip")
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}
