package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{name: "QueryTimeout", got: cfg.QueryTimeout, want: 5 * time.Minute},
		{name: "MaxRows", got: cfg.MaxRows, want: 100000},
		{name: "RateLimit", got: cfg.RateLimit, want: 10},
		{name: "Concurrency", got: cfg.Concurrency, want: 5},
		{name: "DashboardFile", got: cfg.DashboardFile, want: "./dashboard.json"},
		{name: "SnapshotFile", got: cfg.SnapshotFile, want: "./results.json"},
		{name: "IncludePanels", got: len(cfg.IncludePanels), want: 0},
		{name: "ExcludePanels", got: len(cfg.ExcludePanels), want: 0},
		{name: "OutputDir", got: cfg.OutputDir, want: "./export"},
		{name: "Format", got: cfg.Format, want: "table"},
		{name: "PanelWidth", got: cfg.PanelWidth, want: 600},
		{name: "ServerPort", got: cfg.ServerPort, want: 8080},
		{name: "Watch", got: cfg.Watch, want: false},
		{name: "Verbose", got: cfg.Verbose, want: false},
		{name: "DryRun", got: cfg.DryRun, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, tc.got)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: "30s", want: 30 * time.Second},
		{name: "minutes", input: "5m", want: 5 * time.Minute},
		{name: "hours", input: "2h", want: 2 * time.Hour},
		{name: "days", input: "7d", want: 7 * 24 * time.Hour},
		{name: "weeks", input: "2w", want: 2 * 7 * 24 * time.Hour},
		{name: "fallback_go_duration", input: "1.5h", want: time.Duration(1.5 * float64(time.Hour))},
		{name: "invalid", input: "5x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDuration(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsPanelSelected(t *testing.T) {
	cases := []struct {
		name     string
		cfg      *Config
		title    string
		selected bool
	}{
		{name: "nil_config", cfg: nil, title: "CPU", selected: true},
		{name: "empty_lists", cfg: &Config{}, title: "CPU", selected: true},
		{name: "empty_title", cfg: &Config{}, title: "  ", selected: false},
		{
			name:     "include_match",
			cfg:      &Config{IncludePanels: []string{"cpu*"}},
			title:    "CPU Usage",
			selected: true,
		},
		{
			name:     "include_miss",
			cfg:      &Config{IncludePanels: []string{"memory*"}},
			title:    "CPU Usage",
			selected: false,
		},
		{
			name:     "exclude_wins",
			cfg:      &Config{IncludePanels: []string{"cpu*"}, ExcludePanels: []string{"*usage"}},
			title:    "CPU Usage",
			selected: false,
		},
		{
			name:     "exact_match_case_insensitive",
			cfg:      &Config{IncludePanels: []string{"Latency"}},
			title:    "latency",
			selected: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.IsPanelSelected(tc.title); got != tc.selected {
				t.Fatalf("expected %v, got %v", tc.selected, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		IncludePanels: []string{" CPU* ", "", "  "},
		ExcludePanels: []string{"Internal*"},
	}
	cfg.Normalize()

	if len(cfg.IncludePanels) != 1 || cfg.IncludePanels[0] != "cpu*" {
		t.Fatalf("expected normalized include patterns, got %v", cfg.IncludePanels)
	}
	if len(cfg.ExcludePanels) != 1 || cfg.ExcludePanels[0] != "internal*" {
		t.Fatalf("expected normalized exclude patterns, got %v", cfg.ExcludePanels)
	}
}
