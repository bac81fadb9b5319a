// Package dac is the dashboards-as-code builder: it assembles dashboard
// definitions programmatically and emits them as JSON documents.
//
// The entry point is New, which applies functional options:
//
//	builder, err := dac.New("ClusterOverview",
//		dac.Name("Cluster overview"),
//		dac.AddPanelGroup("Usage",
//			dac.PanelsPerLine(2),
//			dac.AddPanel("Queries per table",
//				dac.AddQuery("SELECT table, count() AS queries FROM system.query_log GROUP BY table"),
//			),
//		),
//		dac.Duration(3*time.Hour),
//	)
package dac

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Dashboard is the emitted document.
type Dashboard struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Spec     Spec     `json:"spec" yaml:"spec"`
}

// Metadata names the dashboard and its owning project.
type Metadata struct {
	Name    string `json:"name" yaml:"name"`
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
}

// Display carries optional human-facing naming.
type Display struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Spec is the dashboard body.
type Spec struct {
	Display         *Display              `json:"display,omitempty" yaml:"display,omitempty"`
	Variables       []Variable            `json:"variables,omitempty" yaml:"variables,omitempty"`
	Panels          map[string]Panel      `json:"panels" yaml:"panels"`
	Layouts         []Layout              `json:"layouts" yaml:"layouts"`
	Datasources     map[string]Datasource `json:"datasources,omitempty" yaml:"datasources,omitempty"`
	Duration        string                `json:"duration,omitempty" yaml:"duration,omitempty"`
	RefreshInterval string                `json:"refreshInterval,omitempty" yaml:"refreshInterval,omitempty"`
}

// Builder accumulates a dashboard under construction.
type Builder struct {
	Dashboard Dashboard
}

// Option mutates the dashboard under construction.
type Option func(*Builder) error

// New builds a dashboard named name by applying opts in order. The first
// failing option aborts the build.
func New(name string, opts ...Option) (*Builder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("dashboard name is required")
	}

	b := &Builder{
		Dashboard: Dashboard{
			Kind:     "Dashboard",
			Metadata: Metadata{Name: name},
			Spec: Spec{
				Panels:  map[string]Panel{},
				Layouts: []Layout{},
			},
		},
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to build dashboard %q: %w", name, err)
		}
	}
	return b, nil
}

// JSON marshals the dashboard document with indentation.
func (b *Builder) JSON() ([]byte, error) {
	return json.MarshalIndent(b.Dashboard, "", "  ")
}

// Name sets the dashboard display name.
func Name(name string) Option {
	return func(b *Builder) error {
		b.ensureDisplay().Name = name
		return nil
	}
}

// Description sets the dashboard description.
func Description(description string) Option {
	return func(b *Builder) error {
		b.ensureDisplay().Description = description
		return nil
	}
}

// ProjectName sets the owning project.
func ProjectName(project string) Option {
	return func(b *Builder) error {
		b.Dashboard.Metadata.Project = project
		return nil
	}
}

// Duration sets the default time range.
func Duration(d time.Duration) Option {
	return func(b *Builder) error {
		if d <= 0 {
			return fmt.Errorf("duration must be positive")
		}
		b.Dashboard.Spec.Duration = formatDuration(d)
		return nil
	}
}

// RefreshInterval sets the auto-refresh cadence.
func RefreshInterval(d time.Duration) Option {
	return func(b *Builder) error {
		if d <= 0 {
			return fmt.Errorf("refresh interval must be positive")
		}
		b.Dashboard.Spec.RefreshInterval = formatDuration(d)
		return nil
	}
}

func (b *Builder) ensureDisplay() *Display {
	if b.Dashboard.Spec.Display == nil {
		b.Dashboard.Spec.Display = &Display{}
	}
	return b.Dashboard.Spec.Display
}

// formatDuration renders a duration without trailing zero units, e.g.
// "3h" instead of "3h0m0s".
func formatDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
