package dac

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// gridColumns is the total width of one layout row.
const gridColumns = 24

// defaultPanelHeight is the grid height of a panel row when unset.
const defaultPanelHeight = 6

// Panel is one panel definition inside the dashboard document.
type Panel struct {
	Kind string    `json:"kind" yaml:"kind"`
	Spec PanelSpec `json:"spec" yaml:"spec"`
}

// PanelSpec describes what a panel queries and how it presents itself.
type PanelSpec struct {
	Display    Display `json:"display" yaml:"display"`
	Links      []Link  `json:"links,omitempty" yaml:"links,omitempty"`
	Queries    []Query `json:"queries" yaml:"queries"`
	TimeColumn string  `json:"timeColumn,omitempty" yaml:"timeColumn,omitempty"`
	ShapeHint  string  `json:"shapeHint,omitempty" yaml:"shapeHint,omitempty"`
}

// Link is a navigation link rendered on the panel header.
type Link struct {
	URL  string `json:"url" yaml:"url"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Query is one data query executed for the panel.
type Query struct {
	SQL        string `json:"sql" yaml:"sql"`
	Datasource string `json:"datasource,omitempty" yaml:"datasource,omitempty"`
}

// Layout is one panel group rendered as a grid.
type Layout struct {
	Kind string     `json:"kind" yaml:"kind"`
	Spec LayoutSpec `json:"spec" yaml:"spec"`
}

// LayoutSpec holds the group title and its placed panels.
type LayoutSpec struct {
	Display *Display   `json:"display,omitempty" yaml:"display,omitempty"`
	Items   []GridItem `json:"items" yaml:"items"`
}

// GridItem places one panel on the grid by reference.
type GridItem struct {
	X       int       `json:"x" yaml:"x"`
	Y       int       `json:"y" yaml:"y"`
	Width   int       `json:"width" yaml:"width"`
	Height  int       `json:"height" yaml:"height"`
	Content Reference `json:"content" yaml:"content"`
}

// Reference is a JSON pointer to a panel in the same document.
type Reference struct {
	Ref string `json:"$ref" yaml:"$ref"`
}

type panelGroup struct {
	title         string
	panelsPerLine int
	panelHeight   int
	panels        []panelEntry
}

type panelEntry struct {
	id    string
	panel Panel
}

// PanelGroupOption configures a panel group under construction.
type PanelGroupOption func(*panelGroup) error

// AddPanelGroup appends a titled group of panels laid out in a grid.
func AddPanelGroup(title string, opts ...PanelGroupOption) Option {
	return func(b *Builder) error {
		group := &panelGroup{
			title:         title,
			panelsPerLine: 2,
			panelHeight:   defaultPanelHeight,
		}
		for _, opt := range opts {
			if err := opt(group); err != nil {
				return fmt.Errorf("panel group %q: %w", title, err)
			}
		}
		if len(group.panels) == 0 {
			return fmt.Errorf("panel group %q has no panels", title)
		}

		width := gridColumns / group.panelsPerLine
		items := make([]GridItem, len(group.panels))
		for i, entry := range group.panels {
			if _, exists := b.Dashboard.Spec.Panels[entry.id]; exists {
				return fmt.Errorf("duplicate panel id %q", entry.id)
			}
			b.Dashboard.Spec.Panels[entry.id] = entry.panel
			items[i] = GridItem{
				X:       (i % group.panelsPerLine) * width,
				Y:       (i / group.panelsPerLine) * group.panelHeight,
				Width:   width,
				Height:  group.panelHeight,
				Content: Reference{Ref: "#/spec/panels/" + entry.id},
			}
		}

		b.Dashboard.Spec.Layouts = append(b.Dashboard.Spec.Layouts, Layout{
			Kind: "Grid",
			Spec: LayoutSpec{
				Display: &Display{Name: title},
				Items:   items,
			},
		})
		return nil
	}
}

// PanelsPerLine sets how many panels share one grid row (1 to 24).
func PanelsPerLine(n int) PanelGroupOption {
	return func(g *panelGroup) error {
		if n < 1 || n > gridColumns {
			return fmt.Errorf("panels per line must be between 1 and %d, got %d", gridColumns, n)
		}
		g.panelsPerLine = n
		return nil
	}
}

// PanelHeight sets the grid height of each panel row in the group.
func PanelHeight(h int) PanelGroupOption {
	return func(g *panelGroup) error {
		if h < 1 {
			return fmt.Errorf("panel height must be positive, got %d", h)
		}
		g.panelHeight = h
		return nil
	}
}

// PanelOption configures one panel.
type PanelOption func(*panelEntry) error

// AddPanel adds a panel to the group. The panel id is derived from the
// title; a title with no usable characters falls back to a random id.
func AddPanel(title string, opts ...PanelOption) PanelGroupOption {
	return func(g *panelGroup) error {
		entry := panelEntry{
			id: panelID(title),
			panel: Panel{
				Kind: "Panel",
				Spec: PanelSpec{Display: Display{Name: title}},
			},
		}
		for _, opt := range opts {
			if err := opt(&entry); err != nil {
				return fmt.Errorf("panel %q: %w", title, err)
			}
		}
		if len(entry.panel.Spec.Queries) == 0 {
			return fmt.Errorf("panel %q has no queries", title)
		}
		g.panels = append(g.panels, entry)
		return nil
	}
}

// PanelDescription sets the panel description shown in its info tooltip.
func PanelDescription(description string) PanelOption {
	return func(e *panelEntry) error {
		e.panel.Spec.Display.Description = description
		return nil
	}
}

// AddLink attaches a navigation link to the panel.
func AddLink(url, name string) PanelOption {
	return func(e *panelEntry) error {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("link url is required")
		}
		e.panel.Spec.Links = append(e.panel.Spec.Links, Link{URL: url, Name: name})
		return nil
	}
}

// AddQuery attaches a data query to the panel.
func AddQuery(sql string, opts ...QueryOption) PanelOption {
	return func(e *panelEntry) error {
		if strings.TrimSpace(sql) == "" {
			return fmt.Errorf("query sql is required")
		}
		q := Query{SQL: sql}
		for _, opt := range opts {
			opt(&q)
		}
		e.panel.Spec.Queries = append(e.panel.Spec.Queries, q)
		return nil
	}
}

// QueryOption configures one query.
type QueryOption func(*Query)

// QueryDatasource routes the query to a named datasource instead of the
// dashboard default.
func QueryDatasource(name string) QueryOption {
	return func(q *Query) {
		q.Datasource = name
	}
}

// TimeColumn marks a result column as the time axis, turning the panel's
// tabular results into time series.
func TimeColumn(column string) PanelOption {
	return func(e *panelEntry) error {
		e.panel.Spec.TimeColumn = column
		return nil
	}
}

// ShapeHint overrides payload shape auto-detection for the panel.
func ShapeHint(shape string) PanelOption {
	return func(e *panelEntry) error {
		e.panel.Spec.ShapeHint = shape
		return nil
	}
}

// PanelID overrides the derived panel id.
func PanelID(id string) PanelOption {
	return func(e *panelEntry) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("panel id is empty")
		}
		e.id = id
		return nil
	}
}

// panelID derives a stable identifier from the title, keeping letters and
// digits only.
func panelID(title string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if upperNext && r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			upperNext = false
		default:
			upperNext = b.Len() > 0
		}
	}
	if b.Len() == 0 {
		return "panel-" + uuid.NewString()[:8]
	}
	return b.String()
}
