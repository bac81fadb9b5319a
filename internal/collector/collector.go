// Package collector executes panel queries against a ClickHouse datasource
// and packages the row sets as query-result snapshots.
package collector

import (
	"context"
	"fmt"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/config"
	"github.com/dashspectre/dashspectre/pkg/dac"
)

// Runner executes every query of every panel and returns one snapshot per
// panel, queries running concurrently across the worker pool.
type Runner interface {
	Run(ctx context.Context, panels []models.PanelSpec) ([]models.PanelSnapshot, error)
	Close() error
}

// runner implements the Runner interface
type runner struct {
	config *config.Config
	client *Client
}

// New creates a new runner instance
func New(cfg *config.Config) (Runner, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ClickHouse client: %w", err)
	}

	return &runner{
		config: cfg,
		client: client,
	}, nil
}

// Run executes all panel queries. A failing query does not fail the run: its
// error is recorded on the query result and surfaced by the state indicator.
func (r *runner) Run(ctx context.Context, panels []models.PanelSpec) ([]models.PanelSnapshot, error) {
	runCtx, cancel := withTotalTimeoutContext(ctx, r.config.QueryTimeout)
	defer cancel()

	snapshots := make([]models.PanelSnapshot, len(panels))
	total := 0
	for i, p := range panels {
		snapshots[i] = models.PanelSnapshot{
			Ref:         p.Ref,
			Title:       p.Title,
			Description: p.Description,
			Links:       p.Links,
			ShapeHint:   p.ShapeHint,
			Results:     make([]models.QueryResult, len(p.Queries)),
		}
		total += len(p.Queries)
	}

	pool := NewWorkerPool(r.config.Concurrency, r.client)
	pool.Start(runCtx)
	go func() {
		for i, p := range panels {
			for j, sql := range p.Queries {
				pool.Submit(queryJob{panel: i, query: j, sql: sql, timeColumn: p.TimeColumn})
			}
		}
		pool.DoneSubmitting()
	}()

	received := 0
	for received < total {
		select {
		case out := <-pool.Results():
			snapshots[out.panel].Results[out.query] = out.result
			received++
		case <-runCtx.Done():
			pool.Stop()
			return nil, fmt.Errorf("query run aborted: %w", contextError(runCtx))
		}
	}
	pool.Stop()

	return snapshots, nil
}

// Close closes the runner and its resources
func (r *runner) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// PanelSpecs flattens a dashboard document into executable panel specs, in
// layout order.
func PanelSpecs(d *dac.Dashboard) []models.PanelSpec {
	if d == nil {
		return nil
	}

	specs := make([]models.PanelSpec, 0, len(d.Spec.Panels))
	for _, id := range d.PanelIDs() {
		panel, ok := d.Spec.Panels[id]
		if !ok {
			continue
		}

		title := panel.Spec.Display.Name
		if title == "" {
			title = id
		}

		links := make([]models.Link, 0, len(panel.Spec.Links))
		for _, l := range panel.Spec.Links {
			links = append(links, models.Link{URL: l.URL, Name: l.Name})
		}

		queries := make([]string, 0, len(panel.Spec.Queries))
		for _, q := range panel.Spec.Queries {
			queries = append(queries, q.SQL)
		}

		spec := models.PanelSpec{
			Ref:         id,
			Title:       title,
			Description: panel.Spec.Display.Description,
			Links:       links,
			Queries:     queries,
			TimeColumn:  panel.Spec.TimeColumn,
		}
		if panel.Spec.ShapeHint != "" {
			spec.ShapeHint = models.ParseShape(panel.Spec.ShapeHint)
		}
		specs = append(specs, spec)
	}
	return specs
}
