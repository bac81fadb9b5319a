package collector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"golang.org/x/time/rate"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// Client handles ClickHouse connections and panel queries.
type Client struct {
	conn    *sql.DB
	limiter *rate.Limiter
	config  *config.Config
}

// NewClient opens a pooled ClickHouse connection from the configured DSN and
// verifies it with a ping.
func NewClient(cfg *config.Config) (*Client, error) {
	opts, err := clickhouse.ParseDSN(cfg.ClickHouseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ClickHouse DSN: %w", err)
	}

	opts.MaxOpenConns = 10
	opts.MaxIdleConns = 5
	opts.ConnMaxLifetime = time.Hour
	opts.ReadTimeout = 10 * time.Minute
	opts.DialTimeout = 30 * time.Second

	// Readonly users reject driver-set query settings such as
	// max_execution_time, so send none.
	opts.Settings = nil

	conn := clickhouse.OpenDB(opts)
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit*2)
	}

	slog.Debug("connected to ClickHouse", slog.String("addr", opts.Addr[0]))

	return &Client{
		conn:    conn,
		limiter: limiter,
		config:  cfg,
	}, nil
}

// RunQuery executes one panel query and packages the row set as a table
// payload, capped at the configured row limit. Transient failures are
// retried with backoff.
func (c *Client) RunQuery(ctx context.Context, sqlText string) (*models.TablePayload, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var payload *models.TablePayload
	err := executeWithRetry(ctx, defaultRetryConfig(), func() error {
		rows, err := c.conn.QueryContext(ctx, sqlText)
		if err != nil {
			return err
		}
		defer rows.Close()

		payload, err = scanRows(rows, c.config.MaxRows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return payload, nil
}

// scanRows reads every row into a table payload, converting driver byte
// slices to strings so cells stay printable.
func scanRows(rows *sql.Rows, maxRows int) (*models.TablePayload, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	columns := make([]models.Column, len(colNames))
	for i, name := range colNames {
		columns[i] = models.Column{Name: name}
	}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			if i < len(columns) {
				columns[i].Type = t.DatabaseTypeName()
			}
		}
	}

	var out []map[string]any
	for rows.Next() {
		if maxRows > 0 && len(out) >= maxRows {
			slog.Warn("row limit reached, truncating result", slog.Int("max_rows", maxRows))
			break
		}

		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(colNames))
		for i, name := range colNames {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[name] = val
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.TablePayload{Columns: columns, Rows: out}, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
