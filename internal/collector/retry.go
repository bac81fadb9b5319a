package collector

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const (
	maxRetryAttempts    = 3
	initialRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff     = 2 * time.Second
)

// errClass buckets a query error for retry purposes.
type errClass int

const (
	errFatal errClass = iota
	errAuth
	errTransient
)

type retryConfig struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sleep          func(context.Context, time.Duration) error
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts:    maxRetryAttempts,
		initialBackoff: initialRetryBackoff,
		maxBackoff:     maxRetryBackoff,
		sleep:          sleepWithContext,
	}
}

func (cfg retryConfig) normalized() retryConfig {
	if cfg.maxAttempts <= 0 {
		cfg.maxAttempts = maxRetryAttempts
	}
	if cfg.initialBackoff <= 0 {
		cfg.initialBackoff = initialRetryBackoff
	}
	if cfg.maxBackoff < cfg.initialBackoff {
		cfg.maxBackoff = cfg.initialBackoff
	}
	if cfg.sleep == nil {
		cfg.sleep = sleepWithContext
	}
	return cfg
}

// executeWithRetry runs fn until it succeeds, fails non-transiently, or the
// attempt budget is exhausted. Backoff doubles per attempt up to maxBackoff.
func executeWithRetry(ctx context.Context, cfg retryConfig, fn func() error) error {
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if err := contextError(ctx); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctxErr := contextError(ctx); ctxErr != nil {
			return ctxErr
		}
		if classify(lastErr) != errTransient {
			return lastErr
		}
		if attempt == cfg.maxAttempts-1 {
			break
		}

		backoff := cfg.initialBackoff << attempt
		if backoff > cfg.maxBackoff {
			backoff = cfg.maxBackoff
		}
		if err := cfg.sleep(ctx, backoff); err != nil {
			if ctxErr := contextError(ctx); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}

	return lastErr
}

// withTotalTimeoutContext bounds an entire run rather than one attempt. The
// timer fires with DeadlineExceeded as the cause so callers can tell
// expiration apart from an ordinary cancel.
func withTotalTimeoutContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}

	ctx, cancelCause := context.WithCancelCause(parent)
	timer := time.AfterFunc(timeout, func() {
		cancelCause(context.DeadlineExceeded)
	})

	return ctx, func() {
		timer.Stop()
		cancelCause(context.Canceled)
	}
}

func contextError(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return contextError(ctx)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ClickHouse exception codes for bad credentials and access control.
var authExceptionCodes = map[int32]bool{193: true, 194: true, 497: true, 516: true}

func classify(err error) errClass {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return errFatal
	case isAuthError(err):
		return errAuth
	case isRetryableError(err):
		return errTransient
	default:
		return errFatal
	}
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}

	var chErr *clickhouse.Exception
	if errors.As(err, &chErr) && authExceptionCodes[chErr.Code] {
		return true
	}

	text := strings.ToLower(err.Error())
	for _, marker := range []string{
		"authentication failed",
		"invalid credentials",
		"invalid password",
		"unknown user",
		"unauthorized",
		"access denied",
	} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	text := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout",
		"i/o timeout",
		"eof",
		"broken pipe",
		"connection reset",
		"connection refused",
		"connection closed",
		"use of closed network connection",
		"network is unreachable",
		"no route to host",
		"no such host",
	} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
