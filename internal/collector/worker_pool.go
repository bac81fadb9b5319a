package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dashspectre/dashspectre/internal/models"
)

// queryJob is one panel query to execute.
type queryJob struct {
	panel      int
	query      int
	sql        string
	timeColumn string
}

// queryOutcome pairs a job with its result; failures are folded into the
// result's error field rather than aborting the pool.
type queryOutcome struct {
	panel  int
	query  int
	result models.QueryResult
}

// WorkerPool manages concurrent execution of panel queries.
type WorkerPool struct {
	workers int
	client  *Client
	jobs    chan queryJob
	results chan queryOutcome
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workers int, client *Client) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		client:  client,
		jobs:    make(chan queryJob, workers*2),
		results: make(chan queryOutcome, workers*2),
	}
}

// Start starts the worker pool
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues one query job; blocks when the pool is saturated.
func (p *WorkerPool) Submit(job queryJob) {
	select {
	case p.jobs <- job:
	case <-p.ctx.Done():
	}
}

// DoneSubmitting signals that no further jobs will arrive.
func (p *WorkerPool) DoneSubmitting() {
	close(p.jobs)
}

// Results exposes the outcome channel.
func (p *WorkerPool) Results() <-chan queryOutcome {
	return p.results
}

// Stop cancels outstanding work and waits for the workers to exit.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.cancel()
	p.wg.Wait()
	p.started = false
}

// worker executes jobs until the job channel closes or the pool stops.
func (p *WorkerPool) worker(id int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker panic recovered",
				slog.Int("worker_id", id),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
		p.wg.Done()
	}()

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			outcome := queryOutcome{panel: job.panel, query: job.query}
			payload, err := p.client.RunQuery(p.ctx, job.sql)
			if err != nil {
				outcome.result.Error = &models.QueryError{Message: err.Error()}
			} else {
				outcome.result.Data = shapedPayload(payload, job.timeColumn)
			}
			select {
			case p.results <- outcome:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}
