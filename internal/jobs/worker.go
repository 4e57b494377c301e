// Package jobs runs background work for the API: fire-and-forget tasks like
// email sends, and the recurring stale-lead and overdue-invoice checks.
package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nomadecampers/nomade-api/pkg/logger"
)

// Job is a unit of background work. It receives the worker's context, which
// is cancelled on shutdown.
type Job func(ctx context.Context) error

// Worker runs jobs in bounded goroutines and recurring jobs on tickers
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}

	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Stats is a snapshot of the worker's counters. Completed counts every
// finished job; failures are a subset of it.
type Stats struct {
	ActiveJobs    int64 `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker allowing up to concurrency simultaneous jobs,
// with a floor of 10 so bursts of notification emails never queue behind a
// single slow send.
func NewWorker(concurrency int) *Worker {
	if concurrency < 10 {
		concurrency = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, concurrency),
	}
}

// EnqueueAsync runs the job in its own goroutine, bounded by the
// concurrency limit. Errors and panics are logged, never propagated.
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.sem <- struct{}{}
		defer func() { <-w.sem }()
		w.run("async", job)
	}()
}

// ScheduleEvery runs the job on a fixed interval until shutdown. The first
// run happens one interval after startup.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduled", job)
			}
		}
	}()
}

func (w *Worker) run(kind string, job Job) {
	w.active.Add(1)
	defer func() {
		w.active.Add(-1)
		w.completed.Add(1)
		if r := recover(); r != nil {
			w.failed.Add(1)
			logger.Error("panic en trabajo en segundo plano", "kind", kind, "panic", r)
		}
	}()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		w.failed.Add(1)
		logger.Error("trabajo en segundo plano fallido", "kind", kind, "error", err)
		return
	}
	logger.Debug("trabajo en segundo plano completado", "kind", kind, "elapsed", time.Since(start))
}

// Shutdown cancels the worker context and waits for running jobs to finish
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

// GetStats returns the current counters
func (w *Worker) GetStats() Stats {
	return Stats{
		ActiveJobs:    w.active.Load(),
		CompletedJobs: w.completed.Load(),
		FailedJobs:    w.failed.Load(),
		MaxConcurrent: cap(w.sem),
	}
}
