// Package worker sends notification emails for events published on the
// bus, off the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/jobs"
	"github.com/jokads/JokaTech/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID identifies this instance in logs
	WorkerID string

	// MaxConcurrency bounds jobs in flight. The bus drops events for a
	// subscriber whose buffer is full, so keep this above zero.
	MaxConcurrency int

	// MaxRetries is how many times a failed send is retried
	MaxRetries int

	// RetryDelay is the first backoff; it doubles per attempt
	RetryDelay time.Duration

	// JobTimeout bounds a single send attempt
	JobTimeout time.Duration
}

// Worker consumes bus events and runs the matching jobs.
type Worker struct {
	config  Config
	bus     events.Bus
	mailer  jobs.Mailer
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewWorker creates a new notification worker
func NewWorker(bus events.Bus, mailer jobs.Mailer, metrics *telemetry.BusinessMetrics, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 2 * time.Second
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Second
	}

	return &Worker{
		config:  config,
		bus:     bus,
		mailer:  mailer,
		metrics: metrics,
		logger:  logger.With("worker_id", config.WorkerID),
	}
}

// Start processes events until ctx is cancelled or the bus closes. Jobs
// already running are allowed to finish their current attempt.
func (w *Worker) Start(ctx context.Context) error {
	sub, err := w.bus.Subscribe(events.OfType(jobs.EventTypes...))
	if err != nil {
		return fmt.Errorf("failed to subscribe worker: %w", err)
	}
	defer sub.Close()
	return w.consume(ctx, sub)
}

func (w *Worker) consume(ctx context.Context, sub *events.Subscription) error {
	w.logger.Info("worker starting",
		"max_concurrency", w.config.MaxConcurrency,
		"max_retries", w.config.MaxRetries,
	)

	var g errgroup.Group
	g.SetLimit(w.config.MaxConcurrency)

	func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-sub.C:
				if !ok {
					return
				}
				job, ok := jobs.FromEvent(e)
				if !ok {
					continue
				}
				g.Go(func() error {
					w.run(ctx, job)
					return nil
				})
			}
		}
	}()

	_ = g.Wait()
	w.logger.Info("worker stopped")
	return nil
}

// run attempts job until it succeeds, retries run out or ctx ends.
func (w *Worker) run(ctx context.Context, job jobs.Job) {
	logger := w.logger.With("job_type", job.Type, "key", job.Key())
	kind := strings.TrimPrefix(job.Type, "email:")

	for job.Attempt = 1; ; job.Attempt++ {
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.JobTimeout)
		err := jobs.Process(attemptCtx, job, w.mailer)
		cancel()
		w.metrics.RecordEmail(kind, err)

		if err == nil {
			logger.Info("job completed", "attempt", job.Attempt)
			return
		}

		if job.Attempt > w.config.MaxRetries {
			logger.Error("job failed", "attempt", job.Attempt, "error", err)
			telemetry.CaptureError(err, map[string]interface{}{
				"job_type": job.Type,
				"key":      job.Key(),
				"attempts": job.Attempt,
			})
			return
		}

		delay := w.config.RetryDelay << (job.Attempt - 1)
		logger.Warn("job failed, retrying", "attempt", job.Attempt, "retry_in", delay, "error", err)

		select {
		case <-ctx.Done():
			logger.Warn("job abandoned on shutdown", "attempt", job.Attempt)
			return
		case <-time.After(delay):
		}
	}
}
