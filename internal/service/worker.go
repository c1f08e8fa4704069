package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
	"github.com/couchcryptid/windspeed-raster/internal/observability"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
)

// Worker consumes regrid jobs, runs the pipeline, and publishes results.
type Worker struct {
	source  JobSource
	sink    ResultSink
	pipe    *pipeline.Pipeline
	logger  *slog.Logger
	metrics *observability.Metrics
	workers int
	ready   atomic.Bool
}

// NewWorker creates a Worker. workers bounds the resample fan-out per job.
func NewWorker(source JobSource, sink ResultSink, pipe *pipeline.Pipeline, workers int, logger *slog.Logger, metrics *observability.Metrics) *Worker {
	return &Worker{
		source:  source,
		sink:    sink,
		pipe:    pipe,
		logger:  logger,
		metrics: metrics,
		workers: workers,
	}
}

// CheckReadiness returns nil once the worker has processed at least one job.
func (w *Worker) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("worker has not processed any jobs yet")
	}
	return nil
}

// Run executes the fetch-regrid-publish loop until the context is
// cancelled. Broker errors back off exponentially from 200ms to 5s; job
// failures are per-message and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", "resample_workers", w.workers)
	w.metrics.WorkerRunning.Set(1)
	defer w.metrics.WorkerRunning.Set(0)

	backoff := 200 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopping", "reason", ctx.Err())
			return nil
		default:
		}

		job, err := w.source.FetchJob(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("fetch job failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond
		w.metrics.JobsConsumed.Inc()

		w.processJob(ctx, job)
	}
}

// processJob runs one job end to end. Pipeline failures produce an error
// result; only publish failures leave the job uncommitted for redelivery.
func (w *Worker) processJob(ctx context.Context, job RegridJob) {
	start := domain.Clock().Now()
	res, runErr := w.pipe.Run(ctx, job.Options(w.workers))

	result := RegridResult{
		ID:          job.ID,
		Status:      "ok",
		OutputFile:  res.OutputPath,
		Rows:        res.Rows,
		Cols:        res.Cols,
		DurationMS:  domain.Clock().Since(start).Milliseconds(),
		ProcessedAt: domain.Clock().Now(),
	}
	if runErr != nil {
		w.logger.Warn("job failed", "job_id", job.ID, "error", runErr)
		result.Status = "error"
		result.Error = runErr.Error()
		result.OutputFile = ""
	}

	if err := w.sink.PublishResult(ctx, result); err != nil {
		w.logger.Error("publish result failed", "job_id", job.ID, "error", err)
		return
	}
	w.metrics.ResultsPosted.Inc()

	if job.Commit != nil {
		if err := job.Commit(ctx); err != nil {
			w.logger.Warn("commit job failed", "job_id", job.ID, "error", err)
		}
	}
	w.ready.Store(true)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
