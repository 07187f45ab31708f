package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/reporttable/internal/model"
)

// DefaultConcurrency is the number of jobs rendered at once when no
// limit is configured.
const DefaultConcurrency = 4

// BatchProcessor renders multiple jobs concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job so that no
	// state is shared between goroutines. It receives the job so that
	// per-source settings can shape the steps.
	pipelineFactory func(job *model.Job) *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed jobs in input order.
	results []*model.Job
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Values below one are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per job.
func NewBatchProcessor(pipelineFactory func(job *model.Job) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.Job, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job through its own pipeline.
// A failing job does not stop the others; its error stays in the job.
//
// Returns the jobs in input order. The error is non-nil only when the
// context was cancelled before all jobs started.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*model.Job) ([]*model.Job, error) {
	bp.logger.Info("starting batch rendering",
		"total_jobs", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.Job, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("rendering",
				"source", job.Source,
				"index", i+1,
				"total", len(jobs),
			)

			err := bp.pipelineFactory(job).Execute(ctx, job)

			bp.mu.Lock()
			bp.results[i] = job
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("render failed",
					"source", job.Source,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch rendering complete",
		"total_jobs", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback runs every job and calls callback as each one
// finishes. The callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []*model.Job,
	callback func(job *model.Job, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			_ = bp.pipelineFactory(job).Execute(ctx, job) //nolint:errcheck // Error is stored in job
			callback(job, i)
			return nil
		})
	}

	return g.Wait()
}
