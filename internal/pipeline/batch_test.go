package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/reporttable/internal/model"
)

// newJobs creates n CSV jobs with numbered sources.
func newJobs(n int) []*model.Job {
	jobs := make([]*model.Job, n)
	for i := range jobs {
		jobs[i] = model.NewJob(fmt.Sprintf("doc%d.yaml", i), model.FormatCSV)
	}
	return jobs
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(*model.Job) *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(*model.Job) *Pipeline { return New() }, WithConcurrency(2))
		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores invalid concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(*model.Job) *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests concurrent job processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		factory := func(*model.Job) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "tag", doFunc: func(_ context.Context, job *model.Job) error {
				job.Output = []byte(job.Source)
				return nil
			}})
			return p
		}
		bp := NewBatchProcessor(factory, WithConcurrency(3), WithBatchLogger(quietLogger()))

		jobs := newJobs(8)
		results, err := bp.ProcessBatch(context.Background(), jobs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(jobs) {
			t.Fatalf("expected %d results, got %d", len(jobs), len(results))
		}
		for i, job := range results {
			if string(job.Output) != jobs[i].Source {
				t.Errorf("result %d: expected %q, got %q", i, jobs[i].Source, job.Output)
			}
		}
	})

	t.Run("records failures without stopping others", func(t *testing.T) {
		t.Parallel()

		factory := func(*model.Job) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "maybe", doFunc: func(_ context.Context, job *model.Job) error {
				if job.Source == "doc1.yaml" {
					return errors.New("broken")
				}
				return nil
			}})
			return p
		}
		bp := NewBatchProcessor(factory, WithBatchLogger(quietLogger()))

		results, err := bp.ProcessBatch(context.Background(), newJobs(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, job := range results {
			if job.Failed() != (i == 1) {
				t.Errorf("job %d: unexpected failure state %v", i, job.Err)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		factory := func(*model.Job) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *model.Job) error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			}})
			return p
		}
		bp := NewBatchProcessor(factory, WithConcurrency(2), WithBatchLogger(quietLogger()))

		if _, err := bp.ProcessBatch(context.Background(), newJobs(6)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent jobs, got %d", peak.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func(*model.Job) *Pipeline { return New(WithLogger(quietLogger())) }, WithBatchLogger(quietLogger()))
		if _, err := bp.ProcessBatch(ctx, newJobs(2)); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests streaming results.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(func(*model.Job) *Pipeline { return New(WithLogger(quietLogger())) }, WithBatchLogger(quietLogger()))

	var mu sync.Mutex
	seen := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(), newJobs(4), func(job *model.Job, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = job.Source
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 callbacks, got %d", len(seen))
	}
	for i, src := range seen {
		if src != fmt.Sprintf("doc%d.yaml", i) {
			t.Errorf("index %d: unexpected source %q", i, src)
		}
	}
}
