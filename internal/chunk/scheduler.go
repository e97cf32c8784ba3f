package chunk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc handles one chunk. report may be called with a fraction in
// [0, 1] to expose the chunk's own progress between dispatch and
// completion; calling it is optional.
type ProcessFunc func(ctx context.Context, chunk int, report func(float64)) error

// ProgressFunc receives aggregate progress as an integer 0-100.
type ProgressFunc func(percent int)

// Scheduler runs partitioned chunks either sequentially with a
// cancellation point between chunks, or on a bounded worker pool.
// A zero OnProgress is allowed.
type Scheduler struct {
	Config     Config
	OnProgress ProgressFunc

	mu          sync.Mutex
	completed   int
	fractions   []float64
	lastPercent int
	totalDur    time.Duration
}

// NewScheduler creates a scheduler for a partitioning decision.
func NewScheduler(cfg Config, onProgress ProgressFunc) *Scheduler {
	return &Scheduler{Config: cfg, OnProgress: onProgress, lastPercent: -1}
}

// Run processes chunks 0..Config.ChunkCount-1 with process. In parallel
// mode chunks are dispatched FIFO to at most Config.Parallelism workers;
// the first failing chunk cancels the rest and its error is returned
// whole (no partial results). The pool never outlives the call.
// Cancelling ctx stops new dispatches; in-flight chunks are not
// interrupted but their results are discarded by the caller receiving
// the context error.
func (s *Scheduler) Run(ctx context.Context, process ProcessFunc) error {
	total := s.Config.ChunkCount
	if total <= 0 {
		return nil
	}
	s.mu.Lock()
	s.completed = 0
	s.fractions = make([]float64, total)
	s.totalDur = 0
	s.mu.Unlock()

	if s.Config.Strategy == Parallel && s.Config.Parallelism > 1 {
		return s.runParallel(ctx, process)
	}
	return s.runSequential(ctx, process)
}

func (s *Scheduler) runSequential(ctx context.Context, process ProcessFunc) error {
	for i := 0; i < s.Config.ChunkCount; i++ {
		// Yield point between chunks: a cancelled run stops issuing
		// work here.
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := process(ctx, i, s.reporter(i)); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		s.chunkDone(i, time.Since(start))
	}
	return nil
}

func (s *Scheduler) runParallel(ctx context.Context, process ProcessFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.Parallelism)

	for i := 0; i < s.Config.ChunkCount; i++ {
		if gctx.Err() != nil {
			break // a failed chunk already cancelled the run
		}
		chunk := i
		g.Go(func() error {
			start := time.Now()
			if err := process(gctx, chunk, s.reporter(chunk)); err != nil {
				return fmt.Errorf("chunk %d: %w", chunk, err)
			}
			s.chunkDone(chunk, time.Since(start))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// reporter returns the per-chunk progress callback. Fractions are
// clamped to [0, 1] and never move backwards, so aggregate progress is
// monotonically non-decreasing per chunk.
func (s *Scheduler) reporter(chunk int) func(float64) {
	return func(f float64) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		s.mu.Lock()
		if f > s.fractions[chunk] {
			s.fractions[chunk] = f
		}
		s.notifyLocked()
		s.mu.Unlock()
	}
}

func (s *Scheduler) chunkDone(chunk int, elapsed time.Duration) {
	s.mu.Lock()
	s.fractions[chunk] = 1
	s.completed++
	s.totalDur += elapsed
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Scheduler) notifyLocked() {
	if s.OnProgress == nil {
		return
	}
	var sum float64
	for _, f := range s.fractions {
		sum += f
	}
	percent := int(sum * 100 / float64(len(s.fractions)))
	if percent > 100 {
		percent = 100
	}
	if percent > s.lastPercent {
		s.lastPercent = percent
		s.OnProgress(percent)
	}
}

// AvgChunkDuration is the rolling average duration of completed chunks,
// or zero before the first completion. Feeds ETA display.
func (s *Scheduler) AvgChunkDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed == 0 {
		return 0
	}
	return s.totalDur / time.Duration(s.completed)
}

// ETA estimates the remaining run time from the rolling average.
func (s *Scheduler) ETA() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed == 0 {
		return 0
	}
	avg := s.totalDur / time.Duration(s.completed)
	remaining := s.Config.ChunkCount - s.completed
	if remaining < 0 {
		remaining = 0
	}
	eta := avg * time.Duration(remaining)
	if s.Config.Strategy == Parallel && s.Config.Parallelism > 0 {
		eta /= time.Duration(s.Config.Parallelism)
	}
	return eta
}
