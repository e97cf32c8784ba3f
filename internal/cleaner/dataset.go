package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexuscheck-dev/nexuscheck/internal/chunk"
	"github.com/nexuscheck-dev/nexuscheck/internal/columns"
	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

// ErrEmptyDataset is returned when a dataset has no rows at all.
var ErrEmptyDataset = errors.New("dataset contains no rows")

// SchemaError reports required semantic fields that could not be mapped.
// It is fatal: cleaning never starts on a dataset with unusable schema.
type SchemaError struct {
	Missing []columns.Field
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "required columns not found: " + strings.Join(names, ", ")
}

// Report summarizes one dataset cleaning pass.
type Report struct {
	RowsIn      int
	RowsKept    int
	RowsDropped int
	// Modifications counts cleaned values per category (currency, date,
	// state, count, text).
	Modifications map[string]int
	Warnings      []RowWarning
}

// Options tunes how a dataset cleaning run is partitioned and observed.
type Options struct {
	// ParallelAvailable and HostParallelism feed the chunk partitioner.
	ParallelAvailable bool
	HostParallelism   int
	// MemoryScale feeds the partitioner (1 = neutral).
	MemoryScale float64
	// OnProgress receives 0-100 aggregate progress. Optional.
	OnProgress chunk.ProgressFunc
}

// Dataset cleans raw rows into transaction records using the detected
// column mapping. Large datasets are partitioned and may run on a
// worker pool; the returned record order always matches the input row
// order regardless of completion order. A dataset whose required
// columns are unmapped, or with zero rows, fails before any cleaning.
func Dataset(ctx context.Context, rows []model.RawRow, m *columns.Mapping, opts Options) ([]model.TransactionRecord, *Report, error) {
	if len(rows) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if missing := m.MissingRequired(); len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	cfg := chunk.Plan(chunk.PlanInput{
		Records:           len(rows),
		Complexity:        complexityOf(rows),
		MemoryScale:       opts.MemoryScale,
		ParallelAvailable: opts.ParallelAvailable,
		HostParallelism:   opts.HostParallelism,
	})

	outcomes := make([]Outcome, len(rows))
	sched := chunk.NewScheduler(cfg, opts.OnProgress)

	err := sched.Run(ctx, func(ctx context.Context, c int, report func(float64)) error {
		start, end := cfg.Bounds(c, len(rows))
		for i := start; i < end; i++ {
			outcomes[i] = Row(rows[i], m, i)
			if done := i - start + 1; done%500 == 0 {
				report(float64(done) / float64(end-start))
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cleaning dataset: %w", err)
	}

	report := &Report{
		RowsIn:        len(rows),
		Modifications: make(map[string]int),
	}
	records := make([]model.TransactionRecord, 0, len(rows))
	for i, out := range outcomes {
		for _, w := range out.Warnings {
			report.Warnings = append(report.Warnings, RowWarning{Row: i, Message: w})
		}
		for category, n := range out.Modifications {
			report.Modifications[category] += n
		}
		if out.OK {
			records = append(records, out.Record)
		} else {
			report.RowsDropped++
		}
	}
	report.RowsKept = len(records)

	return records, report, nil
}

// complexityOf estimates per-row cost from the first row's shape.
func complexityOf(rows []model.RawRow) float64 {
	if len(rows) == 0 {
		return 1
	}
	first := rows[0]
	if len(first) == 0 {
		return 1
	}
	total := 0
	for _, v := range first {
		total += len(v)
	}
	return chunk.Complexity(len(first), float64(total)/float64(len(first)))
}
