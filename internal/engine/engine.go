// Package engine is the public surface of the analyzer: column
// detection, dataset cleaning and nexus analysis behind one type.
package engine

import (
	"context"
	"runtime"

	"github.com/nexuscheck-dev/nexuscheck/internal/chunk"
	"github.com/nexuscheck-dev/nexuscheck/internal/cleaner"
	"github.com/nexuscheck-dev/nexuscheck/internal/columns"
	"github.com/nexuscheck-dev/nexuscheck/internal/model"
	"github.com/nexuscheck-dev/nexuscheck/internal/nexus"
	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
)

// Analyzer wires the cleaning pipeline to the nexus engine.
type Analyzer struct {
	rules *rules.Table
	nexus *nexus.Engine

	// Parallel gates worker-pool cleaning. Off by default; callers that
	// know the host can take it flip it on.
	Parallel bool
	// OnProgress receives 0-100 cleaning progress. Optional.
	OnProgress chunk.ProgressFunc
}

// New creates an analyzer over a rule table.
func New(table *rules.Table) *Analyzer {
	return &Analyzer{
		rules: table,
		nexus: nexus.New(table),
	}
}

// Rules exposes the loaded rule table for reporting commands.
func (a *Analyzer) Rules() *rules.Table { return a.rules }

// DetectColumns maps spreadsheet headers to semantic fields.
func (a *Analyzer) DetectColumns(headers []string) *columns.Mapping {
	return columns.Detect(headers)
}

// CleanDataset converts raw rows into transaction records using a
// detected mapping.
func (a *Analyzer) CleanDataset(ctx context.Context, rows []model.RawRow, m *columns.Mapping) ([]model.TransactionRecord, *cleaner.Report, error) {
	return cleaner.Dataset(ctx, rows, m, cleaner.Options{
		ParallelAvailable: a.Parallel,
		HostParallelism:   runtime.NumCPU(),
		OnProgress:        a.OnProgress,
	})
}

// Analyze runs nexus determination over cleaned records.
func (a *Analyzer) Analyze(ctx context.Context, records []model.TransactionRecord, opts nexus.Options) (*model.AnalysisResult, error) {
	return a.nexus.Analyze(ctx, records, opts)
}

// Run is the full pipeline: detect, clean, analyze. Row-level cleaning
// warnings are folded into the result warnings.
func (a *Analyzer) Run(ctx context.Context, headers []string, rows []model.RawRow, opts nexus.Options) (*model.AnalysisResult, *cleaner.Report, error) {
	m := a.DetectColumns(headers)

	records, report, err := a.CleanDataset(ctx, rows, m)
	if err != nil {
		return nil, nil, err
	}

	result, err := a.Analyze(ctx, records, opts)
	if err != nil {
		return nil, report, err
	}
	return result, report, nil
}
