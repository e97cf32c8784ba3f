package nexus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
)

// ErrNoRecords is returned when analysis is asked to run on an empty
// record set.
var ErrNoRecords = errors.New("no transaction records to analyze")

// Options selects the analysis mode and filters.
type Options struct {
	Mode model.Mode
	// AnalysisYear is required for ModeSingleYear.
	AnalysisYear int
	// YearStart/YearEnd bound the range for the multi-year modes.
	YearStart int
	YearEnd   int
	// IgnoreMarketplace drops marketplace-facilitator records before
	// grouping.
	IgnoreMarketplace bool
	// IncludeNegativeAmounts keeps returns/refunds in the scan.
	IncludeNegativeAmounts bool
}

func (o Options) validate() error {
	switch o.Mode {
	case model.ModeSingleYear:
		if o.AnalysisYear == 0 {
			return errors.New("singleYear mode requires an analysis year")
		}
	case model.ModeMultiYearEstimate, model.ModeMultiYearExact:
		if o.YearStart == 0 || o.YearEnd == 0 {
			return fmt.Errorf("%s mode requires a year range", o.Mode)
		}
		if o.YearEnd < o.YearStart {
			return fmt.Errorf("year range %d-%d is inverted", o.YearStart, o.YearEnd)
		}
	default:
		return fmt.Errorf("unknown analysis mode %q", o.Mode)
	}
	return nil
}

// Engine determines economic nexus per state from cleaned records.
type Engine struct {
	table *rules.Table
}

// New creates an engine over a rule table.
func New(table *rules.Table) *Engine {
	return &Engine{table: table}
}

// Analyze runs the selected analysis mode over cleaned records.
// Configuration problems and an empty record set fail immediately;
// filtered-out record categories are reported as aggregate warnings.
func (e *Engine) Analyze(ctx context.Context, records []model.TransactionRecord, opts Options) (*model.AnalysisResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	filtered, warnings := e.filter(records, opts)

	result := &model.AnalysisResult{
		Warnings:      warnings,
		RowsProcessed: len(filtered),
	}

	switch opts.Mode {
	case model.ModeSingleYear:
		result.NexusResults = e.analyzeYear(filtered, opts.AnalysisYear, false)
		result.StateStats = stats(yearRecords(filtered, opts.AnalysisYear))

	case model.ModeMultiYearEstimate:
		year, nexusResults := e.analyzeRange(filtered, opts)
		result.NexusResults = nexusResults
		result.StateStats = stats(yearRecords(filtered, year))
		result.Warnings = append(result.Warnings,
			"multi-year estimate: first breaching year reported without historical rule reconciliation")

	case model.ModeMultiYearExact:
		// Declared but not implemented: exact mode would need
		// year-specific rule versions.
		result.NexusResults = e.zeroResults(opts.YearEnd)
		result.StateStats = stats(filtered)
		result.Warnings = append(result.Warnings,
			"multiYearExact mode is not implemented; reporting no nexus")
	}

	for _, r := range result.NexusResults {
		result.TotalLiability = result.TotalLiability.Add(r.EstimatedLiability)
	}
	result.ProcessingTime = time.Since(start)

	return result, nil
}

// filter applies the pre-grouping drops. Each drop category surfaces as
// one aggregate warning, never one warning per row.
func (e *Engine) filter(records []model.TransactionRecord, opts Options) ([]model.TransactionRecord, []string) {
	var warnings []string
	marketplace, negative, unknown := 0, 0, 0

	filtered := make([]model.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if opts.IgnoreMarketplace && rec.Revenue == model.RevenueMarketplace {
			marketplace++
			continue
		}
		if !opts.IncludeNegativeAmounts && rec.Amount.IsNegative() {
			negative++
			continue
		}
		if !e.table.Known(rec.StateCode) {
			unknown++
			continue
		}
		filtered = append(filtered, rec)
	}

	if marketplace > 0 {
		warnings = append(warnings, fmt.Sprintf("filtered out %d marketplace transactions", marketplace))
	}
	if negative > 0 {
		warnings = append(warnings, fmt.Sprintf("filtered out %d negative-amount transactions", negative))
	}
	if unknown > 0 {
		warnings = append(warnings, fmt.Sprintf("filtered out %d transactions with unknown jurisdictions", unknown))
	}

	return filtered, warnings
}

// analyzeYear runs the cumulative scan for every state over one
// calendar year. States with rules but no matching records still
// produce a zero result so reporting can show the complete list.
func (e *Engine) analyzeYear(records []model.TransactionRecord, year int, estimate bool) []model.NexusResult {
	inYear := yearRecords(records, year)

	byState := make(map[string][]model.TransactionRecord)
	for _, rec := range inYear {
		byState[rec.StateCode] = append(byState[rec.StateCode], rec)
	}

	var results []model.NexusResult
	seen := make(map[string]bool)

	for code, stateRecs := range byState {
		rule, ok := e.table.RuleFor(code)
		if !ok {
			continue
		}
		sortRecords(stateRecs)
		results = append(results, e.stateResult(code, stateRecs, rule, year, estimate))
		seen[code] = true
	}

	for _, rule := range e.table.Current() {
		if !seen[rule.StateCode] {
			results = append(results, e.emptyResult(rule, year, estimate))
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].StateCode < results[j].StateCode })
	return results
}

// analyzeRange scans each year ascending and returns on the first year
// with any breach; otherwise it reports the most recent year in range,
// clamped to the current year.
func (e *Engine) analyzeRange(records []model.TransactionRecord, opts Options) (int, []model.NexusResult) {
	for year := opts.YearStart; year <= opts.YearEnd; year++ {
		results := e.analyzeYear(records, year, true)
		for _, r := range results {
			if r.HasNexus {
				return year, results
			}
		}
	}

	last := opts.YearEnd
	if now := time.Now().Year(); last > now {
		last = now
	}
	return last, e.analyzeYear(records, last, true)
}

func (e *Engine) stateResult(code string, sorted []model.TransactionRecord, rule rules.Rule, year int, estimate bool) model.NexusResult {
	breach := scan(sorted, rule)
	rate := e.table.CombinedRate(code)

	result := model.NexusResult{
		StateCode:             code,
		HasNexus:              breach.BreachIndex >= 0,
		TotalRevenue:          breach.TotalRevenue,
		TotalTransactions:     breach.TotalTransactions,
		ThresholdRevenue:      rule.Amount,
		ThresholdTransactions: rule.Transactions,
		BreachType:            breach.BreachType,
		ThresholdPercentage:   thresholdPercentage(breach, rule),
		TaxRate:               rate,
		EstimatedLiability:    decimal.Zero,
		AnalysisYear:          year,
		Estimate:              estimate,
	}

	if breach.BreachIndex >= 0 {
		trigger := sorted[breach.BreachIndex]
		result.BreachDate = trigger.Date
		result.BreachTransactionID = trigger.ID

		// Liability accrues on revenue from the breach record onward.
		postNexus := decimal.Zero
		for _, rec := range sorted[breach.BreachIndex:] {
			postNexus = postNexus.Add(rec.Amount)
		}
		result.EstimatedLiability = postNexus.Mul(rate).Div(decimal.NewFromInt(100))
	}

	return result
}

func (e *Engine) emptyResult(rule rules.Rule, year int, estimate bool) model.NexusResult {
	return model.NexusResult{
		StateCode:             rule.StateCode,
		TotalRevenue:          decimal.Zero,
		ThresholdRevenue:      rule.Amount,
		ThresholdTransactions: rule.Transactions,
		BreachType:            model.BreachNone,
		ThresholdPercentage:   decimal.Zero,
		TaxRate:               e.table.CombinedRate(rule.StateCode),
		EstimatedLiability:    decimal.Zero,
		AnalysisYear:          year,
		Estimate:              estimate,
	}
}

func (e *Engine) zeroResults(year int) []model.NexusResult {
	var results []model.NexusResult
	for _, rule := range e.table.Current() {
		results = append(results, e.emptyResult(rule, year, false))
	}
	return results
}

// yearRecords filters records to one calendar year.
func yearRecords(records []model.TransactionRecord, year int) []model.TransactionRecord {
	out := make([]model.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.Year() == year {
			out = append(out, rec)
		}
	}
	return out
}

// stats summarizes the filtered records per state, before rules apply.
func stats(records []model.TransactionRecord) []model.StateStats {
	byState := make(map[string]*model.StateStats)
	for _, rec := range records {
		s, ok := byState[rec.StateCode]
		if !ok {
			s = &model.StateStats{StateCode: rec.StateCode, Revenue: decimal.Zero}
			byState[rec.StateCode] = s
		}
		s.Records++
		s.Revenue = s.Revenue.Add(rec.Amount)
		if s.FirstSale.IsZero() || rec.Date.Before(s.FirstSale) {
			s.FirstSale = rec.Date
		}
		if rec.Date.After(s.LastSale) {
			s.LastSale = rec.Date
		}
		if rec.Amount.IsNegative() {
			s.NegativeRows++
		}
	}

	out := make([]model.StateStats, 0, len(byState))
	for _, s := range byState {
		if s.Records > 0 {
			s.AvgSale = s.Revenue.Div(decimal.NewFromInt(int64(s.Records)))
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateCode < out[j].StateCode })
	return out
}
