package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects the analysis strategy.
type Mode string

const (
	// ModeSingleYear analyzes one calendar year.
	ModeSingleYear Mode = "singleYear"
	// ModeMultiYearEstimate scans a year range and reports the first
	// breaching year, without reconciling against historical rule versions.
	ModeMultiYearEstimate Mode = "multiYearEstimate"
	// ModeMultiYearExact is declared but not implemented; runs always
	// report no nexus plus a warning.
	ModeMultiYearExact Mode = "multiYearExact"
)

// BreachType says which threshold triggered a breach.
type BreachType string

const (
	BreachRevenue      BreachType = "revenue"
	BreachTransactions BreachType = "transactions"
	BreachNone         BreachType = "none"
)

// BreachResult is the outcome of one cumulative scan over a state's
// sorted records.
type BreachResult struct {
	TotalRevenue      decimal.Decimal
	TotalTransactions int
	// BreachIndex is the position of the breaching record in (date, id)
	// sort order, or -1 when no threshold was met.
	BreachIndex int
	BreachType  BreachType
}

// NexusResult is the final determination for one state.
type NexusResult struct {
	StateCode             string
	HasNexus              bool
	TotalRevenue          decimal.Decimal
	TotalTransactions     int
	ThresholdRevenue      decimal.Decimal
	ThresholdTransactions int // 0 = state has no transaction threshold
	BreachType            BreachType
	BreachDate            time.Time // zero when no breach
	BreachTransactionID   string
	// ThresholdPercentage is max(revenue %, transaction %) of the
	// thresholds, reported even when no breach occurred.
	ThresholdPercentage decimal.Decimal
	TaxRate             decimal.Decimal // combined state+local rate, percent
	EstimatedLiability  decimal.Decimal
	AnalysisYear        int
	// Estimate marks multi-year results that were not validated against
	// year-specific historical rule versions.
	Estimate bool
}

// StateStats summarizes the records seen for one state before rules are
// applied, for reporting.
type StateStats struct {
	StateCode    string
	Records      int
	Revenue      decimal.Decimal
	FirstSale    time.Time
	LastSale     time.Time
	AvgSale      decimal.Decimal
	NegativeRows int
}

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	NexusResults   []NexusResult
	StateStats     []StateStats
	Warnings       []string
	TotalLiability decimal.Decimal
	ProcessingTime time.Duration
	RowsProcessed  int
}
