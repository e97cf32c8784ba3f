package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one spreadsheet row as produced by a file parser:
// arbitrary header name -> raw cell value. Values are kept as strings;
// all interpretation happens in the cleaner.
type RawRow map[string]string

// RevenueType classifies a sale for nexus purposes.
type RevenueType string

const (
	RevenueTaxable     RevenueType = "taxable"
	RevenueNontaxable  RevenueType = "nontaxable"
	RevenueMarketplace RevenueType = "marketplace"
)

// TransactionRecord is one normalized sale. Records are immutable once
// produced by the cleaner.
type TransactionRecord struct {
	ID        string
	StateCode string          // 2-letter jurisdiction code, always upper case
	Amount    decimal.Decimal // signed; negative = return/refund
	Date      time.Time       // calendar date, UTC
	Count     int             // transaction count, >= 1
	Revenue   RevenueType     // empty when the source had no revenue_type column

	// Extra holds source columns the detector did not map, passed through
	// verbatim under their original header names.
	Extra map[string]string
}
