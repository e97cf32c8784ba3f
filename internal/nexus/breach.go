package nexus

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
)

// sortRecords orders a state's records by (date, id) ascending. The id
// tie-break makes the order independent of load order, which the
// cumulative scan depends on for deterministic breach detection.
func sortRecords(records []model.TransactionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].ID < records[j].ID
	})
}

// scan walks records in sorted order, accumulating revenue and count,
// and stops at the first record where a threshold is met or exceeded.
// The revenue threshold is checked before the transaction threshold at
// every step. A state with no revenue threshold (0) cannot breach.
func scan(records []model.TransactionRecord, rule rules.Rule) model.BreachResult {
	result := model.BreachResult{
		TotalRevenue: decimal.Zero,
		BreachIndex:  -1,
		BreachType:   model.BreachNone,
	}

	if rule.Amount.IsZero() {
		for _, rec := range records {
			result.TotalRevenue = result.TotalRevenue.Add(rec.Amount)
			result.TotalTransactions++
		}
		return result
	}

	for i, rec := range records {
		result.TotalRevenue = result.TotalRevenue.Add(rec.Amount)
		result.TotalTransactions++

		if result.TotalRevenue.GreaterThanOrEqual(rule.Amount) {
			result.BreachIndex = i
			result.BreachType = model.BreachRevenue
			break
		}
		if rule.Transactions > 0 && result.TotalTransactions >= rule.Transactions {
			result.BreachIndex = i
			result.BreachType = model.BreachTransactions
			break
		}
	}

	return result
}

// thresholdPercentage reports proximity to the nearer threshold:
// max(revenue %, transaction %), or zero when the state has no revenue
// threshold.
func thresholdPercentage(b model.BreachResult, rule rules.Rule) decimal.Decimal {
	if rule.Amount.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	pct := b.TotalRevenue.Div(rule.Amount).Mul(hundred)
	if rule.Transactions > 0 {
		txnPct := decimal.NewFromInt(int64(b.TotalTransactions)).
			Div(decimal.NewFromInt(int64(rule.Transactions))).
			Mul(hundred)
		if txnPct.GreaterThan(pct) {
			pct = txnPct
		}
	}
	return pct
}
