package nexus

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
)

func day(d int) time.Time {
	return time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC)
}

func rec(id string, d time.Time, amount string) model.TransactionRecord {
	return model.TransactionRecord{
		ID:     id,
		Date:   d,
		Amount: decimal.RequireFromString(amount),
		Count:  1,
	}
}

func TestSortRecords_DateThenID(t *testing.T) {
	records := []model.TransactionRecord{
		rec("b", day(2), "10"),
		rec("a", day(2), "10"),
		rec("z", day(1), "10"),
	}
	sortRecords(records)

	assert.Equal(t, "z", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "b", records[2].ID)
}

func TestScan_RevenueBreach(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(250), Transactions: 200}
	records := []model.TransactionRecord{
		rec("t1", day(1), "100"),
		rec("t2", day(2), "100"),
		rec("t3", day(3), "100"),
		rec("t4", day(4), "100"),
	}

	b := scan(records, rule)
	assert.Equal(t, 2, b.BreachIndex)
	assert.Equal(t, model.BreachRevenue, b.BreachType)
	// Totals stop at the breaching record.
	assert.Equal(t, "300", b.TotalRevenue.String())
	assert.Equal(t, 3, b.TotalTransactions)
}

func TestScan_TransactionBreach(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(100000), Transactions: 3}
	records := []model.TransactionRecord{
		rec("t1", day(1), "10"),
		rec("t2", day(2), "10"),
		rec("t3", day(3), "10"),
		rec("t4", day(4), "10"),
	}

	b := scan(records, rule)
	assert.Equal(t, 2, b.BreachIndex)
	assert.Equal(t, model.BreachTransactions, b.BreachType)
	assert.Equal(t, 3, b.TotalTransactions)
}

func TestScan_RevenueCheckedFirst(t *testing.T) {
	// A single record that crosses both thresholds at once reports a
	// revenue breach.
	rule := rules.Rule{Amount: decimal.NewFromInt(50), Transactions: 1}
	records := []model.TransactionRecord{rec("t1", day(1), "60")}

	b := scan(records, rule)
	assert.Equal(t, model.BreachRevenue, b.BreachType)
}

func TestScan_NoBreach(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(100000), Transactions: 200}
	records := []model.TransactionRecord{
		rec("t1", day(1), "500"),
		rec("t2", day(2), "250.50"),
	}

	b := scan(records, rule)
	assert.Equal(t, -1, b.BreachIndex)
	assert.Equal(t, model.BreachNone, b.BreachType)
	assert.Equal(t, "750.5", b.TotalRevenue.String())
	assert.Equal(t, 2, b.TotalTransactions)
}

func TestScan_NoSalesTaxStateNeverBreaches(t *testing.T) {
	rule := rules.Rule{Amount: decimal.Zero}
	records := []model.TransactionRecord{
		rec("t1", day(1), "900000"),
		rec("t2", day(2), "900000"),
	}

	b := scan(records, rule)
	assert.Equal(t, -1, b.BreachIndex)
	assert.Equal(t, model.BreachNone, b.BreachType)
	assert.Equal(t, "1800000", b.TotalRevenue.String())
}

func TestScan_OrderIndependent(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(250)}
	base := []model.TransactionRecord{
		rec("t1", day(1), "100"),
		rec("t2", day(2), "100"),
		rec("t3", day(3), "100"),
	}
	shuffled := []model.TransactionRecord{base[2], base[0], base[1]}

	sortRecords(shuffled)
	b := scan(shuffled, rule)
	require.Equal(t, 2, b.BreachIndex)
	assert.Equal(t, "t3", shuffled[b.BreachIndex].ID)
}

func TestScan_SyntheticBreachAtKnownRecord(t *testing.T) {
	// 99 records of $1,000 then one of $2,000: cumulative revenue crosses
	// $100,000 exactly at the 100th record.
	rule := rules.Rule{Amount: decimal.NewFromInt(100000), Transactions: 200}
	var records []model.TransactionRecord
	for i := 0; i < 99; i++ {
		records = append(records, rec(fmt.Sprintf("t%03d", i), day(i%28+1), "1000"))
	}
	records = append(records, rec("t999", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), "2000"))
	sortRecords(records)

	b := scan(records, rule)
	require.Equal(t, 99, b.BreachIndex)
	assert.Equal(t, "t999", records[b.BreachIndex].ID)
	assert.Equal(t, model.BreachRevenue, b.BreachType)
	assert.Equal(t, "101000", b.TotalRevenue.String())
}

func TestThresholdPercentage_MaxOfBoth(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(100000), Transactions: 200}

	b := model.BreachResult{
		TotalRevenue:      decimal.NewFromInt(50000),
		TotalTransactions: 180,
	}
	// 50% revenue vs 90% transactions.
	assert.Equal(t, "90", thresholdPercentage(b, rule).String())

	b.TotalRevenue = decimal.NewFromInt(95000)
	b.TotalTransactions = 20
	assert.Equal(t, "95", thresholdPercentage(b, rule).String())
}

func TestThresholdPercentage_NoTransactionThreshold(t *testing.T) {
	rule := rules.Rule{Amount: decimal.NewFromInt(500000)}
	b := model.BreachResult{TotalRevenue: decimal.NewFromInt(250000), TotalTransactions: 100000}

	assert.Equal(t, "50", thresholdPercentage(b, rule).String())
}

func TestThresholdPercentage_NoSalesTaxState(t *testing.T) {
	rule := rules.Rule{Amount: decimal.Zero}
	b := model.BreachResult{TotalRevenue: decimal.NewFromInt(999999)}

	assert.True(t, thresholdPercentage(b, rule).IsZero())
}
