package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_ExactMatch(t *testing.T) {
	assert.Equal(t, 100, Score("state", "state"))
	assert.Equal(t, 100, Score("STATE", "state"))
	assert.Equal(t, 100, Score("  State  ", "state"))
}

func TestScore_SeparatorInsensitive(t *testing.T) {
	// "Transaction Date" and "transaction_date" differ only in separator
	// style, which normalization unifies.
	assert.Equal(t, 100, Score("Transaction Date", "transaction_date"))
	assert.Equal(t, 100, Score("transaction-date", "transaction_date"))
}

func TestScore_SeparatorStripped(t *testing.T) {
	// Same letters once separators are removed entirely.
	assert.Equal(t, 95, Score("zipcode", "zip code"))
}

func TestScore_WholeWords(t *testing.T) {
	assert.Equal(t, 90, Score("Sales Amount ($)", "sales_amount"))
	assert.Equal(t, 90, Score("Ship To State Code", "state_code"))
}

func TestScore_Substring(t *testing.T) {
	score := Score("statecode", "state")
	assert.GreaterOrEqual(t, score, 70)
	assert.LessOrEqual(t, score, 100)
}

func TestScore_Unrelated(t *testing.T) {
	assert.Less(t, Score("customer_email", "amount"), 30)
}

func TestScore_Empty(t *testing.T) {
	assert.Equal(t, 0, Score("", "state"))
	assert.Equal(t, 0, Score("state", ""))
}

func TestScore_CountyCountConflict(t *testing.T) {
	// "county" contains "count" as a substring and would otherwise score
	// at least 70; the override pins it low in both directions.
	assert.Equal(t, 30, Score("County", "count"))
	assert.Equal(t, 30, Score("count", "county"))
	assert.Equal(t, 30, Score("county", "transaction_count"))
}

func TestScore_CountyExactStillWins(t *testing.T) {
	assert.Equal(t, 100, Score("County", "county"))
}
