package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	table, err := LoadDefault()
	require.NoError(t, err)

	assert.NotEmpty(t, table.Version)
	assert.False(t, table.LastUpdated.IsZero())

	current := table.Current()
	assert.GreaterOrEqual(t, len(current), 50)

	ca, ok := table.RuleFor("CA")
	require.True(t, ok)
	assert.Equal(t, "500000", ca.Amount.String())
	assert.Equal(t, 0, ca.Transactions)
	assert.Equal(t, "CA-2019-04", ca.RuleID)

	ny, ok := table.RuleFor("NY")
	require.True(t, ok)
	assert.Equal(t, 100, ny.Transactions)

	or, ok := table.RuleFor("OR")
	require.True(t, ok)
	assert.True(t, or.Amount.IsZero())
}

func TestLoadDefault_Rates(t *testing.T) {
	table, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "8.85", table.CombinedRate("CA").StringFixed(2))
	assert.True(t, table.CombinedRate("ZZ").IsZero())

	rate, ok := table.RateFor("TX")
	require.True(t, ok)
	assert.Equal(t, "6.25", rate.StateRate.StringFixed(2))
}

func TestKnown(t *testing.T) {
	table, err := LoadDefault()
	require.NoError(t, err)

	assert.True(t, table.Known("CA"))
	assert.True(t, table.Known("DC"))
	assert.False(t, table.Known("ZZ"))
	assert.False(t, table.Known("ca"))
}

func TestCurrent_Sorted(t *testing.T) {
	table, err := LoadDefault()
	require.NoError(t, err)

	current := table.Current()
	for i := 1; i < len(current); i++ {
		assert.Less(t, current[i-1].StateCode, current[i].StateCode)
	}
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validHeader = "version: \"1.0\"\nlast_updated: \"2025-01-01\"\nsource: test\nstates:\n"

func TestLoad_CustomRules(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CA:\n    amount: 750000\n    transactions: 0\n    effective_date: \"2025-01-01\"\n    rule_id: \"CA-2025-01\"\n")

	table, err := Load(path, "")
	require.NoError(t, err)

	ca, ok := table.RuleFor("CA")
	require.True(t, ok)
	assert.Equal(t, "750000", ca.Amount.String())
	// Rates fall back to the embedded table.
	assert.False(t, table.CombinedRate("CA").IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
}

func TestLoad_InvalidRuleID(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CA:\n    amount: 500000\n    effective_date: \"2019-04-01\"\n    rule_id: \"california-2019\"\n")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rule id")
}

func TestLoad_InvalidStateCode(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CAL:\n    amount: 500000\n    effective_date: \"2019-04-01\"\n    rule_id: \"CA-2019-04\"\n")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid state code")
}

func TestLoad_NegativeThreshold(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CA:\n    amount: -1\n    effective_date: \"2019-04-01\"\n    rule_id: \"CA-2019-04\"\n")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative revenue threshold")
}

func TestLoad_EndDateBeforeEffective(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CA:\n    amount: 500000\n    effective_date: \"2019-04-01\"\n    end_date: \"2019-01-01\"\n    rule_id: \"CA-2019-04\"\n")

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not after effective date")
}

func TestRuleFor_ExpiredRule(t *testing.T) {
	path := writeRules(t, validHeader+
		"  CA:\n    amount: 500000\n    effective_date: \"2019-04-01\"\n    end_date: \"2020-01-01\"\n    rule_id: \"CA-2019-04\"\n")

	table, err := Load(path, "")
	require.NoError(t, err)

	_, ok := table.RuleFor("CA")
	assert.False(t, ok)
	// Still a known jurisdiction, just without a current rule.
	assert.True(t, table.Known("CA"))
	assert.Empty(t, table.Current())
}

func TestStateNames_CoverAllRuledStates(t *testing.T) {
	table, err := LoadDefault()
	require.NoError(t, err)

	codes := make(map[string]bool)
	for _, code := range StateNames {
		codes[code] = true
	}
	for _, rule := range table.Current() {
		assert.True(t, codes[rule.StateCode], "no full name for %s", rule.StateCode)
	}
}
