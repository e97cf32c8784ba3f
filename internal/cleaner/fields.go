package cleaner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
)

// Field cleaners take one raw cell value and return the cleaned value,
// whether it parsed (ok), whether cleaning changed it (modified), and
// any warnings. Failures never abort a run; the row cleaner decides what
// a missing value means for the row.

// amountSanityLimit flags absurd magnitudes that usually mean a mangled
// cell, not a real sale.
var amountSanityLimit = decimal.NewFromInt(100_000_000)

var (
	currencyStrip = strings.NewReplacer(
		"$", "", "€", "", "£", "", "¥", "",
		",", "", "'", "", "\"", "", " ", "",
	)
	parenthesized = regexp.MustCompile(`^\((.+)\)$`)
	numericCell   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	twoLetters    = regexp.MustCompile(`^[A-Z]{2}$`)
	wordSplit     = regexp.MustCompile(`\s+`)
)

// Currency parses a currency cell: strips symbols, thousands separators
// and quotes, and converts a parenthesized value (X) to -X first.
func Currency(raw string) (decimal.Decimal, bool, bool, []string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false, false, []string{"empty amount"}
	}

	s := trimmed
	if m := parenthesized.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}
	s = currencyStrip.Replace(s)

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, false, []string{fmt.Sprintf("unparsable amount %q", raw)}
	}

	var warnings []string
	if value.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("negative amount %s", value))
	}
	if value.Abs().GreaterThan(amountSanityLimit) {
		warnings = append(warnings, fmt.Sprintf("amount %s exceeds sanity limit", value))
	}

	return value, true, s != trimmed, warnings
}

// serialEpoch is the spreadsheet serial-date epoch (1899-12-30); the
// Unix epoch falls on serial day 25569.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerialDay corresponds to 9999-12-31.
const maxSerialDay = 2958465

var genericDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Date parses a date cell. Numeric values are treated as spreadsheet
// serial day counts. String values try US month-first layouts, then a
// day-first reading when the first component cannot be a month, then
// generic calendar layouts. The result is a UTC calendar date.
func Date(raw string) (time.Time, bool, bool, []string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false, false, []string{"empty date"}
	}

	if numericCell.MatchString(trimmed) {
		serial, err := strconv.ParseFloat(trimmed, 64)
		if err == nil && serial >= 1 && serial <= maxSerialDay {
			d := serialEpoch.AddDate(0, 0, int(serial))
			return d, true, true, nil
		}
		return time.Time{}, false, false, []string{fmt.Sprintf("numeric date %q out of serial range", raw)}
	}

	if d, ok := parseSeparatedDate(trimmed); ok {
		modified := trimmed != d.Format("2006-01-02")
		return d, true, modified, nil
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return d, true, trimmed != d.Format("2006-01-02"), nil
		}
	}

	return time.Time{}, false, false, []string{fmt.Sprintf("unparsable date %q", raw)}
}

// parseSeparatedDate handles MM/DD/YYYY, MM-DD-YYYY and their 2-digit
// year forms, falling back to DD/MM when the first component is > 12.
// Two-digit years below 50 read as 20xx, the rest as 19xx.
func parseSeparatedDate(s string) (time.Time, bool) {
	sep := "/"
	if !strings.Contains(s, "/") {
		if !strings.Contains(s, "-") {
			return time.Time{}, false
		}
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	year := nums[2]
	switch {
	case year < 50:
		year += 2000
	case year < 100:
		year += 1900
	}

	// Month-first unless the first component rules itself out.
	month, day := nums[0], nums[1]
	if month > 12 && day <= 12 {
		month, day = day, month
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false // e.g. Feb 30 normalized away
	}
	return d, true
}

// State normalizes a jurisdiction cell to a 2-letter code: exact code,
// then the full-name table, then a unique prefix of a full name, then
// common abbreviations. Ambiguous prefixes are rejected, not guessed.
func State(raw string) (string, bool, bool, []string) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", false, false, []string{"empty state"}
	}

	if twoLetters.MatchString(trimmed) {
		return trimmed, true, trimmed != raw, nil
	}

	if code, ok := rules.StateNames[trimmed]; ok {
		return code, true, true, nil
	}

	var prefixMatches []string
	for name, code := range rules.StateNames {
		if strings.HasPrefix(name, trimmed) {
			prefixMatches = append(prefixMatches, code)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0], true, true, nil
	}
	if len(prefixMatches) > 1 {
		return "", false, false, []string{fmt.Sprintf("ambiguous state %q", raw)}
	}

	abbrev := strings.TrimRight(trimmed, ".")
	if code, ok := rules.Abbreviations[abbrev]; ok {
		return code, true, true, nil
	}

	return "", false, false, []string{fmt.Sprintf("unrecognized state %q", raw)}
}

// Count parses a transaction-count cell. A transaction with no usable
// count is assumed singular, never zero.
func Count(raw string) (int, bool, []string) {
	trimmed := strings.TrimSpace(raw)
	s := strings.NewReplacer(",", "", " ", "", "'", "").Replace(trimmed)
	if s == "" {
		return 1, true, []string{"empty transaction count, assuming 1"}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 1, true, []string{fmt.Sprintf("unparsable transaction count %q, assuming 1", raw)}
	}
	if n <= 0 {
		return 1, true, []string{fmt.Sprintf("non-positive transaction count %d, assuming 1", n)}
	}
	return n, s != trimmed, nil
}

// Text trims and collapses internal whitespace in a free-text cell
// (city, county, postal code, address). Empty becomes absent.
func Text(raw string) (string, bool, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false, trimmed != raw
	}
	collapsed := wordSplit.ReplaceAllString(trimmed, " ")
	return collapsed, true, collapsed != raw
}
