package columns

import (
	"strings"
)

// conflictOverride forces a fixed score for a pair of tokens that look
// alike but mean different things. Matching is symmetric and applied
// after the exact-match rules, so "county" against "county" still scores
// 100 while "county" against "count" is pinned low instead of
// fuzzy-matching across fields.
type conflictOverride struct {
	a, b  string
	score int
}

var conflictOverrides = []conflictOverride{
	{a: "county", b: "count", score: 30},
	{a: "county", b: "transaction count", score: 30},
	{a: "county", b: "number of transactions", score: 30},
}

// Score rates how closely a raw header matches a canonical field variant,
// from 0 (unrelated) to 100 (exact). Comparison is case-insensitive and
// ignores the separator style of the source spreadsheet.
func Score(header, variant string) int {
	h := normalize(header)
	v := normalize(variant)
	if h == "" || v == "" {
		return 0
	}

	if h == v {
		return 100
	}
	if stripSeparators(h) == stripSeparators(v) {
		return 95
	}

	for _, o := range conflictOverrides {
		if (h == o.a && v == o.b) || (h == o.b && v == o.a) {
			return o.score
		}
	}

	if containsAllWords(h, v) {
		return 90
	}

	if strings.Contains(h, v) || strings.Contains(v, h) {
		score := charMatch(h, v) + 20
		if score < 70 {
			score = 70
		}
		if score > 100 {
			score = 100
		}
		return score
	}

	return charMatch(h, v)
}

// normalize lowercases and collapses separator runs to single spaces.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastSep := false
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '\t' {
			if !lastSep && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSep = true
			continue
		}
		b.WriteRune(r)
		lastSep = false
	}
	return strings.TrimRight(b.String(), " ")
}

func stripSeparators(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// containsAllWords reports whether every word of variant appears as a
// whole word in header.
func containsAllWords(header, variant string) bool {
	headerWords := strings.Fields(header)
	set := make(map[string]bool, len(headerWords))
	for _, w := range headerWords {
		set[w] = true
	}
	variantWords := strings.Fields(variant)
	if len(variantWords) == 0 {
		return false
	}
	for _, w := range variantWords {
		if !set[w] {
			return false
		}
	}
	return true
}

// charMatch is the percentage of positions with identical characters,
// measured over the longer string.
func charMatch(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 0
	}
	shorter := len(ra)
	if len(rb) < shorter {
		shorter = len(rb)
	}
	matches := 0
	for i := 0; i < shorter; i++ {
		if ra[i] == rb[i] {
			matches++
		}
	}
	return matches * 100 / longer
}
