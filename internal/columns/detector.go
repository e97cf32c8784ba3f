package columns

import "sort"

// Field is a semantic column in the normalized transaction schema.
type Field string

const (
	FieldState       Field = "state"
	FieldDate        Field = "date"
	FieldAmount      Field = "amount"
	FieldID          Field = "id"
	FieldRevenueType Field = "revenue_type"
	FieldCount       Field = "transaction_count"
	FieldCity        Field = "city"
	FieldCounty      Field = "county"
	FieldZip         Field = "zip_code"
	FieldAddress     Field = "address"
)

// acceptScore is the minimum similarity for a header to be assigned.
const acceptScore = 60

// suggestScore is the minimum similarity for a header to be recorded as
// a suggestion.
const suggestScore = 30

// maxSuggestions caps suggestion headers per field.
const maxSuggestions = 3

// fieldOrder lists semantic fields most-specific first. Detection is
// greedy in this order: once a field claims a header, no later field may
// take it, so the structurally specific fields win ambiguous collisions.
var fieldOrder = []Field{
	FieldState,
	FieldDate,
	FieldAmount,
	FieldID,
	FieldRevenueType,
	FieldCount,
	FieldCity,
	FieldCounty,
	FieldZip,
	FieldAddress,
}

// variants maps each semantic field to the header spellings seen in real
// exports, best-known first.
var variants = map[Field][]string{
	FieldState: {
		"state", "state_code", "st", "jurisdiction", "ship_to_state",
		"shipping state", "buyer_state", "destination state",
	},
	FieldDate: {
		"date", "transaction_date", "order_date", "sale_date",
		"invoice_date", "posting date", "purchase date",
	},
	FieldAmount: {
		"amount", "sale_amount", "sales_amount", "total_amount", "total",
		"revenue", "gross amount", "price", "subtotal",
	},
	FieldID: {
		"id", "transaction_id", "order_id", "invoice_number", "reference",
		"order number",
	},
	FieldRevenueType: {
		"revenue_type", "sale_type", "tax_type", "channel",
	},
	FieldCount: {
		"transaction_count", "count", "number of transactions", "quantity",
		"qty", "units",
	},
	FieldCity: {
		"city", "ship_to_city", "buyer_city", "town",
	},
	FieldCounty: {
		"county", "parish", "borough",
	},
	FieldZip: {
		"zip", "zip_code", "postal_code", "zipcode", "postcode",
	},
	FieldAddress: {
		"address", "street_address", "street", "address_1", "ship_to_address",
	},
}

// RequiredFields must all be mapped before a dataset can be cleaned.
var RequiredFields = []Field{FieldDate, FieldState, FieldAmount}

// Mapping is the result of column detection for one dataset. It is
// computed once and never modified afterwards.
type Mapping struct {
	// Sources maps each detected field to the source header it claimed.
	// Fields with no acceptable header are absent.
	Sources map[Field]string
	// Confidence is the similarity score (0-100) behind each assignment.
	Confidence map[Field]int
	// Suggestions lists up to 3 candidate headers per field that scored
	// at least 30, whether or not an assignment was accepted.
	Suggestions map[Field][]string
	// Unmapped are source headers no field claimed, in input order. They
	// are preserved downstream but never interpreted.
	Unmapped []string
}

// Source returns the header assigned to a field, or "" if unmapped.
func (m *Mapping) Source(f Field) string {
	return m.Sources[f]
}

// MissingRequired returns required fields that have no source header.
func (m *Mapping) MissingRequired() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := m.Sources[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Detect maps raw spreadsheet headers onto the semantic schema. For each
// field in priority order it scores every unclaimed header against every
// variant, assigns the best header when its score reaches 60, and claims
// it so no later field can reuse it. The same header is therefore never
// assigned to two fields.
func Detect(headers []string) *Mapping {
	m := &Mapping{
		Sources:     make(map[Field]string),
		Confidence:  make(map[Field]int),
		Suggestions: make(map[Field][]string),
	}

	claimed := make(map[string]bool, len(headers))

	for _, field := range fieldOrder {
		bestHeader := ""
		bestScore := 0
		headerScores := make(map[string]int)

		for _, header := range headers {
			if claimed[header] {
				continue
			}
			for _, variant := range variants[field] {
				score := Score(header, variant)
				if score > headerScores[header] {
					headerScores[header] = score
				}
				if score > bestScore {
					bestScore = score
					bestHeader = header
				}
			}
		}

		if suggestions := topSuggestions(headers, claimed, headerScores); len(suggestions) > 0 {
			m.Suggestions[field] = suggestions
		}

		if bestScore >= acceptScore && bestHeader != "" {
			m.Sources[field] = bestHeader
			m.Confidence[field] = bestScore
			claimed[bestHeader] = true
		}
	}

	for _, header := range headers {
		if !claimed[header] {
			m.Unmapped = append(m.Unmapped, header)
		}
	}

	return m
}

// topSuggestions picks up to 3 distinct unclaimed headers scoring at
// least 30, best first, ties broken by input order.
func topSuggestions(headers []string, claimed map[string]bool, scores map[string]int) []string {
	type candidate struct {
		header string
		score  int
		order  int
	}
	var cands []candidate
	seen := make(map[string]bool)
	for i, h := range headers {
		if claimed[h] || seen[h] {
			continue
		}
		seen[h] = true
		if scores[h] >= suggestScore {
			cands = append(cands, candidate{header: h, score: scores[h], order: i})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].order < cands[j].order
	})
	if len(cands) > maxSuggestions {
		cands = cands[:maxSuggestions]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.header
	}
	return out
}
