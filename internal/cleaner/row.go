package cleaner

import (
	"fmt"
	"strings"

	"github.com/nexuscheck-dev/nexuscheck/internal/columns"
	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

// RowWarning attributes one cleaning warning to its source row index.
type RowWarning struct {
	Row     int
	Message string
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// Outcome is the result of cleaning one raw row.
type Outcome struct {
	Record model.TransactionRecord
	// OK is false when a required field did not survive cleaning and
	// the row must be dropped.
	OK            bool
	Warnings      []string
	Modifications map[string]int
}

// Row cleans one raw row against the dataset's column mapping. The row
// is kept only when date, state and amount all survive cleaning; any
// header the mapping did not claim is passed through verbatim. index is
// the zero-based position in the dataset, used for warning attribution
// and the fallback record id.
func Row(row model.RawRow, m *columns.Mapping, index int) Outcome {
	out := Outcome{Modifications: make(map[string]int)}
	rec := model.TransactionRecord{Count: 1}

	dateOK, stateOK, amountOK := false, false, false

	if src := m.Source(columns.FieldDate); src != "" {
		d, ok, modified, warns := Date(row[src])
		out.Warnings = append(out.Warnings, warns...)
		if modified {
			out.Modifications["date"]++
		}
		if ok {
			rec.Date = d
			dateOK = true
		}
	}

	if src := m.Source(columns.FieldState); src != "" {
		code, ok, modified, warns := State(row[src])
		out.Warnings = append(out.Warnings, warns...)
		if modified {
			out.Modifications["state"]++
		}
		if ok {
			rec.StateCode = code
			stateOK = true
		}
	}

	if src := m.Source(columns.FieldAmount); src != "" {
		amount, ok, modified, warns := Currency(row[src])
		out.Warnings = append(out.Warnings, warns...)
		if modified {
			out.Modifications["currency"]++
		}
		if ok {
			rec.Amount = amount
			amountOK = true
		}
	}

	if src := m.Source(columns.FieldID); src != "" {
		if id, ok, _ := Text(row[src]); ok {
			rec.ID = id
		}
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("tx-%d", index)
	}

	if src := m.Source(columns.FieldCount); src != "" {
		count, modified, warns := Count(row[src])
		out.Warnings = append(out.Warnings, warns...)
		if modified {
			out.Modifications["count"]++
		}
		rec.Count = count
	}

	if src := m.Source(columns.FieldRevenueType); src != "" {
		rt, warns := revenueType(row[src])
		out.Warnings = append(out.Warnings, warns...)
		rec.Revenue = rt
	}

	for _, f := range []columns.Field{columns.FieldCity, columns.FieldCounty, columns.FieldZip, columns.FieldAddress} {
		src := m.Source(f)
		if src == "" {
			continue
		}
		cleaned, ok, modified := Text(row[src])
		if modified {
			out.Modifications["text"]++
		}
		if ok {
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[string(f)] = cleaned
		}
	}

	for _, header := range m.Unmapped {
		value, present := row[header]
		if !present {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[header] = value
	}

	if !dateOK || !stateOK || !amountOK {
		return out
	}

	out.Record = rec
	out.OK = true
	return out
}

// revenueType normalizes a revenue-type cell; unknown values stay empty
// with a warning so filtering never acts on a guess.
func revenueType(raw string) (model.RevenueType, []string) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	switch s {
	case "":
		return "", nil
	case "taxable":
		return model.RevenueTaxable, nil
	case "nontaxable", "exempt":
		return model.RevenueNontaxable, nil
	case "marketplace", "marketplacefacilitator":
		return model.RevenueMarketplace, nil
	}
	return "", []string{fmt.Sprintf("unknown revenue type %q", raw)}
}
