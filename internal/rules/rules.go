package rules

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed state_rules.yaml tax_rates.yaml
var defaults embed.FS

// Date is a calendar date stored as YYYY-MM-DD in YAML.
type Date struct {
	time.Time
}

// UnmarshalYAML parses a YYYY-MM-DD string.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalYAML writes the date back as YYYY-MM-DD.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format("2006-01-02"), nil
}

// Rule is the economic nexus rule for a single state.
type Rule struct {
	StateCode     string          `yaml:"-"`
	Amount        decimal.Decimal `yaml:"amount"`       // revenue threshold in USD; 0 = no sales tax
	Transactions  int             `yaml:"transactions"` // count threshold; 0 = none
	EffectiveDate Date            `yaml:"effective_date"`
	EndDate       *Date           `yaml:"end_date,omitempty"`
	RuleID        string          `yaml:"rule_id"`
	Notes         string          `yaml:"notes,omitempty"`
}

// TaxRate holds sales tax rates for a state, in percent.
type TaxRate struct {
	StateRate    decimal.Decimal `yaml:"state_rate"`
	AvgLocalRate decimal.Decimal `yaml:"avg_local_rate"`
	CombinedRate decimal.Decimal `yaml:"combined_rate"`
	MaxLocalRate decimal.Decimal `yaml:"max_local_rate"`
	Notes        string          `yaml:"notes,omitempty"`
}

// rulesFile is the on-disk shape of state_rules.yaml.
type rulesFile struct {
	Version     string          `yaml:"version"`
	LastUpdated Date            `yaml:"last_updated"`
	Source      string          `yaml:"source"`
	States      map[string]Rule `yaml:"states"`
}

// ratesFile is the on-disk shape of tax_rates.yaml.
type ratesFile struct {
	Version     string             `yaml:"version"`
	LastUpdated Date               `yaml:"last_updated"`
	Source      string             `yaml:"source"`
	SourceURL   string             `yaml:"source_url,omitempty"`
	Rates       map[string]TaxRate `yaml:"rates"`
}

// Table is the loaded and validated rule set.
type Table struct {
	Version     string
	LastUpdated time.Time
	Source      string

	states map[string]Rule
	rates  map[string]TaxRate
}

var (
	ruleIDPattern    = regexp.MustCompile(`^[A-Z]{2}-\d{4}-\d{2}$`)
	stateCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// LoadDefault loads the rule and rate tables embedded in the binary.
func LoadDefault() (*Table, error) {
	rulesData, err := defaults.ReadFile("state_rules.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded state rules: %w", err)
	}
	ratesData, err := defaults.ReadFile("tax_rates.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded tax rates: %w", err)
	}
	return parse(rulesData, ratesData)
}

// Load reads rule and rate tables from YAML files on disk. An empty
// ratesPath falls back to the embedded rates.
func Load(rulesPath, ratesPath string) (*Table, error) {
	rulesData, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("reading state rules: %w", err)
	}
	var ratesData []byte
	if ratesPath != "" {
		ratesData, err = os.ReadFile(ratesPath)
		if err != nil {
			return nil, fmt.Errorf("reading tax rates: %w", err)
		}
	} else {
		ratesData, err = defaults.ReadFile("tax_rates.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded tax rates: %w", err)
		}
	}
	return parse(rulesData, ratesData)
}

func parse(rulesData, ratesData []byte) (*Table, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(rulesData, &rf); err != nil {
		return nil, fmt.Errorf("parsing state rules: %w", err)
	}
	var tf ratesFile
	if err := yaml.Unmarshal(ratesData, &tf); err != nil {
		return nil, fmt.Errorf("parsing tax rates: %w", err)
	}

	states := make(map[string]Rule, len(rf.States))
	for code, rule := range rf.States {
		rule.StateCode = code
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("state %s: %w", code, err)
		}
		states[code] = rule
	}

	for code := range tf.Rates {
		if !stateCodePattern.MatchString(code) {
			return nil, fmt.Errorf("tax rate key %q is not a 2-letter state code", code)
		}
	}

	return &Table{
		Version:     rf.Version,
		LastUpdated: rf.LastUpdated.Time,
		Source:      rf.Source,
		states:      states,
		rates:       tf.Rates,
	}, nil
}

func validateRule(r Rule) error {
	if !stateCodePattern.MatchString(r.StateCode) {
		return fmt.Errorf("invalid state code %q", r.StateCode)
	}
	if !ruleIDPattern.MatchString(r.RuleID) {
		return fmt.Errorf("invalid rule id %q", r.RuleID)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("negative revenue threshold %s", r.Amount)
	}
	if r.Transactions < 0 {
		return fmt.Errorf("negative transaction threshold %d", r.Transactions)
	}
	if r.EffectiveDate.IsZero() {
		return fmt.Errorf("missing effective date")
	}
	if r.EndDate != nil && !r.EndDate.After(r.EffectiveDate.Time) {
		return fmt.Errorf("end date %s not after effective date %s",
			r.EndDate.Format("2006-01-02"), r.EffectiveDate.Format("2006-01-02"))
	}
	return nil
}

// RuleFor returns the current rule for a state, if one exists and has not
// expired.
func (t *Table) RuleFor(code string) (Rule, bool) {
	r, ok := t.states[code]
	if !ok {
		return Rule{}, false
	}
	if r.EndDate != nil && !r.EndDate.After(time.Now()) {
		return Rule{}, false
	}
	return r, true
}

// Current returns all non-expired rules, sorted by state code.
func (t *Table) Current() []Rule {
	out := make([]Rule, 0, len(t.states))
	for code := range t.states {
		if r, ok := t.RuleFor(code); ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateCode < out[j].StateCode })
	return out
}

// Known reports whether a state code has a rule entry at all.
func (t *Table) Known(code string) bool {
	_, ok := t.states[code]
	return ok
}

// CombinedRate returns the combined state+local tax rate in percent, or
// zero when no rate is on file.
func (t *Table) CombinedRate(code string) decimal.Decimal {
	r, ok := t.rates[code]
	if !ok {
		return decimal.Zero
	}
	return r.CombinedRate
}

// RateFor returns the full rate entry for a state.
func (t *Table) RateFor(code string) (TaxRate, bool) {
	r, ok := t.rates[code]
	return r, ok
}
