package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DeductionSet selects which statutory contribution calculators apply
// for a jurisdiction.
type DeductionSet string

const (
	SetCanadaCPPEI   DeductionSet = "ca-cpp-ei"
	SetQuebecQPPRQAP DeductionSet = "qc-qpp-rqap"
	SetUSFICA        DeductionSet = "us-fica"
)

// Key identifies a rule set or bracket table. An empty Region means the
// country-level (federal) entry.
type Key struct {
	Country string
	Region  string
	Year    int
}

func NewKey(country, region string, year int) Key {
	return Key{
		Country: strings.ToLower(strings.TrimSpace(country)),
		Region:  strings.ToLower(strings.TrimSpace(region)),
		Year:    year,
	}
}

func (k Key) String() string {
	if k.Region == "" {
		return fmt.Sprintf("%s/%d", k.Country, k.Year)
	}
	return fmt.Sprintf("%s-%s/%d", k.Country, k.Region, k.Year)
}

// StatutoryRates holds the contribution parameters for a deduction set.
// Annual ceilings and exemptions are prorated per pay frequency by the
// deduction engine. Rates are fractions, not percentages.
type StatutoryRates struct {
	PensionRate               decimal.Decimal `yaml:"pension_rate"`
	PensionMaxAnnualEarnings  decimal.Decimal `yaml:"pension_max_annual_earnings"`
	PensionAnnualExemption    decimal.Decimal `yaml:"pension_annual_exemption"`
	EIRate                    decimal.Decimal `yaml:"ei_rate"`
	EIMaxAnnualEarnings       decimal.Decimal `yaml:"ei_max_annual_earnings"`
	ParentalRate              decimal.Decimal `yaml:"parental_rate"`
	ParentalMaxAnnualEarnings decimal.Decimal `yaml:"parental_max_annual_earnings"`
	MedicareRate              decimal.Decimal `yaml:"medicare_rate"`
}

// JurisdictionRules is the resolved rule set for one (country, region, year).
// Immutable once published for a year.
type JurisdictionRules struct {
	Country                  string          `yaml:"country"`
	Region                   string          `yaml:"region"`
	Year                     int             `yaml:"year"`
	OvertimeThresholdHours   decimal.Decimal `yaml:"overtime_threshold_hours"`
	OvertimeMultiplier       decimal.Decimal `yaml:"overtime_multiplier"`
	DefaultVacationPercent   decimal.Decimal `yaml:"default_vacation_percent"`
	VacationInGrossByDefault bool            `yaml:"vacation_in_gross_by_default"`
	DeductionSet             DeductionSet    `yaml:"deduction_set"`
	AnnualExemptionCredit    decimal.Decimal `yaml:"annual_exemption_credit"`
	Statutory                StatutoryRates  `yaml:"statutory"`
}

func (r JurisdictionRules) validate() error {
	switch r.DeductionSet {
	case SetCanadaCPPEI, SetQuebecQPPRQAP, SetUSFICA:
	default:
		return fmt.Errorf("unknown deduction set %q for %s", r.DeductionSet, NewKey(r.Country, r.Region, r.Year))
	}
	if r.OvertimeThresholdHours.IsNegative() {
		return fmt.Errorf("overtime threshold must not be negative for %s", NewKey(r.Country, r.Region, r.Year))
	}
	if r.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("overtime multiplier must be at least 1 for %s", NewKey(r.Country, r.Region, r.Year))
	}
	if r.DefaultVacationPercent.IsNegative() {
		return fmt.Errorf("default vacation percent must not be negative for %s", NewKey(r.Country, r.Region, r.Year))
	}
	return nil
}

// Provider resolves jurisdiction rules and bracket tables. It is a pure
// lookup over data loaded once at startup and is safe for concurrent use.
type Provider struct {
	rules    map[Key]JurisdictionRules
	brackets map[Key]BracketTable
}

func NewProvider() *Provider {
	return &Provider{
		rules:    make(map[Key]JurisdictionRules),
		brackets: make(map[Key]BracketTable),
	}
}

// Register adds a rule set. Registering the same key twice is an error:
// rule sets are immutable once published for a year.
func (p *Provider) Register(r JurisdictionRules) error {
	if err := r.validate(); err != nil {
		return err
	}
	key := NewKey(r.Country, r.Region, r.Year)
	if _, exists := p.rules[key]; exists {
		return fmt.Errorf("rule set already registered for %s", key)
	}
	p.rules[key] = r
	return nil
}

// RegisterBrackets adds a bracket table after validating it.
func (p *Provider) RegisterBrackets(t BracketTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	key := NewKey(t.Country, t.Region, t.Year)
	if _, exists := p.brackets[key]; exists {
		return fmt.Errorf("bracket table already registered for %s", key)
	}
	p.brackets[key] = t
	return nil
}

// Resolve returns the rule set for the triple. There is deliberately no
// fallback jurisdiction: an unresolved triple misstates legally required
// withholding and must surface as an error.
func (p *Provider) Resolve(country, region string, year int) (JurisdictionRules, error) {
	key := NewKey(country, region, year)
	r, ok := p.rules[key]
	if !ok {
		return JurisdictionRules{}, &UnsupportedJurisdictionError{Country: key.Country, Region: key.Region, Year: key.Year}
	}
	return r, nil
}

// Brackets returns the bracket table for the triple. Pass an empty region
// for the country-level (federal) table.
func (p *Provider) Brackets(country, region string, year int) (BracketTable, error) {
	key := NewKey(country, region, year)
	t, ok := p.brackets[key]
	if !ok {
		return BracketTable{}, &BracketTableMissingError{Country: key.Country, Region: key.Region, Year: key.Year}
	}
	return t, nil
}

// Keys lists every registered rule set key, for diagnostics.
func (p *Provider) Keys() []Key {
	out := make([]Key, 0, len(p.rules))
	for k := range p.rules {
		out = append(out, k)
	}
	return out
}
