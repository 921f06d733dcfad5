package rules

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Bracket is one marginal rate band. A nil To means the band is unbounded
// (the top bracket).
type Bracket struct {
	From decimal.Decimal  `yaml:"from"`
	To   *decimal.Decimal `yaml:"to"`
	Rate decimal.Decimal  `yaml:"rate"`
}

// BracketTable is an ordered progressive tax table for one jurisdiction
// and year. An empty Region means the country-level (federal) table.
type BracketTable struct {
	Country  string    `yaml:"country"`
	Region   string    `yaml:"region"`
	Year     int       `yaml:"year"`
	Brackets []Bracket `yaml:"brackets"`
}

// Sorted returns a copy of the table with brackets in ascending order of
// From, so evaluation is insensitive to the order they were supplied in.
func (t BracketTable) Sorted() BracketTable {
	out := t
	out.Brackets = make([]Bracket, len(t.Brackets))
	copy(out.Brackets, t.Brackets)
	sort.SliceStable(out.Brackets, func(i, j int) bool {
		return out.Brackets[i].From.LessThan(out.Brackets[j].From)
	})
	return out
}

// Validate checks the structural invariants: non-empty, first band starts
// at zero, bands contiguous with no gaps or overlaps, exactly one
// unbounded top band, all rates in [0,1].
func (t BracketTable) Validate() error {
	invalid := func(reason string) error {
		return &BracketTableInvalidError{Country: t.Country, Region: t.Region, Year: t.Year, Reason: reason}
	}
	if len(t.Brackets) == 0 {
		return invalid("table has no brackets")
	}

	sorted := t.Sorted().Brackets
	if !sorted[0].From.IsZero() {
		return invalid("first bracket must start at 0")
	}

	one := decimal.NewFromInt(1)
	unbounded := 0
	for i, b := range sorted {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return invalid("bracket rate must be in [0,1]")
		}
		if b.To == nil {
			unbounded++
			if i != len(sorted)-1 {
				return invalid("unbounded bracket must be the top bracket")
			}
			continue
		}
		if !b.To.GreaterThan(b.From) {
			return invalid("bracket upper bound must exceed its lower bound")
		}
		if i < len(sorted)-1 && !sorted[i+1].From.Equal(*b.To) {
			return invalid("brackets must be contiguous with no gaps or overlaps")
		}
	}
	if unbounded != 1 {
		return invalid("exactly one bracket must be unbounded")
	}
	return nil
}
