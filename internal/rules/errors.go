package rules

import "fmt"

// UnsupportedJurisdictionError means no rule set is registered for the
// (country, region, year) triple. Callers must not substitute a default.
type UnsupportedJurisdictionError struct {
	Country string
	Region  string
	Year    int
}

func (e *UnsupportedJurisdictionError) Error() string {
	return fmt.Sprintf("unsupported jurisdiction %s", Key{Country: e.Country, Region: e.Region, Year: e.Year})
}

// BracketTableMissingError means no tax table is registered for a
// computation that requires one.
type BracketTableMissingError struct {
	Country string
	Region  string
	Year    int
}

func (e *BracketTableMissingError) Error() string {
	return fmt.Sprintf("no tax bracket table for %s", Key{Country: e.Country, Region: e.Region, Year: e.Year})
}

// BracketTableInvalidError means a tax table is malformed. The engine
// refuses to evaluate it rather than produce a silently wrong number.
type BracketTableInvalidError struct {
	Country string
	Region  string
	Year    int
	Reason  string
}

func (e *BracketTableInvalidError) Error() string {
	return fmt.Sprintf("invalid tax bracket table for %s: %s", Key{Country: e.Country, Region: e.Region, Year: e.Year}, e.Reason)
}
