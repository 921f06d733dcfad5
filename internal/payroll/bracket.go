package payroll

import (
	"github.com/shopspring/decimal"

	"payengine/internal/rules"
)

// EvaluateBrackets walks a progressive tax table over a taxable amount
// and returns the total tax with the per-bracket contributions used.
//
// The table is validated and sorted before evaluation, so the result is
// insensitive to the order brackets were supplied in; a malformed table
// is an error, never a silently wrong number. A zero taxable amount
// yields zero tax with an empty breakdown.
func EvaluateBrackets(table rules.BracketTable, taxable decimal.Decimal) (decimal.Decimal, []BracketUsage, error) {
	if err := table.Validate(); err != nil {
		return decimal.Zero, nil, err
	}
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil, nil
	}

	total := decimal.Zero
	var usage []BracketUsage
	for _, b := range table.Sorted().Brackets {
		if taxable.LessThanOrEqual(b.From) {
			break
		}
		upper := taxable
		if b.To != nil {
			upper = decimal.Min(taxable, *b.To)
		}
		overlap := upper.Sub(b.From)
		if !overlap.IsPositive() {
			continue
		}
		tax := round2(overlap.Mul(b.Rate))
		total = total.Add(tax)
		usage = append(usage, BracketUsage{
			From:   b.From,
			To:     b.To,
			Rate:   b.Rate,
			Amount: overlap,
			Tax:    tax,
		})
	}
	return round2(total), usage, nil
}
