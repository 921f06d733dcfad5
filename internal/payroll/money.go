package payroll

import "github.com/shopspring/decimal"

// round2 applies the engine's uniform rounding policy: two decimal
// places, half up, at the point each monetary value is computed. Preview
// and finalize share every code path, so rounding here is what makes the
// two reproduce identical cents.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
