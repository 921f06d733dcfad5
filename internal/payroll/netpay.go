package payroll

import "github.com/shopspring/decimal"

// ComposeNetPay nets taxable gross against total deductions, then adds
// back the non-taxable reimbursements. Employer-side amounts never enter
// this calculation.
func ComposeNetPay(taxableGross, totalDeductions, nonTaxable decimal.Decimal) decimal.Decimal {
	return round2(taxableGross.Sub(totalDeductions).Add(nonTaxable))
}
