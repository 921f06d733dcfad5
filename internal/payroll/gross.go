package payroll

import (
	"github.com/shopspring/decimal"

	"payengine/internal/rules"
)

// GrossBreakdown is the regular/overtime split for a pay period.
type GrossBreakdown struct {
	RegularHours        decimal.Decimal
	OvertimeHours       decimal.Decimal
	RegularPay          decimal.Decimal
	OvertimePay         decimal.Decimal
	GrossBeforeVacation decimal.Decimal
}

// ComputeGross splits hours at the jurisdiction's overtime threshold and
// prices the overtime portion at the jurisdiction's multiplier. Threshold
// and multiplier are data supplied by the rule set, never hard-coded.
func ComputeGross(hoursWorked, rate decimal.Decimal, r rules.JurisdictionRules) GrossBreakdown {
	regularHours := decimal.Min(hoursWorked, r.OvertimeThresholdHours)
	overtimeHours := decimal.Max(decimal.Zero, hoursWorked.Sub(r.OvertimeThresholdHours))

	regularPay := round2(regularHours.Mul(rate))
	overtimePay := round2(overtimeHours.Mul(rate).Mul(r.OvertimeMultiplier))

	return GrossBreakdown{
		RegularHours:        regularHours,
		OvertimeHours:       overtimeHours,
		RegularPay:          regularPay,
		OvertimePay:         overtimePay,
		GrossBeforeVacation: round2(regularPay.Add(overtimePay)),
	}
}
