package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EarningsBreakdown separates taxable gross from the non-taxable amounts
// that only ever touch net pay.
type EarningsBreakdown struct {
	VacationPay   decimal.Decimal
	ExtraEarnings decimal.Decimal
	TaxableGross  decimal.Decimal
	NonTaxable    decimal.Decimal
}

// AggregateEarnings computes vacation pay from gross-before-vacation and
// folds the optional earnings into taxable gross. Each component is
// rounded at the point of computation, then summed, so the result is
// deterministic regardless of how the caller filled the earnings map.
// Non-taxable reimbursements are tracked separately and never enter
// taxable gross, contribution bases, or bracket evaluation.
func AggregateEarnings(grossBeforeVacation, vacationPercent decimal.Decimal, includeVacationInGross bool, extras map[string]decimal.Decimal, nonTaxable decimal.Decimal) EarningsBreakdown {
	hundred := decimal.NewFromInt(100)
	vacationPay := round2(grossBeforeVacation.Mul(vacationPercent).Div(hundred))

	keys := make([]string, 0, len(extras))
	for key := range extras {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	extraTotal := decimal.Zero
	for _, key := range keys {
		extraTotal = extraTotal.Add(round2(extras[key]))
	}

	taxable := grossBeforeVacation
	if includeVacationInGross {
		taxable = taxable.Add(vacationPay)
	}
	taxable = round2(taxable.Add(extraTotal))

	return EarningsBreakdown{
		VacationPay:   vacationPay,
		ExtraEarnings: round2(extraTotal),
		TaxableGross:  taxable,
		NonTaxable:    round2(nonTaxable),
	}
}
