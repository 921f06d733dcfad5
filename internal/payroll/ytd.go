package payroll

import "github.com/shopspring/decimal"

// CreditApplication is the outcome of applying one period's share of the
// annual exemption credit against a YTD snapshot.
type CreditApplication struct {
	PeriodCredit decimal.Decimal
	NewUsed      decimal.Decimal
	Capped       bool
}

// ApplyCredit prorates the annual personal exemption credit over the
// canonical period count for the frequency and clamps it to the credit
// remaining in the year. It computes against the snapshot only; whether
// the transition is committed is the caller's decision, which is what
// keeps previews free of side effects.
func ApplyCredit(snapshot YTDSnapshot, frequency PayFrequency, annualCredit decimal.Decimal) (CreditApplication, error) {
	periods := frequency.PeriodsPerYear()
	if periods == 0 {
		return CreditApplication{}, invalidField("pay_frequency", "must be weekly, biweekly, semimonthly or monthly")
	}

	periodCredit := round2(annualCredit.Div(decimal.NewFromInt(int64(periods))))
	remaining := annualCredit.Sub(snapshot.Used)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	capped := false
	if periodCredit.GreaterThan(remaining) {
		// Credit exhausted (or nearly) earlier in the year, e.g. after
		// a rate change: apply only what remains, never go negative.
		periodCredit = round2(remaining)
		capped = true
	}

	return CreditApplication{
		PeriodCredit: periodCredit,
		NewUsed:      round2(snapshot.Used.Add(periodCredit)),
		Capped:       capped,
	}, nil
}
