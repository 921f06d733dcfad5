package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAggregateEarningsVacationInGross(t *testing.T) {
	got := AggregateEarnings(decimal.NewFromInt(1060), decimal.NewFromInt(4), true, nil, decimal.Zero)

	assert.Equal(t, "42.40", got.VacationPay.StringFixed(2))
	assert.Equal(t, "1102.40", got.TaxableGross.StringFixed(2))
	assert.Equal(t, "0.00", got.NonTaxable.StringFixed(2))
}

func TestAggregateEarningsVacationExcluded(t *testing.T) {
	got := AggregateEarnings(decimal.NewFromInt(1060), decimal.NewFromInt(4), false, nil, decimal.Zero)

	assert.Equal(t, "42.40", got.VacationPay.StringFixed(2), "vacation pay is still computed for accrual reporting")
	assert.Equal(t, "1060.00", got.TaxableGross.StringFixed(2))
}

func TestAggregateEarningsExtrasAndNonTaxable(t *testing.T) {
	extras := map[string]decimal.Decimal{
		EarningBonus:        decimal.NewFromFloat(100.005),
		EarningTip:          decimal.NewFromFloat(25.50),
		EarningShiftPremium: decimal.NewFromInt(10),
	}
	got := AggregateEarnings(decimal.NewFromInt(1000), decimal.Zero, true, extras, decimal.NewFromFloat(75.25))

	// Each extra is rounded before summing: 100.01 + 25.50 + 10.00.
	assert.Equal(t, "135.51", got.ExtraEarnings.StringFixed(2))
	assert.Equal(t, "1135.51", got.TaxableGross.StringFixed(2))
	// Reimbursements never enter taxable gross.
	assert.Equal(t, "75.25", got.NonTaxable.StringFixed(2))
}
