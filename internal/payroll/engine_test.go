package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payengine/internal/rules"
)

func weekInput() PayPeriodInput {
	return PayPeriodInput{
		EmployeeID:  "emp-1",
		Country:     "ca",
		Region:      "on",
		Frequency:   FrequencyWeekly,
		PeriodStart: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		HoursWorked: decimal.NewFromInt(50),
		HourlyRate:  decimal.NewFromInt(20),
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(defaultProvider(t))
}

func TestEngineRunFullBreakdown(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Run(weekInput(), YTDSnapshot{}, false)
	require.NoError(t, err)

	assert.Equal(t, "880.00", result.RegularPay.StringFixed(2))
	assert.Equal(t, "180.00", result.OvertimePay.StringFixed(2))
	assert.Equal(t, "1060.00", result.GrossBeforeVacation.StringFixed(2))
	assert.Equal(t, "42.40", result.VacationPay.StringFixed(2))
	assert.Equal(t, "1102.40", result.TaxableGross.StringFixed(2))
	assert.Equal(t, "310.17", result.PeriodCredit.StringFixed(2))
	assert.Equal(t, "238.51", result.TotalDeductions.StringFixed(2))
	assert.Equal(t, "863.89", result.NetPay.StringFixed(2))

	assert.Equal(t, "emp-1", result.YTD.EmployeeID)
	assert.Equal(t, 2025, result.YTD.Year)
	assert.Equal(t, "16129.00", result.YTD.AnnualCredit.StringFixed(2))
	assert.Equal(t, "310.17", result.YTD.Used.StringFixed(2))
	assert.True(t, result.YTD.Provisional, "preview results carry a provisional snapshot")
}

func TestEngineRunNetPayIdentity(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.Earnings = map[string]decimal.Decimal{EarningBonus: dec("150"), EarningTip: dec("32.75")}
	input.DeductionOverrides = map[string]decimal.Decimal{ItemUnionDues: dec("12.50")}
	input.NonTaxableReimbursement = dec("75.25")

	result, err := engine.Run(input, YTDSnapshot{}, false)
	require.NoError(t, err)

	identity := result.TaxableGross.Sub(result.TotalDeductions).Add(result.NonTaxable)
	assert.True(t, result.NetPay.Equal(identity), "net=%s identity=%s", result.NetPay, identity)

	sum := decimal.Zero
	for _, item := range result.Deductions {
		sum = sum.Add(item.Amount)
	}
	assert.True(t, result.TotalDeductions.Equal(sum.Round(2)), "itemized deductions must reconcile to the total")
}

func TestEngineRunDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.Earnings = map[string]decimal.Decimal{EarningBonus: dec("100"), EarningCommission: dec("55.55")}
	input.DeductionOverrides = map[string]decimal.Decimal{"parking": dec("20"), ItemRetirement: dec("40")}
	snapshot := YTDSnapshot{EmployeeID: "emp-1", Year: 2025, AnnualCredit: dec("16129"), Used: dec("620.34"), Version: 3}

	first, err := engine.Run(input, snapshot, false)
	require.NoError(t, err)
	second, err := engine.Run(input, snapshot, false)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input and snapshot must produce identical results")
}

func TestEngineRunCommitFlag(t *testing.T) {
	engine := newTestEngine(t)
	snapshot := YTDSnapshot{EmployeeID: "emp-1", Year: 2025, AnnualCredit: dec("16129"), Version: 7}

	preview, err := engine.Run(weekInput(), snapshot, false)
	require.NoError(t, err)
	final, err := engine.Run(weekInput(), snapshot, true)
	require.NoError(t, err)

	// The commit flag changes only the snapshot disposition, never the money.
	assert.True(t, preview.NetPay.Equal(final.NetPay))
	assert.True(t, preview.YTD.Used.Equal(final.YTD.Used))
	assert.True(t, preview.YTD.Provisional)
	assert.False(t, final.YTD.Provisional)
	assert.Equal(t, int64(7), final.YTD.Version)
}

func TestEngineRunNonTaxableReimbursement(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.NonTaxableReimbursement = dec("75.25")

	result, err := engine.Run(input, YTDSnapshot{}, false)
	require.NoError(t, err)

	assert.Equal(t, "1102.40", result.TaxableGross.StringFixed(2), "reimbursements never enter taxable gross")
	assert.Equal(t, "939.14", result.NetPay.StringFixed(2))
}

func TestEngineRunVacationOverrides(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	zero := decimal.Zero
	input.VacationPercent = &zero

	result, err := engine.Run(input, YTDSnapshot{}, false)
	require.NoError(t, err)
	assert.Equal(t, "1060.00", result.TaxableGross.StringFixed(2))

	input = weekInput()
	exclude := false
	input.IncludeVacationInGross = &exclude
	result, err = engine.Run(input, YTDSnapshot{}, false)
	require.NoError(t, err)
	assert.Equal(t, "42.40", result.VacationPay.StringFixed(2))
	assert.Equal(t, "1060.00", result.TaxableGross.StringFixed(2))
}

func TestEngineRunEmployerMatch(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.RetirementMatch = dec("25")

	result, err := engine.Run(input, YTDSnapshot{}, false)
	require.NoError(t, err)

	var match *EmployerContribution
	for i := range result.EmployerContributions {
		if result.EmployerContributions[i].Name == EmployerMatchName {
			match = &result.EmployerContributions[i]
		}
	}
	require.NotNil(t, match)
	assert.Equal(t, "25.00", match.Amount.StringFixed(2))

	identity := result.TaxableGross.Sub(result.TotalDeductions).Add(result.NonTaxable)
	assert.True(t, result.NetPay.Equal(identity), "employer contributions must not reduce net pay")
}

func TestEngineRunUnsupportedJurisdiction(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.Country = "fr"
	input.Region = "idf"

	_, err := engine.Run(input, YTDSnapshot{}, false)
	var unsupported *rules.UnsupportedJurisdictionError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "fr", unsupported.Country)
}

func TestEngineRunValidation(t *testing.T) {
	engine := newTestEngine(t)
	input := weekInput()
	input.EmployeeID = ""

	_, err := engine.Run(input, YTDSnapshot{}, false)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "employee_id", vErr.Field)
}

func TestEngineRunSnapshotMismatch(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Run(weekInput(), YTDSnapshot{EmployeeID: "emp-2", Year: 2025}, false)
	require.Error(t, err)

	_, err = engine.Run(weekInput(), YTDSnapshot{EmployeeID: "emp-1", Year: 2024}, false)
	require.Error(t, err)
}

func TestEngineRunCreditCappedNearExhaustion(t *testing.T) {
	engine := newTestEngine(t)
	snapshot := YTDSnapshot{EmployeeID: "emp-1", Year: 2025, AnnualCredit: dec("16129"), Used: dec("16000")}

	result, err := engine.Run(weekInput(), snapshot, false)
	require.NoError(t, err)
	assert.True(t, result.CreditCapped)
	assert.Equal(t, "129.00", result.PeriodCredit.StringFixed(2))
	assert.Equal(t, "16129.00", result.YTD.Used.StringFixed(2))
}
