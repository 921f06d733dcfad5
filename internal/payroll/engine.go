package payroll

import (
	"fmt"

	"payengine/internal/rules"
)

// EmployerMatchName labels the employer retirement match in the
// employer contribution list.
const EmployerMatchName = "retirement_match"

// Engine is the one gross-to-net computation shared by the preview and
// finalize paths. Both call Run with identical inputs; they differ only
// in whether the caller commits the returned YTD transition. Keeping a
// single implementation here is the design invariant that rules out a
// separately maintained preview copy drifting from the authoritative
// one.
//
// Run is a pure computation over its inputs plus read-only rule data,
// so it is safe to invoke concurrently without locking.
type Engine struct {
	rules *rules.Provider
}

func NewEngine(provider *rules.Provider) *Engine {
	return &Engine{rules: provider}
}

// Run computes the full payroll breakdown for one period against an
// immutable YTD snapshot. When commit is false the returned snapshot is
// marked provisional; Run itself never writes state either way.
func (e *Engine) Run(input PayPeriodInput, snapshot YTDSnapshot, commit bool) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	year := input.Year()
	key := rules.NewKey(input.Country, input.Region, year)
	jr, err := e.rules.Resolve(input.Country, input.Region, year)
	if err != nil {
		return nil, err
	}
	federal, err := e.rules.Brackets(input.Country, "", year)
	if err != nil {
		return nil, err
	}
	regional, err := e.rules.Brackets(input.Country, input.Region, year)
	if err != nil {
		return nil, err
	}

	if snapshot.EmployeeID == "" {
		snapshot = YTDSnapshot{EmployeeID: input.EmployeeID, Year: year, AnnualCredit: jr.AnnualExemptionCredit}
	}
	if snapshot.EmployeeID != input.EmployeeID {
		return nil, fmt.Errorf("ytd snapshot belongs to employee %s, input is for %s", snapshot.EmployeeID, input.EmployeeID)
	}
	if snapshot.Year != year {
		return nil, fmt.Errorf("ytd snapshot year %d does not match period year %d", snapshot.Year, year)
	}
	annualCredit := snapshot.AnnualCredit
	if annualCredit.IsZero() {
		annualCredit = jr.AnnualExemptionCredit
	}

	gross := ComputeGross(input.HoursWorked, input.HourlyRate, jr)

	vacationPercent := jr.DefaultVacationPercent
	if input.VacationPercent != nil {
		vacationPercent = *input.VacationPercent
	}
	includeVacation := jr.VacationInGrossByDefault
	if input.IncludeVacationInGross != nil {
		includeVacation = *input.IncludeVacationInGross
	}
	earnings := AggregateEarnings(gross.GrossBeforeVacation, vacationPercent, includeVacation, input.Earnings, input.NonTaxableReimbursement)

	credit, err := ApplyCredit(snapshot, input.Frequency, annualCredit)
	if err != nil {
		return nil, err
	}

	deductions, err := ComputeDeductions(DeductionRequest{
		TaxableGross:  earnings.TaxableGross,
		Rules:         jr,
		FederalTable:  federal,
		RegionalTable: regional,
		PeriodCredit:  credit.PeriodCredit,
		Periods:       input.Frequency.PeriodsPerYear(),
		Overrides:     input.DeductionOverrides,
	})
	if err != nil {
		return nil, err
	}

	netPay := ComposeNetPay(earnings.TaxableGross, deductions.Total, earnings.NonTaxable)

	employer := deductions.Employer
	if input.RetirementMatch.IsPositive() {
		employer = append(employer, EmployerContribution{Name: EmployerMatchName, Amount: round2(input.RetirementMatch)})
	}

	return &Result{
		EmployeeID:  input.EmployeeID,
		Country:     key.Country,
		Region:      key.Region,
		Year:        year,
		Frequency:   input.Frequency,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,

		RegularHours:  gross.RegularHours,
		OvertimeHours: gross.OvertimeHours,
		RegularPay:    gross.RegularPay,
		OvertimePay:   gross.OvertimePay,

		GrossBeforeVacation: gross.GrossBeforeVacation,
		VacationPay:         earnings.VacationPay,
		ExtraEarnings:       earnings.ExtraEarnings,
		TaxableGross:        earnings.TaxableGross,
		NonTaxable:          earnings.NonTaxable,

		Deductions:      deductions.Items,
		TotalDeductions: deductions.Total,
		NetPay:          netPay,

		PeriodCredit: credit.PeriodCredit,
		CreditCapped: credit.Capped,
		YTD: YTDSnapshot{
			EmployeeID:   snapshot.EmployeeID,
			Year:         year,
			AnnualCredit: annualCredit,
			Used:         credit.NewUsed,
			Version:      snapshot.Version,
			Provisional:  !commit,
		},

		EmployerContributions: employer,
	}, nil
}
