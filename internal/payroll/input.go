package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayPeriodInput is one gross-to-net request. It is built per invocation
// and discarded; the engine never retains it.
//
// VacationPercent and IncludeVacationInGross are overrides; nil means
// the jurisdiction default applies.
type PayPeriodInput struct {
	EmployeeID  string          `yaml:"employee_id" json:"employeeId"`
	Country     string          `yaml:"country" json:"country"`
	Region      string          `yaml:"region" json:"region"`
	Frequency   PayFrequency    `yaml:"pay_frequency" json:"payFrequency"`
	PeriodStart time.Time       `yaml:"period_start" json:"periodStart"`
	PeriodEnd   time.Time       `yaml:"period_end" json:"periodEnd"`
	HoursWorked decimal.Decimal `yaml:"hours_worked" json:"hoursWorked"`
	HourlyRate  decimal.Decimal `yaml:"hourly_rate" json:"hourlyRate"`

	// Earnings are optional taxable amounts keyed by earning code
	// (bonus, tip, commission, ...). Unknown keys are accepted.
	Earnings map[string]decimal.Decimal `yaml:"earnings" json:"earnings,omitempty"`

	// DeductionOverrides are voluntary flat amounts keyed by item name
	// (medical_insurance, retirement, union_dues, garnishment, ...).
	DeductionOverrides map[string]decimal.Decimal `yaml:"deductions" json:"deductions,omitempty"`

	NonTaxableReimbursement decimal.Decimal `yaml:"non_taxable_reimbursement" json:"nonTaxableReimbursement"`

	VacationPercent        *decimal.Decimal `yaml:"vacation_percent" json:"vacationPercent,omitempty"`
	IncludeVacationInGross *bool            `yaml:"include_vacation_in_gross" json:"includeVacationInGross,omitempty"`

	// RetirementMatch is the employer-side retirement match, carried
	// through as information only.
	RetirementMatch decimal.Decimal `yaml:"retirement_match" json:"retirementMatch"`
}

// Year is the tax year the period belongs to.
func (in PayPeriodInput) Year() int {
	return in.PeriodStart.Year()
}

// Validate checks required fields and amount invariants. Failures are
// request-level, never jurisdiction or engine failures.
func (in PayPeriodInput) Validate() error {
	if in.EmployeeID == "" {
		return invalidField("employee_id", "required")
	}
	if in.Country == "" {
		return invalidField("country", "required")
	}
	if in.Region == "" {
		return invalidField("region", "required")
	}
	if in.Frequency == "" {
		return invalidField("pay_frequency", "required")
	}
	if in.Frequency.PeriodsPerYear() == 0 {
		return invalidField("pay_frequency", "must be weekly, biweekly, semimonthly or monthly")
	}
	if in.PeriodStart.IsZero() {
		return invalidField("period_start", "required")
	}
	if in.PeriodEnd.IsZero() {
		return invalidField("period_end", "required")
	}
	if in.PeriodEnd.Before(in.PeriodStart) {
		return invalidField("period_end", "must not be before period_start")
	}
	if in.HoursWorked.IsNegative() {
		return invalidField("hours_worked", "must not be negative")
	}
	if in.HourlyRate.IsNegative() {
		return invalidField("hourly_rate", "must not be negative")
	}
	if in.NonTaxableReimbursement.IsNegative() {
		return invalidField("non_taxable_reimbursement", "must not be negative")
	}
	if in.VacationPercent != nil && in.VacationPercent.IsNegative() {
		return invalidField("vacation_percent", "must not be negative")
	}
	for key, amount := range in.Earnings {
		if amount.IsNegative() {
			return invalidField("earnings."+key, "must not be negative")
		}
	}
	for key, amount := range in.DeductionOverrides {
		if amount.IsNegative() {
			return invalidField("deductions."+key, "must not be negative")
		}
	}
	return nil
}
