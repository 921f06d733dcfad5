package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// YTDSnapshot is the per-employee, per-year exemption credit state the
// engine computes against. Provisional marks a snapshot produced by a
// preview; only the finalize path may commit one.
type YTDSnapshot struct {
	EmployeeID   string          `json:"employeeId"`
	Year         int             `json:"year"`
	AnnualCredit decimal.Decimal `json:"annualCredit"`
	Used         decimal.Decimal `json:"used"`
	Version      int64           `json:"version"`
	Provisional  bool            `json:"provisional"`
}

// BracketUsage records how much of a tax item came from one bracket.
type BracketUsage struct {
	From   decimal.Decimal  `json:"from"`
	To     *decimal.Decimal `json:"to,omitempty"`
	Rate   decimal.Decimal  `json:"rate"`
	Amount decimal.Decimal  `json:"amount"`
	Tax    decimal.Decimal  `json:"tax"`
}

// DeductionItem is one line of the itemized deduction breakdown. Rate is
// set for rate-based statutory items; Brackets for progressive taxes.
type DeductionItem struct {
	Name     string           `json:"name"`
	Amount   decimal.Decimal  `json:"amount"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Brackets []BracketUsage   `json:"brackets,omitempty"`
}

// EmployerContribution is an employer-side amount carried for reporting.
// These never change the employee's net pay.
type EmployerContribution struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the full gross-to-net breakdown for one pay period. The same
// shape is returned by preview and finalize.
type Result struct {
	EmployeeID  string       `json:"employeeId"`
	Country     string       `json:"country"`
	Region      string       `json:"region"`
	Year        int          `json:"year"`
	Frequency   PayFrequency `json:"payFrequency"`
	PeriodStart time.Time    `json:"periodStart"`
	PeriodEnd   time.Time    `json:"periodEnd"`

	RegularHours  decimal.Decimal `json:"regularHours"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
	RegularPay    decimal.Decimal `json:"regularPay"`
	OvertimePay   decimal.Decimal `json:"overtimePay"`

	GrossBeforeVacation decimal.Decimal `json:"grossBeforeVacation"`
	VacationPay         decimal.Decimal `json:"vacationPay"`
	ExtraEarnings       decimal.Decimal `json:"extraEarnings"`
	TaxableGross        decimal.Decimal `json:"taxableGross"`
	NonTaxable          decimal.Decimal `json:"nonTaxable"`

	Deductions      []DeductionItem `json:"deductions"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`

	PeriodCredit  decimal.Decimal `json:"periodCredit"`
	CreditCapped  bool            `json:"creditCapped"`
	YTD           YTDSnapshot     `json:"ytd"`

	EmployerContributions []EmployerContribution `json:"employerContributions,omitempty"`
}
