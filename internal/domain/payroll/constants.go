package payroll

const (
	RecordStatusActive     = "active"
	RecordStatusSuperseded = "superseded"

	ActionFinalize   = "payroll.finalize"
	ActionRefinalize = "payroll.refinalize"

	EntityPayrollRecord = "payroll_record"
)
