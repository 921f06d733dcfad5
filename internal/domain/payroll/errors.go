package payroll

import "errors"

var (
	// ErrYTDConflict means a finalize lost the per-(employee, year)
	// version race. The caller should reload a fresh snapshot and
	// retry; nothing was written.
	ErrYTDConflict = errors.New("ytd state was modified concurrently")

	ErrRecordNotFound = errors.New("finalized payroll record not found")
	ErrDraftNotFound  = errors.New("payroll draft not found")
)
