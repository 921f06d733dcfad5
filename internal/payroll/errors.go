package payroll

import "fmt"

// ValidationError reports a missing or malformed required input field.
// It is a request-level failure, distinct from jurisdiction and table
// errors, and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
