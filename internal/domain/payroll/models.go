package payroll

import (
	"encoding/json"
	"time"

	engine "payengine/internal/payroll"
)

// Record is one finalized payroll computation, persisted immutably.
// Re-finalizing the same period inserts a new active record and marks
// the prior one superseded; history is never overwritten.
type Record struct {
	ID          string              `json:"id"`
	EmployeeID  string              `json:"employeeId"`
	Year        int                 `json:"year"`
	Country     string              `json:"country"`
	Region      string              `json:"region"`
	Frequency   engine.PayFrequency `json:"payFrequency"`
	PeriodStart time.Time           `json:"periodStart"`
	PeriodEnd   time.Time           `json:"periodEnd"`
	Status      string              `json:"status"`
	Supersedes  string              `json:"supersedes,omitempty"`
	FinalizedBy string              `json:"finalizedBy"`
	FinalizedAt time.Time           `json:"finalizedAt"`
	Result      json.RawMessage     `json:"result"`
}

// Draft is the server-owned, versioned working copy of a payroll form
// for one (employee, period). It replaces per-browser template storage
// so drafts survive across devices and sessions.
type Draft struct {
	EmployeeID  string          `json:"employeeId"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
