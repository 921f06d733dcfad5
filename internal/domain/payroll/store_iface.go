package payroll

import (
	"context"
	"encoding/json"
	"time"

	engine "payengine/internal/payroll"
)

// StoreAPI is the persistence surface of the payroll service.
//
// CommitFinalize is the only mutation touching YTD state. It must apply
// the snapshot transition and insert the record atomically, using the
// snapshot's version for optimistic concurrency: a version mismatch
// returns ErrYTDConflict and writes nothing.
type StoreAPI interface {
	GetYTD(ctx context.Context, employeeID string, year int) (engine.YTDSnapshot, bool, error)
	CommitFinalize(ctx context.Context, snapshot engine.YTDSnapshot, record Record) (Record, error)

	ActiveRecord(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Record, error)
	ListRecords(ctx context.Context, employeeID string, year int) ([]Record, error)

	SaveDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, payload json.RawMessage) (Draft, error)
	GetDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Draft, error)
}
