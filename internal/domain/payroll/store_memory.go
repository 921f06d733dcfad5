package payroll

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	engine "payengine/internal/payroll"
)

type ytdKey struct {
	EmployeeID string
	Year       int
}

type draftKey struct {
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// MemoryStore is an in-process StoreAPI with the same optimistic
// concurrency semantics as the Postgres store. It backs preview-only
// invocations and the service tests.
type MemoryStore struct {
	mu      sync.Mutex
	ytd     map[ytdKey]engine.YTDSnapshot
	records []Record
	drafts  map[draftKey]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ytd:    make(map[ytdKey]engine.YTDSnapshot),
		drafts: make(map[draftKey]Draft),
	}
}

func (m *MemoryStore) GetYTD(_ context.Context, employeeID string, year int) (engine.YTDSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.ytd[ytdKey{EmployeeID: employeeID, Year: year}]
	return snapshot, ok, nil
}

func (m *MemoryStore) CommitFinalize(_ context.Context, snapshot engine.YTDSnapshot, record Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ytdKey{EmployeeID: snapshot.EmployeeID, Year: snapshot.Year}
	current, exists := m.ytd[key]
	if snapshot.Version == 0 {
		if exists {
			return Record{}, ErrYTDConflict
		}
	} else if !exists || current.Version != snapshot.Version {
		return Record{}, ErrYTDConflict
	}

	next := snapshot
	next.Version = snapshot.Version + 1
	next.Provisional = false
	m.ytd[key] = next

	for i := range m.records {
		if m.records[i].EmployeeID == record.EmployeeID &&
			m.records[i].PeriodStart.Equal(record.PeriodStart) &&
			m.records[i].PeriodEnd.Equal(record.PeriodEnd) &&
			m.records[i].Status == RecordStatusActive {
			m.records[i].Status = RecordStatusSuperseded
		}
	}
	m.records = append(m.records, record)
	return record, nil
}

func (m *MemoryStore) ActiveRecord(_ context.Context, employeeID string, periodStart, periodEnd time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.EmployeeID == employeeID && r.PeriodStart.Equal(periodStart) && r.PeriodEnd.Equal(periodEnd) && r.Status == RecordStatusActive {
			return r, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

func (m *MemoryStore) ListRecords(_ context.Context, employeeID string, year int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.EmployeeID == employeeID && r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveDraft(_ context.Context, employeeID string, periodStart, periodEnd time.Time, payload json.RawMessage) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := draftKey{EmployeeID: employeeID, PeriodStart: periodStart, PeriodEnd: periodEnd}
	draft, ok := m.drafts[key]
	if !ok {
		draft = Draft{EmployeeID: employeeID, PeriodStart: periodStart, PeriodEnd: periodEnd}
	}
	draft.Version++
	draft.Payload = payload
	draft.UpdatedAt = time.Now().UTC()
	m.drafts[key] = draft
	return draft, nil
}

func (m *MemoryStore) GetDraft(_ context.Context, employeeID string, periodStart, periodEnd time.Time) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[draftKey{EmployeeID: employeeID, PeriodStart: periodStart, PeriodEnd: periodEnd}]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return draft, nil
}
