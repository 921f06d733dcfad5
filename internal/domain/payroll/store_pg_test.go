package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"payengine/internal/db"
	engine "payengine/internal/payroll"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestStoreCommitFinalizeOptimisticConcurrency(t *testing.T) {
	store := NewStore(testPool(t))
	ctx := context.Background()

	employeeID := "emp-" + uuid.NewString()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	newRecord := func() Record {
		return Record{
			ID:          uuid.NewString(),
			EmployeeID:  employeeID,
			Year:        2025,
			Country:     "ca",
			Region:      "on",
			Frequency:   engine.FrequencyWeekly,
			PeriodStart: start,
			PeriodEnd:   end,
			Status:      RecordStatusActive,
			FinalizedBy: "mgr-9",
			FinalizedAt: time.Now().UTC(),
			Result:      json.RawMessage(`{"netPay":"863.89"}`),
		}
	}

	snapshot := engine.YTDSnapshot{
		EmployeeID:   employeeID,
		Year:         2025,
		AnnualCredit: decimal.RequireFromString("16129"),
		Used:         decimal.RequireFromString("310.17"),
	}

	if _, err := store.CommitFinalize(ctx, snapshot, newRecord()); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	got, found, err := store.GetYTD(ctx, employeeID, 2025)
	if err != nil || !found {
		t.Fatalf("ytd after commit: found=%t err=%v", found, err)
	}
	if got.Version != 1 {
		t.Fatalf("version = %d, want 1", got.Version)
	}
	if !got.Used.Equal(snapshot.Used) {
		t.Fatalf("used = %s, want %s", got.Used, snapshot.Used)
	}

	// A stale snapshot (version 0, row now exists) must conflict.
	if _, err := store.CommitFinalize(ctx, snapshot, newRecord()); !errors.Is(err, ErrYTDConflict) {
		t.Fatalf("stale commit error = %v, want ErrYTDConflict", err)
	}

	// A fresh snapshot commits and supersedes the prior period record.
	got.Used = decimal.RequireFromString("620.34")
	second := newRecord()
	if _, err := store.CommitFinalize(ctx, got, second); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	active, err := store.ActiveRecord(ctx, employeeID, start, end)
	if err != nil {
		t.Fatalf("active record: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("active record = %s, want %s", active.ID, second.ID)
	}

	records, err := store.ListRecords(ctx, employeeID, 2025)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	superseded := 0
	for _, r := range records {
		if r.Status == RecordStatusSuperseded {
			superseded++
		}
	}
	if superseded != 1 {
		t.Fatalf("superseded count = %d, want 1", superseded)
	}
}

func TestStoreDraftUpsert(t *testing.T) {
	store := NewStore(testPool(t))
	ctx := context.Background()

	employeeID := "emp-" + uuid.NewString()
	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	if _, err := store.GetDraft(ctx, employeeID, start, end); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}

	first, err := store.SaveDraft(ctx, employeeID, start, end, json.RawMessage(`{"hours_worked":"40"}`))
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("first version = %d, want 1", first.Version)
	}

	second, err := store.SaveDraft(ctx, employeeID, start, end, json.RawMessage(`{"hours_worked":"42"}`))
	if err != nil {
		t.Fatalf("save draft again: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("second version = %d, want 2", second.Version)
	}
}
