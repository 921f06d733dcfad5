package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	engine "payengine/internal/payroll"
)

// Store is the Postgres-backed StoreAPI.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetYTD(ctx context.Context, employeeID string, year int) (engine.YTDSnapshot, bool, error) {
	snapshot := engine.YTDSnapshot{EmployeeID: employeeID, Year: year}
	err := s.DB.QueryRow(ctx, `
    SELECT annual_credit, used, version
    FROM payroll_ytd_state
    WHERE employee_id = $1 AND year = $2
  `, employeeID, year).Scan(&snapshot.AnnualCredit, &snapshot.Used, &snapshot.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.YTDSnapshot{}, false, nil
	}
	if err != nil {
		return engine.YTDSnapshot{}, false, err
	}
	return snapshot, true, nil
}

func (s *Store) CommitFinalize(ctx context.Context, snapshot engine.YTDSnapshot, record Record) (Record, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if snapshot.Version == 0 {
		// First finalize of this (employee, year): the insert loses the
		// race if another finalize created the row in the meantime.
		tag, err := tx.Exec(ctx, `
      INSERT INTO payroll_ytd_state (employee_id, year, annual_credit, used, version)
      VALUES ($1,$2,$3,$4,1)
      ON CONFLICT (employee_id, year) DO NOTHING
    `, snapshot.EmployeeID, snapshot.Year, snapshot.AnnualCredit, snapshot.Used)
		if err != nil {
			return Record{}, err
		}
		if tag.RowsAffected() == 0 {
			return Record{}, ErrYTDConflict
		}
	} else {
		tag, err := tx.Exec(ctx, `
      UPDATE payroll_ytd_state
      SET used = $3, version = version + 1, updated_at = now()
      WHERE employee_id = $1 AND year = $2 AND version = $4
    `, snapshot.EmployeeID, snapshot.Year, snapshot.Used, snapshot.Version)
		if err != nil {
			return Record{}, err
		}
		if tag.RowsAffected() == 0 {
			return Record{}, ErrYTDConflict
		}
	}

	if _, err := tx.Exec(ctx, `
    UPDATE payroll_records
    SET status = $4
    WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND status = $5
  `, record.EmployeeID, record.PeriodStart, record.PeriodEnd, RecordStatusSuperseded, RecordStatusActive); err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO payroll_records
      (id, employee_id, year, country, region, pay_frequency, period_start, period_end, status, supersedes, finalized_by, finalized_at, result_json)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
  `, record.ID, record.EmployeeID, record.Year, record.Country, record.Region, string(record.Frequency),
		record.PeriodStart, record.PeriodEnd, record.Status, nullIfEmpty(record.Supersedes),
		record.FinalizedBy, record.FinalizedAt, record.Result); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Store) ActiveRecord(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Record, error) {
	record, err := s.scanRecord(s.DB.QueryRow(ctx, `
    SELECT id, employee_id, year, country, region, pay_frequency, period_start, period_end,
           status, COALESCE(supersedes::text, ''), finalized_by, finalized_at, result_json
    FROM payroll_records
    WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND status = $4
  `, employeeID, periodStart, periodEnd, RecordStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return record, err
}

func (s *Store) ListRecords(ctx context.Context, employeeID string, year int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, year, country, region, pay_frequency, period_start, period_end,
           status, COALESCE(supersedes::text, ''), finalized_by, finalized_at, result_json
    FROM payroll_records
    WHERE employee_id = $1 AND year = $2
    ORDER BY finalized_at DESC
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := s.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) SaveDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, payload json.RawMessage) (Draft, error) {
	draft := Draft{EmployeeID: employeeID, PeriodStart: periodStart, PeriodEnd: periodEnd, Payload: payload}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_drafts (employee_id, period_start, period_end, version, payload, updated_at)
    VALUES ($1,$2,$3,1,$4,now())
    ON CONFLICT (employee_id, period_start, period_end)
    DO UPDATE SET version = payroll_drafts.version + 1, payload = EXCLUDED.payload, updated_at = now()
    RETURNING version, updated_at
  `, employeeID, periodStart, periodEnd, payload).Scan(&draft.Version, &draft.UpdatedAt)
	if err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (s *Store) GetDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Draft, error) {
	draft := Draft{EmployeeID: employeeID, PeriodStart: periodStart, PeriodEnd: periodEnd}
	err := s.DB.QueryRow(ctx, `
    SELECT version, payload, updated_at
    FROM payroll_drafts
    WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
  `, employeeID, periodStart, periodEnd).Scan(&draft.Version, &draft.Payload, &draft.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (s *Store) scanRecord(row pgx.Row) (Record, error) {
	var record Record
	var frequency string
	err := row.Scan(&record.ID, &record.EmployeeID, &record.Year, &record.Country, &record.Region,
		&frequency, &record.PeriodStart, &record.PeriodEnd, &record.Status, &record.Supersedes,
		&record.FinalizedBy, &record.FinalizedAt, &record.Result)
	if err != nil {
		return Record{}, err
	}
	record.Frequency = engine.PayFrequency(frequency)
	return record, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
