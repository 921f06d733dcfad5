package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"payengine/internal/domain/audit"
	engine "payengine/internal/payroll"
	"payengine/internal/platform/metrics"
)

// Service exposes the two logical payroll operations: a non-mutating
// preview and a serialized, audited finalize. Both run the exact same
// engine; the only difference is whether the resulting YTD transition
// is committed.
type Service struct {
	store   StoreAPI
	engine  *engine.Engine
	audit   audit.Recorder
	metrics *metrics.Collector
}

func NewService(store StoreAPI, eng *engine.Engine, recorder audit.Recorder, collector *metrics.Collector) *Service {
	return &Service{store: store, engine: eng, audit: recorder, metrics: collector}
}

// Calculate runs a preview. It reads a YTD snapshot but never writes;
// the snapshot in the result is marked provisional and a superseded
// preview can simply be discarded.
func (s *Service) Calculate(ctx context.Context, input engine.PayPeriodInput) (*engine.Result, error) {
	start := time.Now()
	result, err := s.calculate(ctx, input)
	if s.metrics != nil {
		s.metrics.RecordPreview(time.Since(start), err)
	}
	return result, err
}

func (s *Service) calculate(ctx context.Context, input engine.PayPeriodInput) (*engine.Result, error) {
	snapshot, _, err := s.store.GetYTD(ctx, input.EmployeeID, input.Year())
	if err != nil {
		return nil, err
	}
	return s.engine.Run(input, snapshot, false)
}

// Finalize runs the same computation and commits it: the YTD transition
// and the immutable record are written atomically under an optimistic
// version check, so two concurrent finalizations for the same employee
// and year cannot double-apply the exemption credit. The loser gets
// ErrYTDConflict and must retry with a fresh snapshot.
func (s *Service) Finalize(ctx context.Context, input engine.PayPeriodInput, actorID string) (*engine.Result, error) {
	start := time.Now()
	result, err := s.finalize(ctx, input, actorID)
	if s.metrics != nil {
		s.metrics.RecordFinalize(time.Since(start), err, errors.Is(err, ErrYTDConflict))
	}
	return result, err
}

func (s *Service) finalize(ctx context.Context, input engine.PayPeriodInput, actorID string) (*engine.Result, error) {
	if actorID == "" {
		return nil, &engine.ValidationError{Field: "actor_id", Reason: "required"}
	}

	snapshot, _, err := s.store.GetYTD(ctx, input.EmployeeID, input.Year())
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Run(input, snapshot, true)
	if err != nil {
		return nil, err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	var prior *Record
	if existing, err := s.store.ActiveRecord(ctx, input.EmployeeID, input.PeriodStart, input.PeriodEnd); err == nil {
		prior = &existing
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	record := Record{
		ID:          uuid.NewString(),
		EmployeeID:  result.EmployeeID,
		Year:        result.Year,
		Country:     result.Country,
		Region:      result.Region,
		Frequency:   result.Frequency,
		PeriodStart: result.PeriodStart,
		PeriodEnd:   result.PeriodEnd,
		Status:      RecordStatusActive,
		FinalizedBy: actorID,
		FinalizedAt: time.Now().UTC(),
		Result:      resultJSON,
	}
	if prior != nil {
		record.Supersedes = prior.ID
	}

	if _, err := s.store.CommitFinalize(ctx, result.YTD, record); err != nil {
		if errors.Is(err, ErrYTDConflict) {
			slog.WarnContext(ctx, "payroll finalize lost ytd race",
				"employeeId", input.EmployeeID, "year", result.Year, "version", result.YTD.Version)
		}
		return nil, err
	}

	action := ActionFinalize
	var before any
	if prior != nil {
		action = ActionRefinalize
		before = prior.Result
	}
	if err := s.audit.Record(ctx, actorID, action, EntityPayrollRecord, record.ID, before, resultJSON); err != nil {
		slog.ErrorContext(ctx, "payroll audit write failed", "recordId", record.ID, "error", err)
	}

	slog.InfoContext(ctx, "payroll finalized",
		"employeeId", record.EmployeeID, "periodStart", record.PeriodStart.Format("2006-01-02"),
		"periodEnd", record.PeriodEnd.Format("2006-01-02"), "netPay", result.NetPay.String(),
		"refinalized", prior != nil)
	return result, nil
}

// YTD returns the committed year-to-date state for an employee.
func (s *Service) YTD(ctx context.Context, employeeID string, year int) (engine.YTDSnapshot, error) {
	snapshot, found, err := s.store.GetYTD(ctx, employeeID, year)
	if err != nil {
		return engine.YTDSnapshot{}, err
	}
	if !found {
		return engine.YTDSnapshot{EmployeeID: employeeID, Year: year}, nil
	}
	return snapshot, nil
}

// History lists finalized records for an employee and year, newest
// first, superseded records included.
func (s *Service) History(ctx context.Context, employeeID string, year int) ([]Record, error) {
	return s.store.ListRecords(ctx, employeeID, year)
}

// SaveDraft upserts the working copy for a period, bumping its version.
func (s *Service) SaveDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, payload json.RawMessage) (Draft, error) {
	return s.store.SaveDraft(ctx, employeeID, periodStart, periodEnd, payload)
}

// GetDraft returns the latest draft for a period.
func (s *Service) GetDraft(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Draft, error) {
	return s.store.GetDraft(ctx, employeeID, periodStart, periodEnd)
}
