package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tesouraria/internal/amqp"
	"tesouraria/internal/core"
	"tesouraria/internal/report"
)

// Service orchestrates ledger mutations across the store and the
// message queue. Writes land in the store first; queue publishes are
// best-effort and never fail the request.
type Service struct {
	store      Store
	amqpClient *amqp.Client
}

func NewService(store Store, amqpClient *amqp.Client) *Service {
	return &Service{store: store, amqpClient: amqpClient}
}

// CreateRecord assigns identity and creation time, validates and saves.
func (s *Service) CreateRecord(ctx context.Context, r core.Record) (core.Record, error) {
	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	if err := s.store.AddRecord(ctx, r); err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}
	s.publishChange(ctx, amqp.EntityRecord, amqp.ActionCreated, r.ID)
	return r, nil
}

// UpdateRecord replaces all mutable fields of an existing record. The
// identity and the original creation timestamp are preserved; the
// caller passes them through unchanged unless explicitly overridden.
func (s *Service) UpdateRecord(ctx context.Context, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	if err := s.store.UpdateRecord(ctx, r); err != nil {
		return core.Record{}, fmt.Errorf("update record: %w", err)
	}
	s.publishChange(ctx, amqp.EntityRecord, amqp.ActionUpdated, r.ID)
	return r, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	s.publishChange(ctx, amqp.EntityRecord, amqp.ActionDeleted, id)
	return nil
}

func (s *Service) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.AddExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.publishChange(ctx, amqp.EntityExpense, amqp.ActionCreated, e.ID)
	return e, nil
}

func (s *Service) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.publishChange(ctx, amqp.EntityExpense, amqp.ActionUpdated, e.ID)
	return e, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publishChange(ctx, amqp.EntityExpense, amqp.ActionDeleted, id)
	return nil
}

func (s *Service) CreateForeignDonation(ctx context.Context, d core.ForeignDonation) (core.ForeignDonation, error) {
	d.ID = uuid.NewString()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if err := d.Validate(); err != nil {
		return core.ForeignDonation{}, err
	}
	if err := s.store.AddForeignDonation(ctx, d); err != nil {
		return core.ForeignDonation{}, fmt.Errorf("save foreign donation: %w", err)
	}
	s.publishChange(ctx, amqp.EntityForeign, amqp.ActionCreated, d.ID)
	return d, nil
}

func (s *Service) UpdateForeignDonation(ctx context.Context, d core.ForeignDonation) (core.ForeignDonation, error) {
	if err := d.Validate(); err != nil {
		return core.ForeignDonation{}, err
	}
	if err := s.store.UpdateForeignDonation(ctx, d); err != nil {
		return core.ForeignDonation{}, fmt.Errorf("update foreign donation: %w", err)
	}
	s.publishChange(ctx, amqp.EntityForeign, amqp.ActionUpdated, d.ID)
	return d, nil
}

func (s *Service) DeleteForeignDonation(ctx context.Context, id string) error {
	if err := s.store.DeleteForeignDonation(ctx, id); err != nil {
		return fmt.Errorf("delete foreign donation: %w", err)
	}
	s.publishChange(ctx, amqp.EntityForeign, amqp.ActionDeleted, id)
	return nil
}

// BuildReport snapshots storage and runs the filter/aggregate/build
// pipeline over it.
func (s *Service) BuildReport(ctx context.Context, r core.Range, opts report.Options) (report.Document, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return report.Document{}, fmt.Errorf("snapshot: %w", err)
	}
	return report.Build(report.Input{
		Records:          snap.Records,
		Expenses:         snap.Expenses,
		ForeignDonations: snap.ForeignDonations,
	}, r, opts)
}

// DashboardTotals aggregates the unfiltered collections, the figures
// the dashboard cards show.
func (s *Service) DashboardTotals(ctx context.Context) (core.Totals, Snapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.Totals{}, Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return core.ComputeTotals(snap.Records, snap.Expenses, snap.ForeignDonations), snap, nil
}

// RequestExport queues an export of the given period for the worker.
func (s *Service) RequestExport(ctx context.Context, r core.Range, path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if s.amqpClient == nil {
		return fmt.Errorf("export queue not configured")
	}
	if err := s.amqpClient.PublishExportRequest(ctx, r.From, r.To, path); err != nil {
		return fmt.Errorf("publish export request: %w", err)
	}
	return nil
}

func (s *Service) Store() Store { return s.store }

func (s *Service) publishChange(ctx context.Context, entity, action, id string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerChange(ctx, entity, action, id); err != nil {
		// The store write already succeeded; notification loss is
		// tolerable and the periodic worker tick covers it.
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}

// Close releases the queue connection if one was configured.
func (s *Service) Close() error {
	if s.amqpClient != nil {
		return s.amqpClient.Close()
	}
	return nil
}
