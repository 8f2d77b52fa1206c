// Package ledger defines the repository boundary between the reporting
// pipeline and whatever persists the transaction collections, plus the
// service that orchestrates writes and change notifications.
package ledger

import (
	"context"
	"errors"

	"tesouraria/internal/core"
)

var ErrNotFound = errors.New("entry not found")

// Snapshot is one consistent read of all three collections, the unit
// the report pipeline consumes. The pipeline never sees partial or
// optimistic state; it is re-invoked with a fresh snapshot when the
// caller wants updated output.
type Snapshot struct {
	Records          []core.Record
	Expenses         []core.Expense
	ForeignDonations []core.ForeignDonation
}

// Store is the persistence port. Updates are full-record replacements
// keyed by ID; implementations preserve insertion order on listing.
type Store interface {
	ListRecords(ctx context.Context) ([]core.Record, error)
	AddRecord(ctx context.Context, r core.Record) error
	UpdateRecord(ctx context.Context, r core.Record) error
	DeleteRecord(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]core.Expense, error)
	AddExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	ListForeignDonations(ctx context.Context) ([]core.ForeignDonation, error)
	AddForeignDonation(ctx context.Context, d core.ForeignDonation) error
	UpdateForeignDonation(ctx context.Context, d core.ForeignDonation) error
	DeleteForeignDonation(ctx context.Context, id string) error

	Snapshot(ctx context.Context) (Snapshot, error)
}

// GetRecord reads one record by listing; stores keep collections small
// enough that a dedicated lookup query is not worth a wider interface.
func GetRecord(ctx context.Context, s Store, id string) (core.Record, error) {
	records, err := s.ListRecords(ctx)
	if err != nil {
		return core.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Record{}, ErrNotFound
}

func GetExpense(ctx context.Context, s Store, id string) (core.Expense, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	for _, e := range expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, ErrNotFound
}

func GetForeignDonation(ctx context.Context, s Store, id string) (core.ForeignDonation, error) {
	donations, err := s.ListForeignDonations(ctx)
	if err != nil {
		return core.ForeignDonation{}, err
	}
	for _, d := range donations {
		if d.ID == id {
			return d, nil
		}
	}
	return core.ForeignDonation{}, ErrNotFound
}
