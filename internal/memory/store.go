// Package memory provides an in-process ledger store, the default
// backend for development and tests. Optional JSON seed files let a
// deployment start with known data instead of an empty ledger.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"tesouraria/internal/core"
	"tesouraria/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	records  []core.Record
	expenses []core.Expense
	foreign  []core.ForeignDonation
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from JSON files under base, if present.
// Missing or malformed files are skipped; an empty store is a valid
// starting point.
func NewFromFiles(base string) *Store {
	s := New()
	readJSON(filepath.Join(base, "seed_records.json"), &s.records)
	readJSON(filepath.Join(base, "seed_expenses.json"), &s.expenses)
	readJSON(filepath.Join(base, "seed_foreign_donations.json"), &s.foreign)
	return s
}

func readJSON(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

func (s *Store) ListRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.records...), nil
}

func (s *Store) AddRecord(_ context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *Store) UpdateRecord(_ context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == r.ID {
			s.records[i] = r
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = e
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListForeignDonations(_ context.Context) ([]core.ForeignDonation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ForeignDonation(nil), s.foreign...), nil
}

func (s *Store) AddForeignDonation(_ context.Context, d core.ForeignDonation) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foreign = append(s.foreign, d)
	return nil
}

func (s *Store) UpdateForeignDonation(_ context.Context, d core.ForeignDonation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.foreign {
		if s.foreign[i].ID == d.ID {
			s.foreign[i] = d
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) DeleteForeignDonation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.foreign {
		if s.foreign[i].ID == id {
			s.foreign = append(s.foreign[:i], s.foreign[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

// Snapshot copies all three collections under one lock acquisition, so
// the report pipeline never observes a mutation in between.
func (s *Store) Snapshot(_ context.Context) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Snapshot{
		Records:          append([]core.Record(nil), s.records...),
		Expenses:         append([]core.Expense(nil), s.expenses...),
		ForeignDonations: append([]core.ForeignDonation(nil), s.foreign...),
	}, nil
}

var _ ledger.Store = (*Store)(nil)
