// Package storage persists the ledger in SQLite. Amounts are stored as
// integer cents and timestamps as RFC 3339 UTC strings, so rows survive
// round-trips without floating point or timezone drift.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service_description, counted_by, donor_name,
		       amount_cents, category, payment_method, created_at
		FROM records
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var rec core.Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.ServiceDescription, &rec.CountedBy,
			&rec.DonorName, &rec.Amount.Cents, &rec.Category,
			&rec.PaymentMethod, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddRecord(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, service_description, counted_by, donor_name,
		                     amount_cents, category, payment_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ServiceDescription, rec.CountedBy, rec.DonorName,
		rec.Amount.Cents, string(rec.Category), string(rec.PaymentMethod),
		encodeTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateRecord(ctx context.Context, rec core.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE records
		SET service_description = ?, counted_by = ?, donor_name = ?,
		    amount_cents = ?, category = ?, payment_method = ?, created_at = ?
		WHERE id = ?`,
		rec.ServiceDescription, rec.CountedBy, rec.DonorName,
		rec.Amount.Cents, string(rec.Category), string(rec.PaymentMethod),
		encodeTime(rec.CreatedAt), rec.ID)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service_description, amount_cents, created_at
		FROM expenses
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ServiceDescription, &e.Amount.Cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, service_description, amount_cents, created_at)
		VALUES (?, ?, ?, ?)`,
		e.ID, e.ServiceDescription, e.Amount.Cents, encodeTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET service_description = ?, amount_cents = ?, created_at = ?
		WHERE id = ?`,
		e.ServiceDescription, e.Amount.Cents, encodeTime(e.CreatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) ListForeignDonations(ctx context.Context) ([]core.ForeignDonation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, donor_name, amount_cents, currency, payment_method,
		       description, created_at
		FROM foreign_donations
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list foreign donations: %w", err)
	}
	defer rows.Close()

	var out []core.ForeignDonation
	for rows.Next() {
		var d core.ForeignDonation
		var createdAt string
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Amount.Cents, &d.Currency,
			&d.PaymentMethod, &d.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan foreign donation: %w", err)
		}
		if d.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign donations: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddForeignDonation(ctx context.Context, d core.ForeignDonation) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO foreign_donations (id, donor_name, amount_cents, currency,
		                               payment_method, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DonorName, d.Amount.Cents, string(d.Currency),
		string(d.PaymentMethod), d.Description, encodeTime(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert foreign donation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateForeignDonation(ctx context.Context, d core.ForeignDonation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE foreign_donations
		SET donor_name = ?, amount_cents = ?, currency = ?,
		    payment_method = ?, description = ?, created_at = ?
		WHERE id = ?`,
		d.DonorName, d.Amount.Cents, string(d.Currency),
		string(d.PaymentMethod), d.Description, encodeTime(d.CreatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("update foreign donation: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteForeignDonation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foreign_donations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete foreign donation: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var err error
	if snap.Records, err = r.ListRecords(ctx); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.Expenses, err = r.ListExpenses(ctx); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.ForeignDonations, err = r.ListForeignDonations(ctx); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

var _ ledger.Store = (*SQLiteRepository)(nil)
