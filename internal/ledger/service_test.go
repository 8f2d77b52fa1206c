package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/ledger"
	"tesouraria/internal/memory"
	"tesouraria/internal/report"
)

func newService() *ledger.Service {
	return ledger.NewService(memory.New(), nil)
}

func TestCreateRecordAssignsIDAndTimestamp(t *testing.T) {
	svc := newService()

	created, err := svc.CreateRecord(context.Background(), core.Record{
		ServiceDescription: "Sunday Service",
		CountedBy:          "John",
		DonorName:          "Maria",
		Amount:             core.Money{Cents: 15000},
		Category:           core.Tithe,
		PaymentMethod:      core.Cash,
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to default to now")
	}
}

func TestCreateRecordKeepsExplicitDate(t *testing.T) {
	svc := newService()
	when := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateRecord(context.Background(), core.Record{
		ServiceDescription: "Sunday Service",
		CountedBy:          "John",
		DonorName:          "Maria",
		Amount:             core.Money{Cents: 15000},
		Category:           core.Tithe,
		PaymentMethod:      core.Cash,
		CreatedAt:          when,
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if !created.CreatedAt.Equal(when) {
		t.Fatalf("CreatedAt = %v, want the backdated %v", created.CreatedAt, when)
	}
}

func TestCreateRecordRejectsInvalid(t *testing.T) {
	svc := newService()

	_, err := svc.CreateRecord(context.Background(), core.Record{
		ServiceDescription: "Sunday Service",
		CountedBy:          "John",
		DonorName:          "Maria",
		Amount:             core.Money{Cents: -5},
		Category:           core.Tithe,
		PaymentMethod:      core.Cash,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	svc := newService()

	_, err := svc.UpdateRecord(context.Background(), core.Record{
		ID:                 "missing",
		ServiceDescription: "Sunday Service",
		CountedBy:          "John",
		DonorName:          "Maria",
		Amount:             core.Money{Cents: 15000},
		Category:           core.Tithe,
		PaymentMethod:      core.Cash,
		CreatedAt:          time.Now(),
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildReportFromService(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.CreateRecord(ctx, core.Record{
		ServiceDescription: "Sunday Service",
		CountedBy:          "John",
		DonorName:          "Maria",
		Amount:             core.Money{Cents: 15000},
		Category:           core.Tithe,
		PaymentMethod:      core.Cash,
		CreatedAt:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, core.Expense{
		ServiceDescription: "Electricity",
		Amount:             core.Money{Cents: 35000},
		CreatedAt:          time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	doc, err := svc.BuildReport(ctx, core.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}, report.Options{})
	if err != nil {
		t.Fatalf("BuildReport returned error: %v", err)
	}
	if doc.Totals.Balance.Cents != -20000 {
		t.Fatalf("balance = %d cents, want -20000", doc.Totals.Balance.Cents)
	}
}

func TestDashboardTotals(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.CreateForeignDonation(ctx, core.ForeignDonation{
		DonorName:     "Visitor",
		Amount:        core.Money{Cents: 100000},
		Currency:      core.USD,
		PaymentMethod: core.Cash,
	}); err != nil {
		t.Fatalf("CreateForeignDonation: %v", err)
	}

	totals, snap, err := svc.DashboardTotals(ctx)
	if err != nil {
		t.Fatalf("DashboardTotals returned error: %v", err)
	}
	if totals.Balance.Cents != 100000 {
		t.Fatalf("balance = %d cents, want 100000", totals.Balance.Cents)
	}
	if len(snap.ForeignDonations) != 1 {
		t.Fatalf("snapshot foreign donations = %d, want 1", len(snap.ForeignDonations))
	}
}

func TestRequestExportWithoutBroker(t *testing.T) {
	svc := newService()

	err := svc.RequestExport(context.Background(), core.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}, "out.xlsx")
	if err == nil {
		t.Fatal("expected error when no broker is configured")
	}
}
