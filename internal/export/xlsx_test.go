package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"tesouraria/internal/core"
	"tesouraria/internal/report"
)

func sampleDocument(t *testing.T) report.Document {
	t.Helper()

	in := report.Input{
		Records: []core.Record{{
			ID:                 "r1",
			ServiceDescription: "Sunday Service",
			CountedBy:          "John",
			DonorName:          "Maria",
			Amount:             core.Money{Cents: 15000},
			Category:           core.Tithe,
			PaymentMethod:      core.Cash,
			CreatedAt:          time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		}},
		Expenses: []core.Expense{{
			ID:                 "e1",
			ServiceDescription: "Electricity",
			Amount:             core.Money{Cents: 35000},
			CreatedAt:          time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		}},
		ForeignDonations: []core.ForeignDonation{{
			ID:            "f1",
			DonorName:     "Visitor",
			Amount:        core.Money{Cents: 100000},
			Currency:      core.USD,
			PaymentMethod: core.Cash,
			Description:   "Mission support",
			CreatedAt:     time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		}},
	}
	r := core.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	doc, err := report.Build(in, r, report.Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return doc
}

func TestWriteXLSX(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "out", report.DefaultFileName)

	if err := WriteXLSX(doc, path); err != nil {
		t.Fatalf("WriteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Relatório" {
		t.Fatalf("unexpected sheet list: %v", sheets)
	}

	rows, err := f.GetRows("Relatório")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) == 0 || rows[0][0] != report.Title {
		t.Fatalf("first cell = %v, want report title", rows)
	}

	flat := map[string]bool{}
	for _, row := range rows {
		for _, cell := range row {
			flat[cell] = true
		}
	}
	for _, want := range []string{
		doc.Caption,
		"Donation Records", "Expenses", "Foreign Donations", "Summary",
		"Total Balance:", "800.00", "USD 1000.00",
		"Responsible Signature",
	} {
		if !flat[want] {
			t.Errorf("workbook missing cell %q", want)
		}
	}

	// Both signature captions share one row, under a row of rules.
	sigRow := -1
	for i, row := range rows {
		n := 0
		for _, cell := range row {
			if cell == report.SignatureLabel {
				n++
			}
		}
		if n > 0 {
			if n != 2 {
				t.Fatalf("row %d holds %d signature captions, want 2", i+1, n)
			}
			sigRow = i
		}
	}
	if sigRow < 1 {
		t.Fatal("signature caption row not found")
	}
	rules := 0
	for _, cell := range rows[sigRow-1] {
		if cell == signatureRule {
			rules++
		}
	}
	if rules != 2 {
		t.Fatalf("rule row holds %d rules, want 2", rules)
	}
}

func TestWriteXLSXEmptyDocument(t *testing.T) {
	r := core.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	doc, err := report.Build(report.Input{}, r, report.Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), report.DefaultFileName)
	if err := WriteXLSX(doc, path); err != nil {
		t.Fatalf("WriteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Relatório")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	found := false
	for _, row := range rows {
		for _, cell := range row {
			if cell == "Summary" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("empty report workbook missing Summary section")
	}
}
