package report

import (
	"strings"
	"testing"
	"time"

	"tesouraria/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleInput() Input {
	return Input{
		Records: []core.Record{{
			ID:                 "rec-1",
			ServiceDescription: "Culto de Domingo",
			CountedBy:          "Maria Oliveira",
			DonorName:          "João da Silva",
			Amount:             core.Money{Cents: 15000},
			Category:           core.Tithe,
			PaymentMethod:      core.Cash,
			CreatedAt:          day(2025, 6, 15),
		}},
		Expenses: []core.Expense{{
			ID:                 "exp-1",
			ServiceDescription: "Conta de Luz",
			Amount:             core.Money{Cents: 35000},
			CreatedAt:          day(2025, 6, 10),
		}},
		ForeignDonations: []core.ForeignDonation{{
			ID:            "for-1",
			DonorName:     "Igreja Parceira EUA",
			Amount:        core.Money{Cents: 100000},
			Currency:      core.USD,
			PaymentMethod: core.Transfer,
			Description:   "Doação para projeto social",
			CreatedAt:     day(2025, 6, 15),
		}},
	}
}

func june() core.Range {
	return core.Range{From: day(2025, 6, 1), To: day(2025, 6, 30)}
}

func TestBuildSectionOrderAndSignatures(t *testing.T) {
	doc, err := Build(sampleInput(), june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	wantTitles := []string{"Donation Records", "Expenses", "Foreign Donations", "Summary"}
	if len(doc.Sections) != len(wantTitles) {
		t.Fatalf("expected %d sections, got %d", len(wantTitles), len(doc.Sections))
	}
	for i, want := range wantTitles {
		if doc.Sections[i].Title != want {
			t.Fatalf("section %d: expected %q, got %q", i, want, doc.Sections[i].Title)
		}
	}
	if len(doc.Signatures) != 2 || doc.Signatures[0] != SignatureLabel || doc.Signatures[1] != SignatureLabel {
		t.Fatalf("expected two signature placeholders, got %v", doc.Signatures)
	}
}

func TestBuildTotalsScenario(t *testing.T) {
	doc, err := Build(sampleInput(), june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := doc.Totals.Donations.Format(); got != "150.00" {
		t.Fatalf("donations: expected 150.00, got %s", got)
	}
	if got := doc.Totals.Expenses.Format(); got != "350.00" {
		t.Fatalf("expenses: expected 350.00, got %s", got)
	}
	if got := doc.Totals.Foreign.Format(); got != "1000.00" {
		t.Fatalf("foreign: expected 1000.00, got %s", got)
	}
	if got := doc.Totals.Balance.Format(); got != "800.00" {
		t.Fatalf("balance: expected 800.00, got %s", got)
	}
}

func TestBuildFooterMatchesTotals(t *testing.T) {
	doc, err := Build(sampleInput(), june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Footer subtotal is the last cell, preceded by the "Total:" label.
	checks := []struct {
		section int
		want    string
	}{
		{0, doc.Totals.Donations.Format()},
		{1, doc.Totals.Expenses.Format()},
		{2, doc.Totals.Foreign.Format()},
	}
	for _, c := range checks {
		footer := doc.Sections[c.section].Footer
		if len(footer) == 0 {
			t.Fatalf("section %d missing footer", c.section)
		}
		if footer[len(footer)-1] != c.want {
			t.Fatalf("section %d footer: expected %s, got %s", c.section, c.want, footer[len(footer)-1])
		}
		if footer[len(footer)-2] != "Total:" {
			t.Fatalf("section %d footer label: got %q", c.section, footer[len(footer)-2])
		}
	}
}

func TestBuildNonOverlappingRangeStillRenders(t *testing.T) {
	july := core.Range{From: day(2025, 7, 1), To: day(2025, 7, 31)}
	doc, err := Build(sampleInput(), july, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 3; i++ {
		if len(doc.Sections[i].Rows) != 0 {
			t.Fatalf("section %d should be empty, has %d rows", i, len(doc.Sections[i].Rows))
		}
	}
	if doc.Totals.Balance.Cents != 0 {
		t.Fatalf("expected zero balance, got %s", doc.Totals.Balance.Format())
	}
	if len(doc.Sections) != 4 || len(doc.Signatures) != 2 {
		t.Fatalf("empty report must keep all sections and signature placeholders")
	}
	summary := doc.Sections[3]
	if summary.Rows[3][1] != "0.00" {
		t.Fatalf("expected 0.00 balance row, got %q", summary.Rows[3][1])
	}
}

func TestBuildSummaryRows(t *testing.T) {
	doc, err := Build(sampleInput(), june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	summary := doc.Sections[3]
	wantLabels := []string{"Total Donations:", "Total Expenses:", "Total Foreign Donations:", "Total Balance:"}
	if len(summary.Rows) != 4 {
		t.Fatalf("expected 4 summary rows, got %d", len(summary.Rows))
	}
	for i, want := range wantLabels {
		if summary.Rows[i][0] != want {
			t.Fatalf("summary row %d: expected %q, got %q", i, want, summary.Rows[i][0])
		}
	}
	if !summary.EmphasizeLastRow {
		t.Fatalf("bottom-line row must be emphasized")
	}
}

func TestBuildForeignValuePrefix(t *testing.T) {
	in := sampleInput()
	in.ForeignDonations = append(in.ForeignDonations, core.ForeignDonation{
		ID:            "for-2",
		DonorName:     "Anonymous",
		Amount:        core.Money{Cents: 5000},
		Currency:      core.OtherCurrency,
		PaymentMethod: core.Cash,
		CreatedAt:     day(2025, 6, 20),
	})
	doc, err := Build(in, june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rows := doc.Sections[2].Rows
	if rows[0][5] != "USD 1000.00" {
		t.Fatalf("expected currency-code prefix, got %q", rows[0][5])
	}
	// "Other" has no printable code: bare number only.
	if rows[1][5] != "50.00" {
		t.Fatalf("expected bare value for Other currency, got %q", rows[1][5])
	}
}

func TestBuildCompactDescriptions(t *testing.T) {
	in := sampleInput()
	full, err := Build(in, june(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	compact, err := Build(in, june(), Options{CompactDescriptions: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	fullDesc := full.Sections[2].Rows[0][4]
	compactDesc := compact.Sections[2].Rows[0][4]
	if fullDesc != "Doação para projeto social" {
		t.Fatalf("on-screen variant must keep full description, got %q", fullDesc)
	}
	if !strings.HasSuffix(compactDesc, "...") || len([]rune(compactDesc)) != 23 {
		t.Fatalf("export variant should truncate to 20 runes plus ellipsis, got %q", compactDesc)
	}
}

func TestBuildInvalidRange(t *testing.T) {
	_, err := Build(sampleInput(), core.Range{}, Options{})
	if err != core.ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	in := sampleInput()
	a, _ := Build(in, june(), Options{})
	b, _ := Build(in, june(), Options{})
	if a.Title != b.Title || a.Caption != b.Caption || a.Totals != b.Totals {
		t.Fatalf("identical inputs must produce identical documents")
	}
	if len(a.Sections) != len(b.Sections) {
		t.Fatalf("section count differs")
	}
	for i := range a.Sections {
		if len(a.Sections[i].Rows) != len(b.Sections[i].Rows) {
			t.Fatalf("section %d row count differs", i)
		}
	}
}
