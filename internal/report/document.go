// Package report assembles filtered ledger entries and their totals
// into an ordered, render-agnostic document. The builder is a pure
// function: it reads storage snapshots and never writes anywhere.
package report

import (
	"tesouraria/internal/core"
)

const (
	// DateLayout is the fixed date display pattern used in every table.
	DateLayout = "2006/01/02"
	// captionLayout is only used for the period caption under the title.
	captionLayout = "02/01/2006"

	Title           = "Relatório de Doações e Despesas"
	SignatureLabel  = "Responsible Signature"
	DefaultFileName = "relatorio-doacoes.xlsx"

	// maxDescriptionLen bounds foreign-donation descriptions in the
	// compact (export) variant.
	maxDescriptionLen = 20
)

// Document is an ordered sequence of sections plus trailing signature
// placeholders, ready for an export or render stage.
type Document struct {
	Title      string      `json:"title"`
	Caption    string      `json:"caption"`
	Sections   []Section   `json:"sections"`
	Signatures []string    `json:"signatures"`
	Totals     core.Totals `json:"totals"`
}

// Section is one table of the document: column headers, one row per
// entry in original order, and an optional footer carrying the subtotal
// under the amount column.
type Section struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows"`
	Footer  []string   `json:"footer,omitempty"`
	// EmphasizeLastRow marks the bottom-line figure (summary balance)
	// for bold rendering on any surface.
	EmphasizeLastRow bool `json:"emphasize_last_row,omitempty"`
}

// Options select the rendering variant.
type Options struct {
	// CompactDescriptions truncates long foreign-donation descriptions
	// to 20 characters with an ellipsis, as the paginated export does.
	// The on-screen variant shows them in full.
	CompactDescriptions bool
}

// Input is one snapshot of the three transaction collections.
type Input struct {
	Records          []core.Record
	Expenses         []core.Expense
	ForeignDonations []core.ForeignDonation
}

// Build filters the snapshot by the given range, computes totals and
// assembles the document. Identical inputs always produce an identical
// document. An unusable range is rejected before any filtering.
func Build(in Input, r core.Range, opts Options) (Document, error) {
	if err := r.Validate(); err != nil {
		return Document{}, err
	}

	records := core.FilterByRange(in.Records, r)
	expenses := core.FilterByRange(in.Expenses, r)
	foreign := core.FilterByRange(in.ForeignDonations, r)
	totals := core.ComputeTotals(records, expenses, foreign)

	doc := Document{
		Title:   Title,
		Caption: "Período: " + r.From.Format(captionLayout) + " até " + r.To.Format(captionLayout),
		Totals:  totals,
		Sections: []Section{
			recordsSection(records, totals.Donations),
			expensesSection(expenses, totals.Expenses),
			foreignSection(foreign, totals.Foreign, opts),
			summarySection(totals),
		},
		Signatures: []string{SignatureLabel, SignatureLabel},
	}
	return doc, nil
}

func recordsSection(records []core.Record, subtotal core.Money) Section {
	s := Section{
		Title:   "Donation Records",
		Columns: []string{"Date", "Service", "Name", "Category", "Method", "Value"},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		s.Rows = append(s.Rows, []string{
			r.CreatedAt.Format(DateLayout),
			r.ServiceDescription,
			r.DonorName,
			string(r.Category),
			string(r.PaymentMethod),
			r.Amount.Format(),
		})
	}
	s.Footer = []string{"", "", "", "", "Total:", subtotal.Format()}
	return s
}

func expensesSection(expenses []core.Expense, subtotal core.Money) Section {
	s := Section{
		Title:   "Expenses",
		Columns: []string{"Date", "Description", "Value"},
		Rows:    make([][]string, 0, len(expenses)),
	}
	for _, e := range expenses {
		s.Rows = append(s.Rows, []string{
			e.CreatedAt.Format(DateLayout),
			e.ServiceDescription,
			e.Amount.Format(),
		})
	}
	s.Footer = []string{"", "Total:", subtotal.Format()}
	return s
}

func foreignSection(donations []core.ForeignDonation, subtotal core.Money, opts Options) Section {
	s := Section{
		Title:   "Foreign Donations",
		Columns: []string{"Date", "Name", "Currency", "Method", "Description", "Value"},
		Rows:    make([][]string, 0, len(donations)),
	}
	for _, d := range donations {
		desc := d.Description
		if opts.CompactDescriptions {
			desc = truncate(desc, maxDescriptionLen)
		}
		s.Rows = append(s.Rows, []string{
			d.CreatedAt.Format(DateLayout),
			d.DonorName,
			string(d.Currency),
			string(d.PaymentMethod),
			desc,
			foreignValue(d),
		})
	}
	s.Footer = []string{"", "", "", "", "Total:", subtotal.Format()}
	return s
}

// foreignValue prefixes the amount with the donation's own currency
// code. "Other" has no code worth printing, so the bare number is used.
func foreignValue(d core.ForeignDonation) string {
	if d.Currency == core.OtherCurrency {
		return d.Amount.Format()
	}
	return string(d.Currency) + " " + d.Amount.Format()
}

func summarySection(t core.Totals) Section {
	return Section{
		Title:   "Summary",
		Columns: []string{"", ""},
		Rows: [][]string{
			{"Total Donations:", t.Donations.Format()},
			{"Total Expenses:", t.Expenses.Format()},
			{"Total Foreign Donations:", t.Foreign.Format()},
			{"Total Balance:", t.Balance.Format()},
		},
		EmphasizeLastRow: true,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
