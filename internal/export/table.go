package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tesouraria/internal/report"
)

// WriteText renders doc as terminal tables, one per section, in the
// same order the workbook would lay them out.
func WriteText(w io.Writer, doc report.Document) {
	fmt.Fprintln(w, text.Bold.Sprint(doc.Title))
	fmt.Fprintln(w, doc.Caption)
	fmt.Fprintln(w)

	for _, sec := range doc.Sections {
		fmt.Fprintln(w, text.Bold.Sprint(sec.Title))

		t := table.NewWriter()
		t.SetOutputMirror(w)

		if len(sec.Columns) > 0 {
			header := table.Row{}
			for _, col := range sec.Columns {
				header = append(header, col)
			}
			t.AppendHeader(header)
		}

		for i, cells := range sec.Rows {
			row := table.Row{}
			emphasize := sec.EmphasizeLastRow && i == len(sec.Rows)-1
			for _, cell := range cells {
				if emphasize {
					row = append(row, text.Bold.Sprint(cell))
				} else {
					row = append(row, cell)
				}
			}
			t.AppendRow(row)
		}

		if len(sec.Footer) > 0 {
			footer := table.Row{}
			for _, cell := range sec.Footer {
				footer = append(footer, text.Bold.Sprint(cell))
			}
			t.AppendFooter(footer)
		}

		t.SetStyle(table.StyleRounded)
		t.Style().Format.Header = text.FormatDefault
		t.Style().Format.Footer = text.FormatDefault

		if n := columnCount(sec); n > 0 {
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: n, Align: text.AlignRight},
			})
		}

		t.Render()
		fmt.Fprintln(w)
	}

	// Signature blocks sit side by side: one line of rules, one line of
	// captions padded to the rule width.
	if len(doc.Signatures) > 0 {
		fmt.Fprintln(w)
		rules := make([]string, len(doc.Signatures))
		labels := make([]string, len(doc.Signatures))
		for i, sig := range doc.Signatures {
			rules[i] = signatureRule
			labels[i] = fmt.Sprintf("%-*s", len(signatureRule), sig)
		}
		fmt.Fprintln(w, strings.Join(rules, "    "))
		fmt.Fprintln(w, strings.TrimRight(strings.Join(labels, "    "), " "))
	}
}

// columnCount returns the widest row of the section so the value
// column (always last) can be right-aligned.
func columnCount(sec report.Section) int {
	n := len(sec.Columns)
	for _, row := range sec.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}
