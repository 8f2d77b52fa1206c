// Package export renders a report document to its delivery formats:
// an XLSX workbook for the treasury archive and a plain-text table for
// terminals.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"tesouraria/internal/report"
)

const (
	sheetName     = "Relatório"
	signatureRule = "____________________________"
)

// WriteXLSX renders doc as a single-sheet workbook at path, creating
// parent directories as needed. The file handle is scoped to this call;
// a close failure is reported because it can mean a truncated file.
func WriteXLSX(doc report.Document, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}

	row := 1
	if err := writeRow(f, row, []string{doc.Title}); err != nil {
		return err
	}
	if err := styleRow(f, row, 1, boldStyle); err != nil {
		return err
	}
	row++
	if err := writeRow(f, row, []string{doc.Caption}); err != nil {
		return err
	}
	row += 2

	for _, sec := range doc.Sections {
		if err := writeRow(f, row, []string{sec.Title}); err != nil {
			return err
		}
		if err := styleRow(f, row, 1, boldStyle); err != nil {
			return err
		}
		row++

		if len(sec.Columns) > 0 {
			if err := writeRow(f, row, sec.Columns); err != nil {
				return err
			}
			if err := styleRow(f, row, len(sec.Columns), boldStyle); err != nil {
				return err
			}
			row++
		}

		for i, cells := range sec.Rows {
			if err := writeRow(f, row, cells); err != nil {
				return err
			}
			if sec.EmphasizeLastRow && i == len(sec.Rows)-1 {
				if err := styleRow(f, row, len(cells), boldStyle); err != nil {
					return err
				}
			}
			row++
		}

		if len(sec.Footer) > 0 {
			if err := writeRow(f, row, sec.Footer); err != nil {
				return err
			}
			if err := styleRow(f, row, len(sec.Footer), boldStyle); err != nil {
				return err
			}
			row++
		}

		row++ // blank separator between sections
	}

	// All signature blocks share one row pair: rules above, captions
	// below, with a spacer column between each block.
	row++
	if len(doc.Signatures) > 0 {
		rules := make([]string, 0, len(doc.Signatures)*2-1)
		labels := make([]string, 0, len(doc.Signatures)*2-1)
		for i, sig := range doc.Signatures {
			if i > 0 {
				rules = append(rules, "")
				labels = append(labels, "")
			}
			rules = append(rules, signatureRule)
			labels = append(labels, sig)
		}
		if err := writeRow(f, row, rules); err != nil {
			return err
		}
		row++
		if err := writeRow(f, row, labels); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "F", 18); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, cells []string) error {
	for i, cell := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell reference: %w", err)
		}
		if err := f.SetCellValue(sheetName, ref, cell); err != nil {
			return fmt.Errorf("set cell %s: %w", ref, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, row, width int, style int) error {
	if width < 1 {
		width = 1
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell reference: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return fmt.Errorf("cell reference: %w", err)
	}
	if err := f.SetCellStyle(sheetName, start, end, style); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	return nil
}
