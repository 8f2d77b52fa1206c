// Package worker turns queued export requests into workbook files on
// disk, off the request path of the HTTP API.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"tesouraria/internal/amqp"
	"tesouraria/internal/core"
	"tesouraria/internal/export"
	"tesouraria/internal/ledger"
	"tesouraria/internal/report"
)

// ErrInvalidExportPath marks a request whose path would land outside
// the export directory. Callers should drop such messages instead of
// requeueing them.
var ErrInvalidExportPath = errors.New("export path escapes export directory")

// ExportWorker consumes export request messages and writes the
// rendered workbooks under exportDir.
type ExportWorker struct {
	store     ledger.Store
	exportDir string
}

func NewExportWorker(store ledger.Store, exportDir string) *ExportWorker {
	return &ExportWorker{
		store:     store,
		exportDir: exportDir,
	}
}

// HandleExportMessage processes a single export request from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"from", msg.From.Format(report.DateLayout),
		"to", msg.To.Format(report.DateLayout),
		"path", msg.Path)

	path, err := w.resolvePath(msg.Path)
	if err != nil {
		return err
	}

	doc, err := w.buildDocument(ctx, core.Range{From: msg.From, To: msg.To})
	if err != nil {
		return err
	}

	if err := export.WriteXLSX(doc, path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	slog.InfoContext(ctx, "Export written",
		"path", path,
		"balance", doc.Totals.Balance.Format())
	return nil
}

// WriteCurrentMonth renders the running month's report. The periodic
// tick in the worker binary uses it so a fresh workbook is always on
// disk even when nobody asked for one explicitly.
func (w *ExportWorker) WriteCurrentMonth(ctx context.Context, now time.Time) error {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	doc, err := w.buildDocument(ctx, core.Range{From: monthStart, To: monthEnd})
	if err != nil {
		return err
	}

	path := filepath.Join(w.exportDir, fmt.Sprintf("relatorio-doacoes-%s.xlsx", now.Format("2006-01")))
	if err := export.WriteXLSX(doc, path); err != nil {
		return fmt.Errorf("write monthly workbook: %w", err)
	}

	slog.InfoContext(ctx, "Monthly export refreshed", "path", path)
	return nil
}

// resolvePath confines a requested file name to the export directory.
// Absolute paths and names whose cleaned join escapes exportDir are
// rejected, so a queued request can never write elsewhere on disk.
func (w *ExportWorker) resolvePath(name string) (string, error) {
	if name == "" {
		name = report.DefaultFileName
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidExportPath, name)
	}
	full := filepath.Join(w.exportDir, name)
	rel, err := filepath.Rel(w.exportDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidExportPath, name)
	}
	return full, nil
}

func (w *ExportWorker) buildDocument(ctx context.Context, r core.Range) (report.Document, error) {
	snap, err := w.store.Snapshot(ctx)
	if err != nil {
		return report.Document{}, fmt.Errorf("snapshot ledger: %w", err)
	}

	doc, err := report.Build(report.Input{
		Records:          snap.Records,
		Expenses:         snap.Expenses,
		ForeignDonations: snap.ForeignDonations,
	}, r, report.Options{CompactDescriptions: true})
	if err != nil {
		return report.Document{}, fmt.Errorf("build report: %w", err)
	}
	return doc, nil
}
