// Command relatorio builds a one-shot donations and expenses report
// from the configured store and either prints it to the terminal or
// writes the XLSX workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tesouraria/internal/config"
	"tesouraria/internal/core"
	"tesouraria/internal/export"
	"tesouraria/internal/ledger"
	"tesouraria/internal/memory"
	"tesouraria/internal/report"
	"tesouraria/internal/storage"
)

const dateLayout = "2006-01-02"

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	var (
		fromFlag    = flag.String("from", "", "range start (YYYY-MM-DD), inclusive")
		toFlag      = flag.String("to", "", "range end (YYYY-MM-DD), inclusive")
		outputFlag  = flag.String("output", "", "write XLSX to this path instead of printing")
		compactFlag = flag.Bool("compact", false, "truncate long foreign-donation descriptions")
	)
	flag.Parse()

	rng, err := resolveRange(*fromFlag, *toFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open store: %v\n", err)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	default:
		store = memory.NewFromFiles(cfg.SeedDir)
	}

	ctx := context.Background()
	snap, err := store.Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read ledger: %v\n", err)
		os.Exit(1)
	}

	doc, err := report.Build(report.Input{
		Records:          snap.Records,
		Expenses:         snap.Expenses,
		ForeignDonations: snap.ForeignDonations,
	}, rng, report.Options{CompactDescriptions: *compactFlag || *outputFlag != ""})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build report: %v\n", err)
		os.Exit(1)
	}

	if *outputFlag != "" {
		if err := export.WriteXLSX(doc, *outputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "write workbook: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(*outputFlag)
		return
	}

	export.WriteText(os.Stdout, doc)
}

// resolveRange parses the flags, defaulting to the current month when
// both are omitted.
func resolveRange(from, to string) (core.Range, error) {
	if from == "" && to == "" {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return core.Range{From: start, To: start.AddDate(0, 1, -1)}, nil
	}

	fromT, err := time.Parse(dateLayout, from)
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid -from %q: want YYYY-MM-DD", from)
	}
	toT, err := time.Parse(dateLayout, to)
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid -to %q: want YYYY-MM-DD", to)
	}
	return core.Range{From: fromT, To: toT}, nil
}
