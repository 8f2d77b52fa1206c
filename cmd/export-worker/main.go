package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tesouraria/internal/amqp"
	"tesouraria/internal/config"
	"tesouraria/internal/ledger"
	"tesouraria/internal/memory"
	"tesouraria/internal/storage"
	"tesouraria/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting export-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads the same store the API writes. With the memory
	// backend it only sees its own process, so sqlite is the sensible
	// deployment; memory remains useful for smoke runs.
	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	default:
		if cfg.SeedDir != "" {
			store = memory.NewFromFiles(cfg.SeedDir)
		} else {
			store = memory.New()
		}
		logger.Warn("Memory backend in use, worker only sees its own data")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPChangeQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(store, cfg.ExportDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := amqpClient.ConsumeExportRequests(ctx, func(msg *amqp.ExportRequestMessage) error {
			err := exportWorker.HandleExportMessage(ctx, msg)
			if errors.Is(err, worker.ErrInvalidExportPath) {
				// Poison message: requeueing would loop forever.
				logger.Warn("Dropping export request", "path", msg.Path, "error", err)
				return nil
			}
			return err
		}); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	// Periodic refresh of the running month's workbook.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := exportWorker.WriteCurrentMonth(ctx, time.Now()); err != nil {
					logger.Error("Periodic export failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
