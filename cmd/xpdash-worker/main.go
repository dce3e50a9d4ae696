package main

import (
	"context"
	"errors"
	"os"
	"time"

	"xpdash/internal/amqp"
	"xpdash/internal/cli"
	"xpdash/internal/log"
	"xpdash/internal/sheets"
	gsheet "xpdash/internal/sheets/google"
	mem "xpdash/internal/sheets/memory"
	"xpdash/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting xpdash-worker", log.FieldOperation, log.OpStartup)

	if len(os.Args) > 1 && os.Args[1] == "history" {
		cfg := cli.LoadAndValidateConfig(logger)
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		defer repo.Close()
		if err := runHistory(repo, os.Args[2:]); err != nil {
			logger.Error("History failed", log.FieldError, err.Error())
			os.Exit(1)
		}
		return
	}

	cfg := cli.LoadAndValidateWorkerConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	exporter := newExporter(logger, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewSnapshotWorker(repo, exporter, cfg.SnapshotRetention)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Clear out anything that expired while the worker was down.
	if n, err := w.Prune(ctx); err != nil {
		logger.Error("Startup prune failed", log.FieldError, err.Error())
	} else {
		logger.Info("Startup prune finished", "deleted", n)
	}

	scheduler, err := w.SchedulePrune(ctx, cfg.PruneSchedule)
	if err != nil {
		logger.Error("Invalid prune schedule", "schedule", cfg.PruneSchedule, log.FieldError, err.Error())
		os.Exit(1)
	}
	defer scheduler.Stop()

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeSnapshots(ctx, w.Handle)
	}()

	select {
	case <-ctx.Done():
		<-done
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Snapshot consumption stopped", log.FieldError, err.Error(), log.FieldOperation, log.OpConsume)
			os.Exit(1)
		}
	}
	logger.Info("Worker shutdown complete")
}

// newExporter returns the Google Sheets exporter when a spreadsheet is
// configured and an in-memory one otherwise.
func newExporter(logger *log.Logger, spreadsheetID, sheetName string) sheets.SnapshotExporter {
	if spreadsheetID == "" {
		logger.Info("Google Sheets export disabled, no GOOGLE_SPREADSHEET_ID provided")
		return mem.New()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts, err := gsheet.CredentialsFromEnv(ctx)
	if err != nil {
		logger.Error("Google Sheets credentials missing", log.FieldError, err.Error())
		os.Exit(1)
	}
	client, err := gsheet.New(ctx, spreadsheetID, sheetName, opts...)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := client.EnsureHeader(ctx); err != nil {
		logger.Warn("Could not write sheet header", log.FieldError, err.Error())
	}
	logger.Info("Google Sheets export enabled", "spreadsheet_id", spreadsheetID, "sheet", sheetName)
	return client
}
