package main

import (
	"context"
	"errors"
	"os"
	"time"

	"rentabilidad/internal/backend"
	"rentabilidad/internal/cli"
	"rentabilidad/internal/config"
	applog "rentabilidad/internal/log"
	"rentabilidad/internal/sheets"
	gsheet "rentabilidad/internal/sheets/google"
	mem "rentabilidad/internal/sheets/memory"
	"rentabilidad/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateWorkerConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)
	logger.Info("Starting rentabilidad-worker")

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = store.Close(closeCtx)
	}()

	exporter, err := newExporter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize exporter", "error", err)
		os.Exit(1)
	}
	exportWorker := worker.NewExportWorker(store.Repo, exporter, cfg.ExportWindowDays, cfg.ExportConcurrency)

	scheduler, err := worker.NewScheduler(cfg.ExportCron, 30*time.Minute, exportWorker.ExportAll)
	if err != nil {
		logger.Error("Invalid export schedule", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Nightly export scheduled", "cron", cfg.ExportCron, "next_run", scheduler.Next())

	amqpClient, err := cli.NewAMQPClient(cfg)
	switch {
	case err != nil:
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	case amqpClient == nil:
		logger.Info("AMQP disabled, relying on scheduled exports only")
	default:
		defer amqpClient.Close()
		go func() {
			err := amqpClient.ConsumeBusinessUpdates(ctx, exportWorker.HandleBusinessUpdated)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	scheduler.Stop(stopCtx)
	logger.Info("Worker stopped")
}

// newExporter writes to Google Sheets when a spreadsheet is configured and
// keeps exports in memory otherwise.
func newExporter(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.ReportExporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exports stay in memory")
		return mem.New(), nil
	}
	c, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return c, nil
}
