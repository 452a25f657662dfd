package main

import (
	"context"
	"errors"
	"os"
	"time"

	"katha/internal/amqp"
	"katha/internal/cli"
	"katha/internal/config"
	"katha/internal/log"
	"katha/internal/sheets"
	gsheet "katha/internal/sheets/google"
	"katha/internal/sheets/xlsx"
	"katha/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting katha-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	be := cli.InitBackend(context.Background(), logger, cfg)
	defer be.Cleanup()

	var (
		exporter sheets.LedgerExporter
		target   string
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter, target = client, cfg.GoogleSpreadsheetID
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		x, err := xlsx.NewExporter(cfg.XLSXExportPath, cfg.GoogleSheetName, cfg.GoogleSummarySheetName)
		if err != nil {
			logger.Error("Failed to initialize xlsx exporter", "error", err)
			os.Exit(1)
		}
		exporter, target = x, "xlsx:"+x.Path()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting to file", "path", x.Path())
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	w := worker.NewExportWorker(be.Store, exporter, be.Tracker, target, worker.WithLocation(cfg.Location()))

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", "error", err)
		}
	})

	if err := w.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
	}

	go w.RunPeriodicExport(ctx, cfg.ExportInterval)

	if err := amqpClient.ConsumeMutations(ctx, w.HandleMutation); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		amqpClient.Close()
		be.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
