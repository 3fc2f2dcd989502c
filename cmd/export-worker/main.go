package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/amqp"
	"spendlog/internal/cli"
	"spendlog/internal/config"
	applog "spendlog/internal/log"
	"spendlog/internal/sheets"
	"spendlog/internal/sheets/google"
	"spendlog/internal/sheets/memory"
	"spendlog/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)
	cli.ValidateConfig(logger, cfg)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.OpenRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter sheets.Exporter
	switch cfg.ExportBackend {
	case "sheets":
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Initialized Google Sheets export backend")
	default:
		exporter = memory.New()
		logger.Info("Initialized memory export backend")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, exporter)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, func(msg *amqp.ExpenseEventMessage) error {
			return exportWorker.HandleEvent(gctx, msg)
		})
	})

	logger.Info("Export worker started", "queue", cfg.AMQPQueue, "backend", cfg.ExportBackend)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Export worker stopped gracefully")
}
