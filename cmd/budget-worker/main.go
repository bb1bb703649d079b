package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgettracker/internal/amqp"
	"budgettracker/internal/cli"
	"budgettracker/internal/log"
	"budgettracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.Default(log.ComponentApp).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)
	logger.Info("Starting budget-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is not shared with the server; exports will be empty")
	}

	rt, err := cli.OpenRuntime(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open runtime", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer rt.Close()

	target, err := cli.OpenSheets(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	exporter := worker.NewExportWorker(rt.Store, target, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Changes made while the worker was down have no pending message.
	logger.Info("Performing startup export")
	if err := exporter.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", log.FieldError, err)
	}

	if err := client.ConsumeChanges(ctx, exporter.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	<-done
	logger.Info("budget-worker stopped gracefully")
}
