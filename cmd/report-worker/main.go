// Command report-worker consumes queued weekly reports and posts them to Discord.
package main

import (
	"os"
	"time"

	"budgetreport/internal/amqp"
	"budgetreport/internal/cli"
	"budgetreport/internal/config"
	"budgetreport/internal/log"
	"budgetreport/internal/worker"
)

const pruneInterval = time.Hour

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg, os.Stdout).WithComponent(log.ComponentWorker)
	logger.Info("Starting report-worker", log.FieldOperation, log.OpStartup)

	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	delivery := worker.NewDeliveryWorker(cli.NewDiscord(logger, cfg), logger.Slog())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		_ = amqpClient.Close()
	})

	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := delivery.PruneSeen(); n > 0 {
					logger.Debug("Pruned delivery records", log.FieldCount, n)
				}
			}
		}
	}()

	err = amqpClient.ConsumeReports(ctx, delivery.HandleReportMessage)
	if err != nil && ctx.Err() == nil {
		logger.Error("Message consumption failed", log.FieldOperation, log.OpConsume, log.FieldError, err)
		_ = amqpClient.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
