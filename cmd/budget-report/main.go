// Command budget-report builds last week's finance report and delivers it.
//
// Usage:
//
//	budget-report [-date YYYY-MM-DD] [-no-compare] [-dry-run]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"budgetreport/internal/cli"
	"budgetreport/internal/core"
	"budgetreport/internal/log"
	"budgetreport/internal/notify"
	"budgetreport/internal/render"
	"budgetreport/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	date := flag.String("date", "", "reference date (YYYY-MM-DD); defaults to today")
	noCompare := flag.Bool("no-compare", false, "skip the previous-week comparison")
	dryRun := flag.Bool("dry-run", false, "print the report instead of delivering it")
	flag.Parse()

	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, os.Stderr)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		if !*dryRun {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			cli.NotifyStartupFailure(ctx, logger, cfg, err)
		}
		return 1
	}

	ref := core.DateOf(time.Now())
	if *date != "" {
		if ref, err = core.ParseDate(*date); err != nil {
			logger.Error("Invalid -date flag", "value", *date, log.FieldError, err)
			return 1
		}
	}

	budget, err := cfg.MonthlyBudget()
	if err != nil {
		logger.Warn("Ignoring invalid MONTHLY_BUDGET", log.FieldError, err)
		budget = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var notifier notify.Notifier = notify.Writer{W: os.Stdout}
	if !*dryRun {
		n, closeNotifier, err := cli.NewNotifier(logger, cfg)
		if err != nil {
			logger.Error("Failed to initialize delivery", log.FieldError, err)
			return 1
		}
		defer closeNotifier()
		notifier = n
	}

	source, err := cli.OpenSource(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize data source", log.FieldError, err)
		if sendErr := notifier.Send(ctx, render.Failure(err)); sendErr != nil {
			logger.Warn("Failed to send error notice", log.FieldError, sendErr)
		}
		return 1
	}
	defer source.Close()

	reporter, err := report.New(report.Options{
		Source:          source.Source,
		Summarizer:      cli.NewSummarizer(ctx, logger, cfg),
		Notifier:        notifier,
		MonthlyBudget:   budget,
		ComparePrevious: cfg.ComparePrevious && !*noCompare,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("Failed to build reporter", log.FieldError, err)
		return 1
	}

	rep, err := reporter.Run(ctx, ref)
	if err != nil {
		return 1
	}
	logger.Info("Weekly report sent",
		log.FieldReportID, rep.ID.String(),
		log.FieldWeekStart, rep.Window.Start.String(),
		log.FieldWeekEnd, rep.Window.End.String(),
		"dry_run", *dryRun)
	return 0
}
