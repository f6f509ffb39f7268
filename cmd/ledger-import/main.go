// Command ledger-import loads a JSON ledger export into the SQLite ledger.
//
// Usage:
//
//	ledger-import [-db ./data/ledger.db] ledger.json [more.json ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"budgetreport/internal/cli"
	"budgetreport/internal/config"
	"budgetreport/internal/log"
	"budgetreport/internal/sources/memory"
	"budgetreport/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	cfg := config.Load()

	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite ledger path")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-db path] ledger.json [more.json ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := cli.SetupLogger(cfg, os.Stderr).WithComponent(log.ComponentImport)
	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	ledger, err := storage.Open(*dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite ledger", "path", *dbPath, log.FieldError, err)
		return 1
	}
	defer ledger.Close()

	ctx := context.Background()
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Failed to read ledger file", "file", path, log.FieldError, err)
			return 1
		}
		txns, err := memory.ParseLedger(data)
		if err != nil {
			logger.Error("Failed to parse ledger file", "file", path, log.FieldError, err)
			return 1
		}
		n, err := ledger.Upsert(ctx, txns)
		if err != nil {
			logger.Error("Failed to import ledger file", "file", path, log.FieldError, err)
			return 1
		}
		logger.Info("Imported ledger file", "file", path, log.FieldCount, n, log.FieldOperation, log.OpImport)
	}

	total, err := ledger.Count(ctx)
	if err != nil {
		logger.Error("Failed to count transactions", log.FieldError, err)
		return 1
	}
	logger.Info("Import complete", "db_path", *dbPath, "total", total)
	return 0
}
