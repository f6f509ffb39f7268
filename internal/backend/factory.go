package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"budgetreport/internal/sources/actual"
	gsheet "budgetreport/internal/sources/google"
	"budgetreport/internal/sources/memory"
	"budgetreport/internal/storage"
)

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource.
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case ActualSource:
		return f.createActualSource(ctx, config)
	case SQLiteSource:
		return f.createSQLiteSource(config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	case MemorySource:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported data source: %s", config.Type)
	}
}

func (f *DefaultFactory) createActualSource(ctx context.Context, config Config) (*SourceResult, error) {
	opts := []actual.Option{actual.WithLogger(f.logger)}
	if config.HTTPTimeout > 0 {
		opts = append(opts, actual.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout}))
	}
	client := actual.New(config.ActualServerURL, config.ActualPassword, opts...)
	if err := client.Login(ctx); err != nil {
		return nil, fmt.Errorf("failed to log in to Actual server: %w", err)
	}

	f.logger.Info("Initialized Actual source",
		"server", config.ActualServerURL,
		"budget_id", config.ActualBudgetID)

	return &SourceResult{Source: client}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*SourceResult, error) {
	ledger, err := storage.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite ledger: %w", err)
	}

	f.logger.Info("Initialized SQLite source", "db_path", config.SQLiteDBPath)

	return &SourceResult{Source: ledger, Cleanup: ledger.Close}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*SourceResult, error) {
	cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets source", "sheet", config.GoogleSheetName)

	return &SourceResult{Source: cli}, nil
}

func (f *DefaultFactory) createMemorySource(config Config) (*SourceResult, error) {
	store, err := memory.NewFromFile(config.LedgerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger file: %w", err)
	}

	f.logger.Info("Initialized memory source", "ledger_file", config.LedgerFile)

	return &SourceResult{Source: store}, nil
}
