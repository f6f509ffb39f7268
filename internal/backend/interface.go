package backend

import (
	"context"
	"time"

	"budgetreport/internal/sources"
)

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// SourceResult contains the source instance and optional cleanup function.
type SourceResult struct {
	Source  sources.TransactionSource
	Cleanup CleanupFunc
}

// Close runs Cleanup when present.
func (r *SourceResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates transaction sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation.
type Config struct {
	Type SourceType

	// Actual Budget specific
	ActualServerURL string
	ActualPassword  string
	ActualBudgetID  string
	HTTPTimeout     time.Duration

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Memory specific
	LedgerFile string
}

// SourceType names a ledger backend.
type SourceType string

const (
	ActualSource SourceType = "actual"
	SQLiteSource SourceType = "sqlite"
	SheetsSource SourceType = "sheets"
	MemorySource SourceType = "memory"
)

func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is known.
func (st SourceType) IsValid() bool {
	switch st {
	case ActualSource, SQLiteSource, SheetsSource, MemorySource:
		return true
	default:
		return false
	}
}
