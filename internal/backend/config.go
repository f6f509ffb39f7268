package backend

import (
	"fmt"

	"budgetreport/internal/config"
)

// FromAppConfig converts the application config to source config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.DataSource)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid data source in config: %s", appConfig.DataSource)
	}

	return Config{
		Type: sourceType,

		ActualServerURL: appConfig.ActualServerURL,
		ActualPassword:  appConfig.ActualPassword,
		ActualBudgetID:  appConfig.ActualBudgetID,
		HTTPTimeout:     appConfig.HTTPTimeout,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,

		LedgerFile: appConfig.LedgerFile,
	}, nil
}

// Validate validates the source configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid data source: %s", c.Type)
	}

	switch c.Type {
	case ActualSource:
		if c.ActualServerURL == "" {
			return fmt.Errorf("Actual server URL is required for actual source")
		}
		if c.ActualPassword == "" {
			return fmt.Errorf("Actual password is required for actual source")
		}
	case SQLiteSource:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite source")
		}
	case SheetsSource:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
	case MemorySource:
		if c.LedgerFile == "" {
			return fmt.Errorf("ledger file is required for memory source")
		}
	}
	return nil
}

// SourceTypes returns all valid source types.
func SourceTypes() []SourceType {
	return []SourceType{ActualSource, SQLiteSource, SheetsSource, MemorySource}
}
