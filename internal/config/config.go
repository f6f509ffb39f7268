package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Transaction source
	DataSource string

	// Actual Budget server
	ActualServerURL string
	ActualPassword  string
	ActualBudgetID  string

	// Local ledgers
	SQLiteDBPath string
	LedgerFile   string

	// Google Sheets ledger
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Gemini summarizer (optional)
	GeminiAPIKey string
	GeminiModel  string

	// Delivery
	Delivery          string
	DiscordWebhookURL string
	DeliveryRetries   int
	AMQPURL           string
	AMQPExchange      string
	AMQPQueue         string

	// Report
	MonthlyBudgetJSON string
	ComparePrevious   bool
	HTTPTimeout       time.Duration
	LogLevel          string
}

var (
	validSources    = []string{"actual", "sqlite", "sheets", "memory"}
	validDeliveries = []string{"discord", "amqp"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	cfg := &Config{
		DataSource: getEnv("DATA_SOURCE", "actual"),

		ActualServerURL: strings.TrimRight(getEnv("ACTUAL_SERVER_URL", ""), "/"),
		ActualPassword:  getEnv("ACTUAL_PASSWORD", ""),
		ActualBudgetID:  getEnv("ACTUAL_BUDGET_ID", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ledger.db"),
		LedgerFile:   getEnv("LEDGER_FILE", "./data/ledger.json"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		GeminiAPIKey: getEnv("GOOGLE_GENERATIVE_AI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),

		Delivery:          getEnv("DELIVERY", "discord"),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		DeliveryRetries:   getEnvInt("DELIVERY_RETRIES", 2),
		AMQPURL:           getEnv("AMQP_URL", ""),
		AMQPExchange:      getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:         getEnv("AMQP_QUEUE", "weekly_reports"),

		MonthlyBudgetJSON: getEnv("MONTHLY_BUDGET", ""),
		ComparePrevious:   getEnvBool("COMPARE_PREVIOUS", true),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validSources, c.DataSource) {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	switch c.DataSource {
	case "actual":
		if c.ActualServerURL == "" {
			errors = append(errors, "ACTUAL_SERVER_URL is required when using actual data source")
		} else if u, err := url.Parse(c.ActualServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid Actual server URL '%s': must be an http(s) URL", c.ActualServerURL))
		}
		if c.ActualPassword == "" {
			errors = append(errors, "ACTUAL_PASSWORD is required when using actual data source")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite data source")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets data source")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets data source")
		}
	case "memory":
		if c.LedgerFile == "" {
			errors = append(errors, "ledger file cannot be empty when using memory data source")
		}
	}

	if !slices.Contains(validDeliveries, c.Delivery) {
		errors = append(errors, fmt.Sprintf("invalid delivery '%s': must be one of %v", c.Delivery, validDeliveries))
	}

	if c.DiscordWebhookURL != "" {
		if u, err := url.Parse(c.DiscordWebhookURL); err != nil || u.Scheme != "https" && u.Scheme != "http" {
			errors = append(errors, fmt.Sprintf("invalid Discord webhook URL '%s': must be an http(s) URL", c.DiscordWebhookURL))
		}
	}

	if c.DeliveryRetries < 0 || c.DeliveryRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid delivery retries %d: must be between 0 and 10", c.DeliveryRetries))
	}

	if c.Delivery == "amqp" {
		if c.AMQPURL == "" {
			errors = append(errors, "AMQP URL is required when using amqp delivery")
		} else if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when using amqp delivery")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when using amqp delivery")
		}
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings cmd/report-worker needs: a broker to
// consume from and a webhook to deliver to.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the report worker")
	} else if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
		errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': must be an amqp(s) URL", c.AMQPURL))
	}
	if c.AMQPExchange == "" || c.AMQPQueue == "" {
		errors = append(errors, "AMQP exchange and queue names cannot be empty")
	}
	if c.DiscordWebhookURL == "" {
		errors = append(errors, "DISCORD_WEBHOOK_URL is required for the report worker")
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// MonthlyBudget parses MONTHLY_BUDGET, a JSON object of category -> cents,
// e.g. {"Groceries": 50000, "Transport": 20000}. It returns nil, nil when unset.
func (c *Config) MonthlyBudget() (map[string]int64, error) {
	if strings.TrimSpace(c.MonthlyBudgetJSON) == "" {
		return nil, nil
	}
	var budget map[string]int64
	if err := json.Unmarshal([]byte(c.MonthlyBudgetJSON), &budget); err != nil {
		return nil, fmt.Errorf("parse MONTHLY_BUDGET: %w", err)
	}
	return budget, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SummarizerEnabled reports whether a Gemini key is configured.
func (c *Config) SummarizerEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
