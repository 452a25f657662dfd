package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/spf13/viper"
)

// Supported values of DATA_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port      string
	RateLimit int // mutating requests per client per minute

	// Snapshot storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string
	SeedDemoData bool

	// AMQP (optional for the server, required by the worker)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleSummarySheetName   string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Local Excel export, used by the worker when no spreadsheet is set
	XLSXExportPath string

	// Worker
	ExportInterval time.Duration

	// Views
	Timezone  string
	CacheTTL  time.Duration
	CacheSize int

	LogLevel string
}

// Load reads configuration from the environment, falling back to the YAML,
// TOML or JSON file named by CONFIG_FILE and then to defaults. Malformed
// values fall back to their default.
func Load() *Config {
	v := newSource(os.Getenv("CONFIG_FILE"))

	cfg := &Config{
		Port:      getString(v, "PORT", "8081"),
		RateLimit: getInt(v, "RATE_LIMIT_PER_MINUTE", 60),

		DataBackend:  getString(v, "DATA_BACKEND", BackendFile),
		DataDir:      getString(v, "DATA_DIR", "./data"),
		SQLiteDBPath: getString(v, "SQLITE_DB_PATH", "./data/katha.db"),
		SeedDemoData: getBool(v, "SEED_DEMO_DATA", true),

		AMQPURL:      getString(v, "AMQP_URL", ""),
		AMQPExchange: getString(v, "AMQP_EXCHANGE", "katha"),
		AMQPQueue:    getString(v, "AMQP_QUEUE", "ledger_export"),

		GoogleSpreadsheetID:      getString(v, "GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getString(v, "GOOGLE_SHEET_NAME", "Ledger"),
		GoogleSummarySheetName:   getString(v, "GOOGLE_SUMMARY_SHEET_NAME", "Kathas"),
		GoogleServiceAccountFile: getString(v, "GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		GoogleServiceAccountJSON: getString(v, "GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		XLSXExportPath: getString(v, "XLSX_EXPORT_PATH", "./data/ledger.xlsx"),

		ExportInterval: getDuration(v, "EXPORT_INTERVAL", 10*time.Minute),

		Timezone:  getString(v, "TIMEZONE", "Asia/Kolkata"),
		CacheTTL:  getDuration(v, "CACHE_TTL", 5*time.Minute),
		CacheSize: getInt(v, "CACHE_SIZE", 256),

		LogLevel: getString(v, "LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimit))
	}

	// Validate data backend
	validBackends := []string{BackendFile, BackendSQLite, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Google Sheets export is optional; when enabled it needs a sheet and credentials
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.GoogleSheetName != "" && c.GoogleSummarySheetName == c.GoogleSheetName {
		errors = append(errors, "ledger and summary sheet names must differ")
	}

	if c.ExportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker adds the requirements of the export worker on top of Validate.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AMQPURL == "" {
		return fmt.Errorf("configuration validation failed:\n- AMQP URL is required by the export worker")
	}
	if c.DataBackend == BackendMemory {
		return fmt.Errorf("configuration validation failed:\n- the export worker needs a shared data backend, not memory")
	}
	if c.GoogleSpreadsheetID == "" && c.XLSXExportPath == "" {
		return fmt.Errorf("configuration validation failed:\n- either GOOGLE_SPREADSHEET_ID or XLSX_EXPORT_PATH is required by the export worker")
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", s)
	}
}

// newSource layers environment variables over an optional config file.
// Keys match the environment variable names, case-insensitively.
func newSource(path string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	if path == "" {
		return v
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		slog.Warn("Config file unreadable, using environment only", "path", path, "error", err)
	}
	return v
}

func getString(v *viper.Viper, key, defaultValue string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(v *viper.Viper, key string, defaultValue int) int {
	if i, err := strconv.Atoi(getString(v, key, "")); err == nil {
		return i
	}
	return defaultValue
}

func getBool(v *viper.Viper, key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getString(v, key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getString(v, key, "")); err == nil {
		return d
	}
	return defaultValue
}
