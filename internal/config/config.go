// Package config provides application bootstrap configuration: everything
// read once at process start from environment variables. This is distinct
// from the per-request domain configuration (profiles, thresholds, and
// overrides), which lives in internal/modules/profile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/chartwatch/internal/utils"
)

// Config holds application bootstrap configuration, loaded once at
// startup and never mutated afterward.
type Config struct {
	DataDir  string // base directory for the sqlite document store
	Port     int    // HTTP server port
	DevMode  bool   // development mode flag (verbose logging, permissive CORS)
	LogLevel string // debug, info, warn, error

	ProviderAPIKey  string // data provider credential
	ProviderBaseURL string

	RankerAPIKey  string // remote LLM ranker credential
	RankerEnabled bool   // whether analyze_security may use the remote ranker at all

	FanOutConcurrency int // default worker-pool size for scan/compare/screen/portfolio (spec §4.7)

	S3BackupBucket          string // optional; empty disables the S3 backup mirror
	S3BackupRegion          string
	S3BackupEndpoint        string // optional; set for an S3-compatible provider other than AWS
	S3BackupAccessKeyID     string
	S3BackupSecretAccessKey string

	MorningBriefWatchlist []string // symbols scanned by the scheduled morning_brief job
	MorningBriefSchedule  string   // cron expression, default weekday mornings before the open
	CacheSweepSchedule    string   // cron expression for the persistence cache sweep
}

// Load reads configuration from environment variables, loading a .env
// file first if one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("CHARTWATCH_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ProviderAPIKey:    getEnv("PROVIDER_API_KEY", ""),
		ProviderBaseURL:   getEnv("PROVIDER_BASE_URL", ""),
		RankerAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		RankerEnabled:     getEnvAsBool("RANKER_ENABLED", true),
		FanOutConcurrency: getEnvAsInt("FANOUT_CONCURRENCY", 10),

		S3BackupBucket:          getEnv("S3_BACKUP_BUCKET", ""),
		S3BackupRegion:          getEnv("S3_BACKUP_REGION", "auto"),
		S3BackupEndpoint:        getEnv("S3_BACKUP_ENDPOINT", ""),
		S3BackupAccessKeyID:     getEnv("S3_BACKUP_ACCESS_KEY_ID", ""),
		S3BackupSecretAccessKey: getEnv("S3_BACKUP_SECRET_ACCESS_KEY", ""),

		MorningBriefWatchlist: getEnvAsList("MORNING_BRIEF_WATCHLIST", nil),
		MorningBriefSchedule:  getEnv("MORNING_BRIEF_SCHEDULE", "0 7 * * MON-FRI"),
		CacheSweepSchedule:    getEnv("CACHE_SWEEP_SCHEDULE", "*/15 * * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and sane.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("CHARTWATCH_DATA_DIR is required")
	}
	if c.FanOutConcurrency <= 0 {
		return fmt.Errorf("FANOUT_CONCURRENCY must be positive, got %d", c.FanOutConcurrency)
	}
	// Provider/ranker credentials are intentionally optional: a provider
	// and ranker can both run against mock/local backends in dev mode.
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable into a
// trimmed, non-empty string slice via utils.ParseCSV, falling back to
// defaultValue when the variable is unset or yields no values.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed := utils.ParseCSV(value); parsed != nil {
		return parsed
	}
	return defaultValue
}
