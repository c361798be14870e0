// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full run configuration. It is built once at startup and
// passed into every stage at construction time; nothing mutates it afterwards.
type Config struct {
	DataDir    string // Base directory for databases and cached snapshots
	ResultsDir string // Directory for exported CSV artifacts

	StartDate      time.Time // First calendar day of the study period
	EndDate        time.Time // Last calendar day of the study period
	TradingDays    int       // Exact number of trading days the panel must cover
	StockCount     int       // Number of instruments in the panel
	NewsTarget     int       // Exact size of the generated news corpus
	Seed           uint64    // Global seed for all pseudorandom draws
	LiveData       bool      // Try the live market-data provider before falling back
	LiveBatchSize  int       // Symbols per download batch
	LiveBatchDelay time.Duration
	LiveWorkers    int // Concurrent download batches
	SnapshotCache  bool
	S3Bucket       string // Optional: upload artifacts when set
	S3Prefix       string
	CronSchedule   string // Optional: re-run the pipeline on this schedule
	Port           int    // Results API port; 0 disables the server
	LogLevel       string
	PriceDecimals  int // Rounding precision for generated price fields
}

const dateLayout = "2006-01-02"

// Load reads configuration from environment variables (.env file supported).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("PANEL_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	resultsDir := getEnv("PANEL_RESULTS_DIR", filepath.Join(absDataDir, "results"))
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	start, err := time.Parse(dateLayout, getEnv("PANEL_START_DATE", "2015-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid PANEL_START_DATE: %w", err)
	}
	end, err := time.Parse(dateLayout, getEnv("PANEL_END_DATE", "2024-12-31"))
	if err != nil {
		return nil, fmt.Errorf("invalid PANEL_END_DATE: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		ResultsDir:     resultsDir,
		StartDate:      start,
		EndDate:        end,
		TradingDays:    getEnvAsInt("PANEL_TRADING_DAYS", 2518),
		StockCount:     getEnvAsInt("PANEL_STOCK_COUNT", 300),
		NewsTarget:     getEnvAsInt("PANEL_NEWS_TARGET", 15000),
		Seed:           uint64(getEnvAsInt("PANEL_SEED", 42)),
		LiveData:       getEnvAsBool("PANEL_LIVE_DATA", false),
		LiveBatchSize:  getEnvAsInt("PANEL_LIVE_BATCH_SIZE", 50),
		LiveBatchDelay: time.Duration(getEnvAsInt("PANEL_LIVE_BATCH_DELAY_MS", 1000)) * time.Millisecond,
		LiveWorkers:    getEnvAsInt("PANEL_LIVE_WORKERS", 4),
		SnapshotCache:  getEnvAsBool("PANEL_SNAPSHOT_CACHE", true),
		S3Bucket:       getEnv("PANEL_S3_BUCKET", ""),
		S3Prefix:       getEnv("PANEL_S3_PREFIX", "factorpanel"),
		CronSchedule:   getEnv("PANEL_CRON_SCHEDULE", ""),
		Port:           getEnvAsInt("PANEL_PORT", 0),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PriceDecimals:  2,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the generators cannot run with.
// Validation failures are fatal: nothing is generated from a broken config.
func (c *Config) Validate() error {
	if !c.EndDate.After(c.StartDate) {
		return fmt.Errorf("end date %s is not after start date %s",
			c.EndDate.Format(dateLayout), c.StartDate.Format(dateLayout))
	}
	if c.TradingDays <= 0 {
		return fmt.Errorf("trading day target must be positive, got %d", c.TradingDays)
	}
	if c.StockCount <= 0 {
		return fmt.Errorf("stock count must be positive, got %d", c.StockCount)
	}
	if c.NewsTarget <= 0 {
		return fmt.Errorf("news target must be positive, got %d", c.NewsTarget)
	}
	if c.LiveBatchSize <= 0 {
		return fmt.Errorf("live batch size must be positive, got %d", c.LiveBatchSize)
	}
	if c.LiveWorkers <= 0 {
		return fmt.Errorf("live worker count must be positive, got %d", c.LiveWorkers)
	}
	return nil
}

// DatabasePath returns the path of the research results database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "research.db")
}

// SnapshotPath returns the path of the panel snapshot cache file.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "panel.snapshot")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
