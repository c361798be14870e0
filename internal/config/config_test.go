package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		StartDate:     time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		TradingDays:   2518,
		StockCount:    300,
		NewsTarget:    15000,
		LiveBatchSize: 50,
		LiveWorkers:   4,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "end date before start date",
			mutate:  func(c *Config) { c.EndDate = c.StartDate.AddDate(-1, 0, 0) },
			wantErr: "not after start date",
		},
		{
			name:    "end date equals start date",
			mutate:  func(c *Config) { c.EndDate = c.StartDate },
			wantErr: "not after start date",
		},
		{
			name:    "zero trading days",
			mutate:  func(c *Config) { c.TradingDays = 0 },
			wantErr: "trading day target",
		},
		{
			name:    "negative stock count",
			mutate:  func(c *Config) { c.StockCount = -1 },
			wantErr: "stock count",
		},
		{
			name:    "zero news target",
			mutate:  func(c *Config) { c.NewsTarget = 0 },
			wantErr: "news target",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.LiveBatchSize = 0 },
			wantErr: "batch size",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.LiveWorkers = 0 },
			wantErr: "worker count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PANEL_DATA_DIR", t.TempDir())

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 2518, cfg.TradingDays)
	assert.Equal(t, 300, cfg.StockCount)
	assert.Equal(t, 15000, cfg.NewsTarget)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "2015-01-01", cfg.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-12-31", cfg.EndDate.Format("2006-01-02"))
}
