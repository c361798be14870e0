package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorpanel/internal/artifacts"
	"github.com/quantlab/factorpanel/internal/config"
	"github.com/quantlab/factorpanel/internal/database"
	"github.com/quantlab/factorpanel/internal/market"
	"github.com/quantlab/factorpanel/internal/snapshot"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:       dir,
		ResultsDir:    filepath.Join(dir, "results"),
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		TradingDays:   30,
		StockCount:    5,
		NewsTarget:    150,
		Seed:          42,
		LiveBatchSize: 50,
		LiveWorkers:   2,
		Port:          0,
		LogLevel:      "info",
		PriceDecimals: 2,
	}
}

func testPipeline(t *testing.T, cfg *config.Config, fetcher PanelFetcher, cache *snapshot.Store) *Pipeline {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:pipeline_test_%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileBulk,
		Name:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos, err := NewRepositories(db, zerolog.Nop())
	require.NoError(t, err)

	exporter, err := artifacts.NewExporter(cfg.ResultsDir, zerolog.Nop())
	require.NoError(t, err)

	return New(cfg, repos, exporter, fetcher, nil, cache, nil, zerolog.Nop())
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(t, cfg, nil, nil)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "synthetic", summary.Source)
	assert.Equal(t, 5, summary.Instruments)
	assert.Equal(t, 5*30, summary.PriceRows)
	assert.Equal(t, 4*5, summary.FundamentalRow)
	assert.Equal(t, 12, summary.MacroMonths)
	assert.Equal(t, 150, summary.NewsArticles)
	assert.False(t, summary.FromSnapshot)
	assert.Positive(t, summary.SentimentDays)

	// Every dataset file lands in the results directory.
	for _, name := range []string{
		artifacts.PricesFile, artifacts.FundamentalsFile, artifacts.MacroFile,
		artifacts.NewsFile, artifacts.SentimentFile, artifacts.DailySentimentFile,
	} {
		_, err := os.Stat(filepath.Join(cfg.ResultsDir, name))
		assert.NoError(t, err, name)
	}

	// Stored data is queryable through the repositories.
	symbols, err := p.repos.Prices.Symbols()
	require.NoError(t, err)
	assert.Len(t, symbols, 5)

	n, err := p.repos.News.Count()
	require.NoError(t, err)
	assert.Equal(t, 150, n)

	daily, err := p.repos.Sentiment.GetDaily(0)
	require.NoError(t, err)
	assert.Len(t, daily, summary.SentimentDays)
}

func TestRunUsesSnapshotOnRepeat(t *testing.T) {
	cfg := testConfig(t)
	cache := snapshot.NewStore(cfg.SnapshotPath(), zerolog.Nop())
	p := testPipeline(t, cfg, nil, cache)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.FromSnapshot)

	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.FromSnapshot)
	assert.Equal(t, first.PriceRows, second.PriceRows)
}

type failingFetcher struct{}

func (failingFetcher) FetchPanel(context.Context, []string, time.Time, time.Time) (*market.Panel, error) {
	return nil, fmt.Errorf("provider unreachable")
}

func TestRunFallsBackToSynthetic(t *testing.T) {
	cfg := testConfig(t)
	cfg.LiveData = true
	p := testPipeline(t, cfg, failingFetcher{}, nil)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "synthetic", summary.Source)
	assert.Equal(t, 5, summary.Instruments)
}
