// Package pipeline orchestrates a full dataset run: market panel (live or
// synthetic), fundamentals, macro, news, sentiment, persistence and exports.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/artifacts"
	"github.com/quantlab/factorpanel/internal/calendar"
	"github.com/quantlab/factorpanel/internal/config"
	"github.com/quantlab/factorpanel/internal/database"
	"github.com/quantlab/factorpanel/internal/fundamentals"
	"github.com/quantlab/factorpanel/internal/macro"
	"github.com/quantlab/factorpanel/internal/market"
	"github.com/quantlab/factorpanel/internal/market/live"
	"github.com/quantlab/factorpanel/internal/news"
	"github.com/quantlab/factorpanel/internal/sectors"
	"github.com/quantlab/factorpanel/internal/sentiment"
	"github.com/quantlab/factorpanel/internal/snapshot"
	"github.com/quantlab/factorpanel/internal/system"
)

// PanelFetcher downloads a live price panel. The Yahoo downloader implements
// it; tests substitute fakes.
type PanelFetcher interface {
	FetchPanel(ctx context.Context, symbols []string, start, end time.Time) (*market.Panel, error)
}

// ArtifactUploader pushes the results directory to remote storage.
type ArtifactUploader interface {
	UploadDir(ctx context.Context, dir string) error
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	RunID          string       `json:"run_id"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	DurationMS     int64        `json:"duration_ms"`
	Source         string       `json:"source"`
	Instruments    int          `json:"instruments"`
	FailedSymbols  []string     `json:"failed_symbols,omitempty"`
	PriceRows      int          `json:"price_rows"`
	FundamentalRow int          `json:"fundamental_rows"`
	MacroMonths    int          `json:"macro_months"`
	NewsArticles   int          `json:"news_articles"`
	SentimentDays  int          `json:"sentiment_days"`
	FromSnapshot   bool         `json:"from_snapshot"`
	Resources      system.Usage `json:"resources"`
}

// Repositories bundles the storage layer the pipeline writes to.
type Repositories struct {
	Prices       *market.Repository
	Fundamentals *fundamentals.Repository
	Macro        *macro.Repository
	News         *news.Repository
	Sentiment    *sentiment.Repository
}

// NewRepositories creates all repositories on one database handle.
func NewRepositories(db *database.DB, log zerolog.Logger) (*Repositories, error) {
	prices, err := market.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	funds, err := fundamentals.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	macroRepo, err := macro.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	newsRepo, err := news.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	sentimentRepo, err := sentiment.NewRepository(db, log)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Prices:       prices,
		Fundamentals: funds,
		Macro:        macroRepo,
		News:         newsRepo,
		Sentiment:    sentimentRepo,
	}, nil
}

// Pipeline runs the full dataset generation and persistence flow.
type Pipeline struct {
	cfg      *config.Config
	repos    *Repositories
	exporter *artifacts.Exporter
	fetcher  PanelFetcher     // nil: synthetic only
	uploader ArtifactUploader // nil: no upload
	cache    *snapshot.Store  // nil: no snapshot cache
	model    sentiment.PolarityModel
	log      zerolog.Logger
}

// New creates a pipeline. fetcher, uploader, cache and model are optional.
func New(cfg *config.Config, repos *Repositories, exporter *artifacts.Exporter,
	fetcher PanelFetcher, uploader ArtifactUploader, cache *snapshot.Store,
	model sentiment.PolarityModel, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		repos:    repos,
		exporter: exporter,
		fetcher:  fetcher,
		uploader: uploader,
		cache:    cache,
		model:    model,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one full pipeline pass.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	p.log.Info().Str("run_id", summary.RunID).Msg("Pipeline run started")

	days, err := calendar.TradingDays(p.cfg.StartDate, p.cfg.EndDate, p.cfg.TradingDays)
	if err != nil {
		return nil, fmt.Errorf("calendar construction failed: %w", err)
	}
	months := calendar.MonthEnds(p.cfg.StartDate, p.cfg.EndDate)
	quarters := calendar.QuarterEnds(p.cfg.StartDate, p.cfg.EndDate)
	symbols := sectors.Universe(p.cfg.StockCount)

	panel, fromSnapshot, err := p.buildPanel(ctx, days, symbols)
	if err != nil {
		return nil, err
	}
	summary.Source = panel.Source
	summary.Instruments = len(panel.Instruments)
	summary.FailedSymbols = panel.Failed
	summary.PriceRows = panel.Rows()
	summary.FromSnapshot = fromSnapshot

	funds, err := fundamentals.NewGenerator(p.cfg.Seed, p.log).Generate(quarters, symbols)
	if err != nil {
		return nil, fmt.Errorf("fundamentals generation failed: %w", err)
	}
	summary.FundamentalRow = len(funds)

	macroSeries, err := macro.NewGenerator(p.cfg.Seed, p.log).Generate(months)
	if err != nil {
		return nil, fmt.Errorf("macro generation failed: %w", err)
	}
	summary.MacroMonths = len(macroSeries)

	articles, err := news.NewGenerator(p.cfg.Seed, p.log).Generate(days, p.cfg.NewsTarget)
	if err != nil {
		return nil, fmt.Errorf("news generation failed: %w", err)
	}
	summary.NewsArticles = len(articles)

	scores := sentiment.NewAnalyzer(p.model, p.log).AnalyzeCorpus(articles)
	daily := sentiment.Summarize(scores)
	summary.SentimentDays = len(daily)

	if err := p.persist(panel, funds, macroSeries, articles, scores, daily); err != nil {
		return nil, err
	}
	if err := p.export(panel, funds, macroSeries, articles, scores, daily); err != nil {
		return nil, err
	}

	if p.uploader != nil {
		if err := p.uploader.UploadDir(ctx, p.exporter.Dir()); err != nil {
			return nil, fmt.Errorf("artifact upload failed: %w", err)
		}
	}

	summary.FinishedAt = time.Now().UTC()
	summary.DurationMS = summary.FinishedAt.Sub(summary.StartedAt).Milliseconds()
	summary.Resources = system.Sample()

	p.log.Info().
		Str("run_id", summary.RunID).
		Str("source", summary.Source).
		Int("instruments", summary.Instruments).
		Int("price_rows", summary.PriceRows).
		Int("news_articles", summary.NewsArticles).
		Int64("duration_ms", summary.DurationMS).
		Float64("cpu_percent", summary.Resources.CPUPercent).
		Uint64("mem_used_mb", summary.Resources.MemUsedMB).
		Msg("Pipeline run complete")
	return summary, nil
}

// buildPanel resolves the price panel: snapshot cache, then live download,
// then the synthetic generator. Live failures fall back, they never abort.
func (p *Pipeline) buildPanel(ctx context.Context, days []time.Time, symbols []string) (*market.Panel, bool, error) {
	source := "synthetic"
	if p.fetcher != nil && p.cfg.LiveData {
		source = "live"
	}
	key := snapshot.Key{
		Seed:        p.cfg.Seed,
		StartDate:   p.cfg.StartDate,
		EndDate:     p.cfg.EndDate,
		TradingDays: p.cfg.TradingDays,
		StockCount:  len(symbols),
		Source:      source,
	}

	if p.cache != nil && source == "synthetic" {
		panel, ok, err := p.cache.Load(key)
		if err != nil {
			p.log.Warn().Err(err).Msg("Snapshot load failed, regenerating")
		} else if ok {
			return panel, true, nil
		}
	}

	if source == "live" {
		panel, err := p.fetcher.FetchPanel(ctx, symbols, p.cfg.StartDate, p.cfg.EndDate)
		if err == nil {
			return panel, false, nil
		}
		p.log.Warn().Err(err).Msg("Live download failed, falling back to synthetic data")
		key.Source = "synthetic"
	}

	panel, err := market.NewGenerator(p.cfg.Seed, p.cfg.PriceDecimals, p.log).Generate(days, symbols)
	if err != nil {
		return nil, false, fmt.Errorf("market generation failed: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Save(key, panel); err != nil {
			p.log.Warn().Err(err).Msg("Snapshot save failed")
		}
	}
	return panel, false, nil
}

func (p *Pipeline) persist(panel *market.Panel, funds []fundamentals.Record,
	macroSeries []macro.Snapshot, articles []news.Article,
	scores []sentiment.Score, daily []sentiment.DailySummary) error {
	if err := p.repos.Prices.ReplacePanel(panel); err != nil {
		return fmt.Errorf("price persistence failed: %w", err)
	}
	if err := p.repos.Fundamentals.Replace(funds); err != nil {
		return fmt.Errorf("fundamentals persistence failed: %w", err)
	}
	if err := p.repos.Macro.Replace(macroSeries); err != nil {
		return fmt.Errorf("macro persistence failed: %w", err)
	}
	if err := p.repos.News.Replace(articles); err != nil {
		return fmt.Errorf("news persistence failed: %w", err)
	}
	if err := p.repos.Sentiment.Replace(scores, daily); err != nil {
		return fmt.Errorf("sentiment persistence failed: %w", err)
	}
	return nil
}

func (p *Pipeline) export(panel *market.Panel, funds []fundamentals.Record,
	macroSeries []macro.Snapshot, articles []news.Article,
	scores []sentiment.Score, daily []sentiment.DailySummary) error {
	if err := p.exporter.WritePrices(panel); err != nil {
		return err
	}
	if err := p.exporter.WriteFundamentals(funds); err != nil {
		return err
	}
	if err := p.exporter.WriteMacro(macroSeries); err != nil {
		return err
	}
	if err := p.exporter.WriteNews(articles); err != nil {
		return err
	}
	if err := p.exporter.WriteSentiment(scores); err != nil {
		return err
	}
	return p.exporter.WriteDailySentiment(daily)
}

// NewLiveFetcher wires the Yahoo downloader from config. Returns nil when
// live data is disabled.
func NewLiveFetcher(cfg *config.Config, log zerolog.Logger) PanelFetcher {
	if !cfg.LiveData {
		return nil
	}
	client := live.NewYahooClient(30 * time.Second)
	return live.NewDownloader(client, live.Config{
		BatchSize:  cfg.LiveBatchSize,
		Workers:    cfg.LiveWorkers,
		BatchDelay: cfg.LiveBatchDelay,
	}, log)
}
