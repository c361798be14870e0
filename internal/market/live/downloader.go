package live

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/market"
)

// Config tunes the batch downloader.
type Config struct {
	BatchSize  int           // symbols per batch
	Workers    int           // concurrent batches
	BatchDelay time.Duration // pause a worker takes between its batches
}

// Downloader pulls daily bars for a whole universe in throttled batches. A
// failed batch marks its symbols failed and moves on; symbols are never
// retried within a run.
type Downloader struct {
	client HistoryClient
	cfg    Config
	log    zerolog.Logger
}

// NewDownloader creates a batch downloader.
func NewDownloader(client HistoryClient, cfg Config, log zerolog.Logger) *Downloader {
	return &Downloader{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("component", "live_downloader").Logger(),
	}
}

type batchResult struct {
	series []market.Series
	failed []string
}

// FetchPanel downloads bars for every symbol and assembles them into a panel
// with derived returns and indicators. It errors only when no symbol at all
// produced data; partial coverage is reported through Panel.Failed.
func (d *Downloader) FetchPanel(ctx context.Context, symbols []string, start, end time.Time) (*market.Panel, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to download")
	}

	var batches [][]string
	for i := 0; i < len(symbols); i += d.cfg.BatchSize {
		to := i + d.cfg.BatchSize
		if to > len(symbols) {
			to = len(symbols)
		}
		batches = append(batches, symbols[i:to])
	}

	jobs := make(chan []string)
	results := make(chan batchResult)

	var wg sync.WaitGroup
	for w := 0; w < d.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first := true
			for batch := range jobs {
				if !first {
					// Throttle between a worker's consecutive batches to stay
					// under the provider's rate limits.
					select {
					case <-time.After(d.cfg.BatchDelay):
					case <-ctx.Done():
						results <- batchResult{failed: batch}
						continue
					}
				}
				first = false
				results <- d.fetchBatch(ctx, batch, start, end)
			}
		}()
	}

	go func() {
		for _, b := range batches {
			jobs <- b
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	panel := &market.Panel{Source: "live"}
	for res := range results {
		panel.Instruments = append(panel.Instruments, res.series...)
		panel.Failed = append(panel.Failed, res.failed...)
	}

	if len(panel.Instruments) == 0 {
		return nil, fmt.Errorf("live download produced no data for %d symbols", len(symbols))
	}

	d.log.Info().
		Int("ok", len(panel.Instruments)).
		Int("failed", len(panel.Failed)).
		Msg("Live download complete")
	return panel, nil
}

// fetchBatch downloads one batch. Failures inside the batch are isolated per
// symbol; the batch result carries both outcomes.
func (d *Downloader) fetchBatch(ctx context.Context, batch []string, start, end time.Time) batchResult {
	var res batchResult
	for _, symbol := range batch {
		bars, err := d.client.DailyBars(ctx, symbol, start, end)
		if err != nil || len(bars) == 0 {
			d.log.Warn().Err(err).Str("symbol", symbol).Msg("Symbol download failed, excluding")
			res.failed = append(res.failed, symbol)
			continue
		}
		res.series = append(res.series, toSeries(symbol, bars))
	}
	return res
}

// toSeries converts provider bars into a panel series with derived returns
// and the full indicator set.
func toSeries(symbol string, bars []Bar) market.Series {
	points := make([]market.PricePoint, len(bars))
	for i, b := range bars {
		ret := math.NaN()
		logRet := math.NaN()
		if i > 0 && bars[i-1].Close != 0 {
			ret = (b.Close - bars[i-1].Close) / bars[i-1].Close
			logRet = math.Log(b.Close / bars[i-1].Close)
		}
		points[i] = market.PricePoint{
			Date:      b.Date,
			Symbol:    symbol,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Return:    ret,
			LogReturn: logRet,
		}
	}
	market.ComputeIndicators(points)
	return market.Series{Symbol: symbol, Points: points}
}
