// Package artifacts writes the run outputs: the CSV dataset files and an
// optional S3 upload of the results directory.
package artifacts

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/fundamentals"
	"github.com/quantlab/factorpanel/internal/macro"
	"github.com/quantlab/factorpanel/internal/market"
	"github.com/quantlab/factorpanel/internal/news"
	"github.com/quantlab/factorpanel/internal/sentiment"
)

// Dataset file names, fixed because downstream research notebooks key on them.
const (
	PricesFile         = "stock_market_data.csv"
	FundamentalsFile   = "fundamental_data.csv"
	MacroFile          = "macro_economic_data.csv"
	NewsFile           = "news_data.csv"
	SentimentFile      = "sentiment_analysis_results.csv"
	DailySentimentFile = "daily_sentiment_summary.csv"
)

// Exporter writes the CSV dataset files into one directory.
type Exporter struct {
	dir string
	log zerolog.Logger
}

// NewExporter creates an exporter rooted at dir, creating it if needed.
func NewExporter(dir string, log zerolog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}
	return &Exporter{
		dir: dir,
		log: log.With().Str("component", "csv_exporter").Logger(),
	}, nil
}

// Dir returns the export directory.
func (e *Exporter) Dir() string { return e.dir }

// WritePrices exports the price panel.
func (e *Exporter) WritePrices(panel *market.Panel) error {
	header := []string{
		"date", "symbol", "open", "high", "low", "close", "volume",
		"daily_return", "log_return", "ma_5", "ma_20", "ma_50", "ma_200",
		"volatility_5", "volatility_20", "volatility_60",
		"rsi", "macd", "macd_signal", "bb_upper", "bb_lower",
		"liquidity_score", "volume_ma_20", "volume_ratio",
		"price_change_1d", "price_change_5d", "price_change_20d",
	}
	return e.writeFile(PricesFile, header, func(w *csv.Writer) error {
		for i := range panel.Instruments {
			for _, p := range panel.Instruments[i].Points {
				row := []string{
					p.Date.Format("2006-01-02"), p.Symbol,
					f(p.Open), f(p.High), f(p.Low), f(p.Close),
					strconv.FormatInt(p.Volume, 10),
					f(p.Return), f(p.LogReturn),
					f(p.MA5), f(p.MA20), f(p.MA50), f(p.MA200),
					f(p.Volatility5), f(p.Volatility20), f(p.Volatility60),
					f(p.RSI), f(p.MACD), f(p.MACDSignal), f(p.BBUpper), f(p.BBLower),
					f(p.LiquidityScore), f(p.VolumeMA20), f(p.VolumeRatio),
					f(p.PriceChange1D), f(p.PriceChange5D), f(p.PriceChange20D),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteFundamentals exports the quarterly fundamentals.
func (e *Exporter) WriteFundamentals(records []fundamentals.Record) error {
	names := fundamentals.Metrics()
	header := append([]string{"date", "symbol", "quarter"}, names...)
	return e.writeFile(FundamentalsFile, header, func(w *csv.Writer) error {
		for _, rec := range records {
			row := []string{rec.Date.Format("2006-01-02"), rec.Symbol, rec.Quarter}
			for _, name := range names {
				row = append(row, f(rec.Ratios[name]))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMacro exports the monthly macro series.
func (e *Exporter) WriteMacro(snapshots []macro.Snapshot) error {
	header := []string{
		"date", "gdp_growth", "inflation_rate", "unemployment_rate",
		"federal_funds_rate", "vix_index", "dollar_index", "oil_price",
		"ten_year_treasury",
	}
	return e.writeFile(MacroFile, header, func(w *csv.Writer) error {
		for _, s := range snapshots {
			row := []string{
				s.Date.Format("2006-01-02"),
				f(s.GDPGrowth), f(s.InflationRate), f(s.UnemploymentRate),
				f(s.FedFundsRate), f(s.VIX), f(s.DollarIndex), f(s.OilPrice),
				f(s.TenYearTreasury),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteNews exports the news corpus.
func (e *Exporter) WriteNews(articles []news.Article) error {
	header := []string{
		"date", "published_at", "title", "description", "source",
		"company", "category", "sentiment_hint", "url",
	}
	return e.writeFile(NewsFile, header, func(w *csv.Writer) error {
		for _, a := range articles {
			row := []string{
				a.Date.Format("2006-01-02"), a.PublishedAt.Format(time.RFC3339),
				a.Title, a.Description, a.Source, a.Company, a.Category,
				a.SentimentHint, a.URL,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSentiment exports the per-article scores.
func (e *Exporter) WriteSentiment(scores []sentiment.Score) error {
	header := []string{
		"date", "url", "source", "category", "model_score", "keyword_score",
		"combined", "confidence", "intensity",
		"positive_keywords", "negative_keywords", "total_keywords",
	}
	return e.writeFile(SentimentFile, header, func(w *csv.Writer) error {
		for _, s := range scores {
			row := []string{
				s.Date.Format("2006-01-02"), s.URL, s.Source, s.Category,
				f(s.ModelScore), f(s.KeywordScore), f(s.Combined),
				f(s.Confidence), f(s.Intensity),
				strconv.Itoa(s.PositiveKeywords), strconv.Itoa(s.NegativeKeywords),
				strconv.Itoa(s.TotalKeywords()),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDailySentiment exports the daily sentiment series.
func (e *Exporter) WriteDailySentiment(daily []sentiment.DailySummary) error {
	header := []string{
		"date", "mean_score", "std_score", "article_count", "min_score",
		"max_score", "mean_model", "mean_keyword", "mean_confidence",
		"mean_intensity", "positive_keywords", "negative_keywords",
		"total_keywords", "momentum", "volatility", "regime",
	}
	return e.writeFile(DailySentimentFile, header, func(w *csv.Writer) error {
		for _, d := range daily {
			row := []string{
				d.Date.Format("2006-01-02"),
				f(d.Mean), f(d.Std), strconv.Itoa(d.Count), f(d.Min), f(d.Max),
				f(d.MeanModel), f(d.MeanKeyword), f(d.MeanConfidence),
				f(d.MeanIntensity),
				strconv.Itoa(d.PositiveKeywords), strconv.Itoa(d.NegativeKeywords),
				strconv.Itoa(d.TotalKeywords),
				f(d.Momentum), f(d.Volatility), d.Regime,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Exporter) writeFile(name string, header []string, body func(w *csv.Writer) error) error {
	path := filepath.Join(e.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}

	e.log.Info().Str("file", name).Msg("CSV written")
	return nil
}

// f formats a float for CSV; NaN becomes an empty cell.
func f(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
