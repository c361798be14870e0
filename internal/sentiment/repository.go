package sentiment

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/database"
)

// Repository persists article scores and the daily summary series.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a sentiment repository and ensures its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "sentiment_repository").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS sentiment_scores (
			date              TEXT NOT NULL,
			url               TEXT NOT NULL PRIMARY KEY,
			source            TEXT NOT NULL,
			category          TEXT NOT NULL,
			model_score       REAL NOT NULL,
			keyword_score     REAL NOT NULL,
			combined          REAL NOT NULL,
			confidence        REAL NOT NULL,
			intensity         REAL NOT NULL,
			positive_keywords INTEGER NOT NULL,
			negative_keywords INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sentiment_scores_date ON sentiment_scores(date);

		CREATE TABLE IF NOT EXISTS sentiment_daily (
			date               TEXT NOT NULL PRIMARY KEY,
			mean_score         REAL NOT NULL,
			std_score          REAL,
			article_count      INTEGER NOT NULL,
			min_score          REAL NOT NULL,
			max_score          REAL NOT NULL,
			mean_model         REAL NOT NULL,
			mean_keyword       REAL NOT NULL,
			mean_confidence    REAL NOT NULL,
			mean_intensity     REAL NOT NULL,
			positive_keywords  INTEGER NOT NULL,
			negative_keywords  INTEGER NOT NULL,
			total_keywords     INTEGER NOT NULL,
			momentum           REAL,
			volatility         REAL,
			regime             TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create sentiment schema: %w", err)
	}
	return nil
}

// Replace clears previously stored results and writes the new scores and
// daily series in a single transaction.
func (r *Repository) Replace(scores []Score, daily []DailySummary) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin sentiment transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sentiment_scores", "sentiment_daily"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	scoreStmt, err := tx.Prepare(`
		INSERT INTO sentiment_scores (date, url, source, category, model_score,
			keyword_score, combined, confidence, intensity,
			positive_keywords, negative_keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer scoreStmt.Close()

	for _, s := range scores {
		_, err := scoreStmt.Exec(
			s.Date.Format("2006-01-02"), s.URL, s.Source, s.Category,
			s.ModelScore, s.KeywordScore, s.Combined, s.Confidence, s.Intensity,
			s.PositiveKeywords, s.NegativeKeywords,
		)
		if err != nil {
			return fmt.Errorf("failed to insert score %s: %w", s.URL, err)
		}
	}

	dailyStmt, err := tx.Prepare(`
		INSERT INTO sentiment_daily (date, mean_score, std_score, article_count,
			min_score, max_score, mean_model, mean_keyword, mean_confidence,
			mean_intensity, positive_keywords, negative_keywords, total_keywords,
			momentum, volatility, regime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily insert: %w", err)
	}
	defer dailyStmt.Close()

	for _, d := range daily {
		_, err := dailyStmt.Exec(
			d.Date.Format("2006-01-02"), d.Mean, nullable(d.Std), d.Count,
			d.Min, d.Max, d.MeanModel, d.MeanKeyword, d.MeanConfidence,
			d.MeanIntensity, d.PositiveKeywords, d.NegativeKeywords,
			d.TotalKeywords, nullable(d.Momentum), nullable(d.Volatility),
			d.Regime,
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily summary %s: %w",
				d.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sentiment: %w", err)
	}

	r.log.Info().Int("scores", len(scores)).Int("days", len(daily)).
		Msg("Sentiment results stored")
	return nil
}

// GetDaily returns the stored daily summaries, oldest first. A limit of 0
// returns the full series.
func (r *Repository) GetDaily(limit int) ([]DailySummary, error) {
	query := `
		SELECT date, mean_score, std_score, article_count, min_score, max_score,
		       mean_model, mean_keyword, mean_confidence, mean_intensity,
		       positive_keywords, negative_keywords, total_keywords,
		       momentum, volatility, regime
		FROM sentiment_daily ORDER BY date ASC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sentiment: %w", err)
	}
	defer rows.Close()

	var daily []DailySummary
	for rows.Next() {
		var d DailySummary
		var dateStr string
		var std, momentum, volatility sql.NullFloat64
		err := rows.Scan(&dateStr, &d.Mean, &std, &d.Count, &d.Min, &d.Max,
			&d.MeanModel, &d.MeanKeyword, &d.MeanConfidence, &d.MeanIntensity,
			&d.PositiveKeywords, &d.NegativeKeywords, &d.TotalKeywords,
			&momentum, &volatility, &d.Regime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily sentiment: %w", err)
		}
		if d.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse sentiment date %q: %w", dateStr, err)
		}
		d.Std, d.Momentum, d.Volatility = value(std), value(momentum), value(volatility)
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
