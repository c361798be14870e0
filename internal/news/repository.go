package news

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/database"
)

// Repository persists the news corpus.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a news repository and ensures its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "news_repository").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS news (
			date           TEXT NOT NULL,
			published_at   TEXT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL,
			source         TEXT NOT NULL,
			company        TEXT NOT NULL,
			category       TEXT NOT NULL,
			sentiment_hint TEXT NOT NULL,
			url            TEXT NOT NULL PRIMARY KEY
		);
		CREATE INDEX IF NOT EXISTS idx_news_date ON news(date);
	`)
	if err != nil {
		return fmt.Errorf("failed to create news schema: %w", err)
	}
	return nil
}

// Replace clears previously stored articles and writes the new corpus in a
// single transaction.
func (r *Repository) Replace(articles []Article) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin news transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM news`); err != nil {
		return fmt.Errorf("failed to clear news: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO news (date, published_at, title, description, source,
			company, category, sentiment_hint, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare news insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.Exec(
			a.Date.Format("2006-01-02"), a.PublishedAt.Format(time.RFC3339),
			a.Title, a.Description, a.Source, a.Company, a.Category,
			a.SentimentHint, a.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %s: %w", a.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit news: %w", err)
	}

	r.log.Info().Int("rows", len(articles)).Msg("News corpus stored")
	return nil
}

// GetByDate returns the articles published on one trading day.
func (r *Repository) GetByDate(day time.Time) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT date, published_at, title, description, source,
		       company, category, sentiment_hint, url
		FROM news WHERE date = ? ORDER BY published_at ASC`,
		day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query news for %s: %w",
			day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var dateStr, pubStr string
		err := rows.Scan(&dateStr, &pubStr, &a.Title, &a.Description, &a.Source,
			&a.Company, &a.Category, &a.SentimentHint, &a.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		if a.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse article date %q: %w", dateStr, err)
		}
		if a.PublishedAt, err = time.Parse(time.RFC3339, pubStr); err != nil {
			return nil, fmt.Errorf("failed to parse publish time %q: %w", pubStr, err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Count returns the number of stored articles.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM news`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return n, nil
}
