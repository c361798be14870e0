package fundamentals

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/database"
)

// Repository persists the quarterly fundamentals panel.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a fundamentals repository and ensures its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "fundamentals_repository").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS fundamentals (
			date             TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			quarter          TEXT NOT NULL,
			market_cap       REAL NOT NULL,
			pe_ratio         REAL NOT NULL,
			pb_ratio         REAL NOT NULL,
			ps_ratio         REAL NOT NULL,
			ev_ebitda        REAL NOT NULL,
			roe              REAL NOT NULL,
			roa              REAL NOT NULL,
			roi              REAL NOT NULL,
			gross_margin     REAL NOT NULL,
			operating_margin REAL NOT NULL,
			net_margin       REAL NOT NULL,
			debt_to_equity   REAL NOT NULL,
			current_ratio    REAL NOT NULL,
			quick_ratio      REAL NOT NULL,
			asset_turnover   REAL NOT NULL,
			PRIMARY KEY (symbol, date)
		);
		CREATE INDEX IF NOT EXISTS idx_fundamentals_quarter ON fundamentals(quarter);
	`)
	if err != nil {
		return fmt.Errorf("failed to create fundamentals schema: %w", err)
	}
	return nil
}

// Replace clears previously stored fundamentals and writes the new records in
// a single transaction.
func (r *Repository) Replace(records []Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin fundamentals transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fundamentals`); err != nil {
		return fmt.Errorf("failed to clear fundamentals: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fundamentals (
			date, symbol, quarter,
			market_cap, pe_ratio, pb_ratio, ps_ratio, ev_ebitda,
			roe, roa, roi, gross_margin, operating_margin, net_margin,
			debt_to_equity, current_ratio, quick_ratio, asset_turnover
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fundamentals insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		args := []interface{}{rec.Date.Format("2006-01-02"), rec.Symbol, rec.Quarter}
		for _, name := range Metrics() {
			args = append(args, rec.Ratios[name])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert fundamentals row %s/%s: %w",
				rec.Symbol, rec.Quarter, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fundamentals: %w", err)
	}

	r.log.Info().Int("rows", len(records)).Msg("Fundamentals stored")
	return nil
}

// GetSymbol returns the stored quarterly records for one symbol, oldest first.
func (r *Repository) GetSymbol(symbol string) ([]Record, error) {
	rows, err := r.db.Query(`
		SELECT date, symbol, quarter,
		       market_cap, pe_ratio, pb_ratio, ps_ratio, ev_ebitda,
		       roe, roa, roi, gross_margin, operating_margin, net_margin,
		       debt_to_equity, current_ratio, quick_ratio, asset_turnover
		FROM fundamentals WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals for %s: %w", symbol, err)
	}
	defer rows.Close()

	names := Metrics()
	var records []Record
	for rows.Next() {
		rec := Record{Ratios: make(map[string]float64, len(names))}
		var dateStr string
		values := make([]float64, len(names))
		dest := []interface{}{&dateStr, &rec.Symbol, &rec.Quarter}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan fundamentals row: %w", err)
		}

		rec.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fundamentals date %q: %w", dateStr, err)
		}
		for i, name := range names {
			rec.Ratios[name] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
