package macro

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/database"
)

// Repository persists the monthly macro series.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a macro repository and ensures its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "macro_repository").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS macro (
			date               TEXT NOT NULL PRIMARY KEY,
			gdp_growth         REAL NOT NULL,
			inflation_rate     REAL NOT NULL,
			unemployment_rate  REAL NOT NULL,
			federal_funds_rate REAL NOT NULL,
			vix_index          REAL NOT NULL,
			dollar_index       REAL NOT NULL,
			oil_price          REAL NOT NULL,
			ten_year_treasury  REAL NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create macro schema: %w", err)
	}
	return nil
}

// Replace clears the previously stored series and writes the new snapshots in
// a single transaction.
func (r *Repository) Replace(snapshots []Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin macro transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM macro`); err != nil {
		return fmt.Errorf("failed to clear macro: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO macro (date, gdp_growth, inflation_rate, unemployment_rate,
			federal_funds_rate, vix_index, dollar_index, oil_price,
			ten_year_treasury)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare macro insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		_, err := stmt.Exec(
			s.Date.Format("2006-01-02"), s.GDPGrowth, s.InflationRate,
			s.UnemploymentRate, s.FedFundsRate, s.VIX, s.DollarIndex,
			s.OilPrice, s.TenYearTreasury,
		)
		if err != nil {
			return fmt.Errorf("failed to insert macro row %s: %w",
				s.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit macro: %w", err)
	}

	r.log.Info().Int("rows", len(snapshots)).Msg("Macro series stored")
	return nil
}

// GetAll returns the stored series, oldest first.
func (r *Repository) GetAll() ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT date, gdp_growth, inflation_rate, unemployment_rate,
		       federal_funds_rate, vix_index, dollar_index, oil_price,
		       ten_year_treasury
		FROM macro ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query macro series: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var dateStr string
		err := rows.Scan(&dateStr, &s.GDPGrowth, &s.InflationRate,
			&s.UnemploymentRate, &s.FedFundsRate, &s.VIX, &s.DollarIndex,
			&s.OilPrice, &s.TenYearTreasury)
		if err != nil {
			return nil, fmt.Errorf("failed to scan macro row: %w", err)
		}
		if s.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse macro date %q: %w", dateStr, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
