package market

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/database"
)

// Repository persists the price panel.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a price panel repository and ensures its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "price_repository").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS prices (
			date            TEXT    NOT NULL,
			symbol          TEXT    NOT NULL,
			open            REAL    NOT NULL,
			high            REAL    NOT NULL,
			low             REAL    NOT NULL,
			close           REAL    NOT NULL,
			volume          INTEGER NOT NULL,
			daily_return    REAL    NOT NULL,
			log_return      REAL    NOT NULL,
			ma_5            REAL,
			ma_20           REAL,
			ma_50           REAL,
			ma_200          REAL,
			volatility_5    REAL,
			volatility_20   REAL,
			volatility_60   REAL,
			rsi             REAL,
			macd            REAL,
			macd_signal     REAL,
			bb_upper        REAL,
			bb_lower        REAL,
			liquidity_score REAL,
			volume_ma_20    REAL,
			volume_ratio    REAL,
			price_change_1d  REAL,
			price_change_5d  REAL,
			price_change_20d REAL,
			PRIMARY KEY (symbol, date)
		);
		CREATE INDEX IF NOT EXISTS idx_prices_date ON prices(date);
	`)
	if err != nil {
		return fmt.Errorf("failed to create prices schema: %w", err)
	}
	return nil
}

// ReplacePanel clears previously stored prices and writes the new panel in a
// single transaction.
func (r *Repository) ReplacePanel(panel *Panel) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin panel transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prices`); err != nil {
		return fmt.Errorf("failed to clear prices: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO prices (
			date, symbol, open, high, low, close, volume, daily_return, log_return,
			ma_5, ma_20, ma_50, ma_200,
			volatility_5, volatility_20, volatility_60,
			rsi, macd, macd_signal, bb_upper, bb_lower,
			liquidity_score, volume_ma_20, volume_ratio,
			price_change_1d, price_change_5d, price_change_20d
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer stmt.Close()

	for i := range panel.Instruments {
		series := &panel.Instruments[i]
		for j := range series.Points {
			p := &series.Points[j]
			_, err := stmt.Exec(
				p.Date.Format("2006-01-02"), p.Symbol,
				p.Open, p.High, p.Low, p.Close, p.Volume, p.Return, p.LogReturn,
				nullable(p.MA5), nullable(p.MA20), nullable(p.MA50), nullable(p.MA200),
				nullable(p.Volatility5), nullable(p.Volatility20), nullable(p.Volatility60),
				nullable(p.RSI), nullable(p.MACD), nullable(p.MACDSignal),
				nullable(p.BBUpper), nullable(p.BBLower),
				nullable(p.LiquidityScore), nullable(p.VolumeMA20), nullable(p.VolumeRatio),
				nullable(p.PriceChange1D), nullable(p.PriceChange5D), nullable(p.PriceChange20D),
			)
			if err != nil {
				return fmt.Errorf("failed to insert price row %s/%s: %w",
					p.Symbol, p.Date.Format("2006-01-02"), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit panel: %w", err)
	}

	r.log.Info().Int("rows", panel.Rows()).Int("instruments", len(panel.Instruments)).
		Msg("Price panel stored")
	return nil
}

// GetSeries returns the stored series for a symbol, oldest first. A limit of
// 0 returns the full history.
func (r *Repository) GetSeries(symbol string, limit int) ([]PricePoint, error) {
	query := `
		SELECT date, symbol, open, high, low, close, volume, daily_return, log_return,
		       ma_5, ma_20, ma_50, ma_200,
		       volatility_5, volatility_20, volatility_60,
		       rsi, macd, macd_signal, bb_upper, bb_lower,
		       liquidity_score, volume_ma_20, volume_ratio,
		       price_change_1d, price_change_5d, price_change_20d
		FROM prices WHERE symbol = ? ORDER BY date ASC`
	args := []interface{}{symbol}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var p PricePoint
		var dateStr string
		cols := make([]sql.NullFloat64, 18) // nullable indicator columns
		dest := []interface{}{
			&dateStr, &p.Symbol, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume,
			&p.Return, &p.LogReturn,
		}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}

		p.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price date %q: %w", dateStr, err)
		}

		p.MA5, p.MA20, p.MA50, p.MA200 = value(cols[0]), value(cols[1]), value(cols[2]), value(cols[3])
		p.Volatility5, p.Volatility20, p.Volatility60 = value(cols[4]), value(cols[5]), value(cols[6])
		p.RSI, p.MACD, p.MACDSignal = value(cols[7]), value(cols[8]), value(cols[9])
		p.BBUpper, p.BBLower = value(cols[10]), value(cols[11])
		p.LiquidityScore, p.VolumeMA20, p.VolumeRatio = value(cols[12]), value(cols[13]), value(cols[14])
		p.PriceChange1D, p.PriceChange5D, p.PriceChange20D = value(cols[15]), value(cols[16]), value(cols[17])

		points = append(points, p)
	}
	return points, rows.Err()
}

// Symbols returns the distinct symbols stored in the panel.
func (r *Repository) Symbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM prices ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query panel symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// nullable maps NaN indicator values to NULL for storage.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// value maps NULL back to NaN on load.
func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
