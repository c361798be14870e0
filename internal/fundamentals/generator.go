// Package fundamentals generates the quarterly fundamental-ratio panel.
package fundamentals

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quantlab/factorpanel/internal/calendar"
)

// Record is one instrument-quarter of fundamentals. Every ratio is strictly
// positive.
type Record struct {
	Date    time.Time
	Symbol  string
	Quarter string
	Ratios  map[string]float64
}

// ratioFloor keeps every generated ratio strictly positive even under large
// negative noise draws.
const ratioFloor = 0.01

// Metrics returns the 15 ratio names in generation order.
func Metrics() []string {
	out := make([]string, len(metrics))
	for i, m := range metrics {
		out[i] = m.name
	}
	return out
}

type metric struct {
	name string
	base float64
}

// Generation order is fixed; reordering changes every seeded run.
var metrics = []metric{
	{"market_cap", 50000}, // millions USD
	{"pe_ratio", 18.0},
	{"pb_ratio", 2.5},
	{"ps_ratio", 3.0},
	{"ev_ebitda", 12.0},
	{"roe", 0.15},
	{"roa", 0.08},
	{"roi", 0.12},
	{"gross_margin", 0.35},
	{"operating_margin", 0.15},
	{"net_margin", 0.10},
	{"debt_to_equity", 0.60},
	{"current_ratio", 1.5},
	{"quick_ratio", 1.2},
	{"asset_turnover", 0.8},
}

// Valuation multipliers for the coarse style buckets: growth tech carries
// richer multiples, banks carry cheaper multiples and more leverage.
var techMultipliers = map[string]float64{
	"pe_ratio": 1.5, "pb_ratio": 1.3, "ps_ratio": 1.8, "ev_ebitda": 1.4,
	"roe": 1.2, "roa": 1.1, "roi": 1.2, "gross_margin": 1.3,
	"operating_margin": 1.2, "net_margin": 1.1,
}

var financeMultipliers = map[string]float64{
	"pe_ratio": 0.7, "pb_ratio": 0.8, "debt_to_equity": 2.0,
	"roe": 0.9, "current_ratio": 0.5, "quick_ratio": 0.5,
}

var techSymbols = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "NVDA": true, "META": true, "TSLA": true,
}

var financeSymbols = map[string]bool{
	"JPM": true, "BAC": true, "WFC": true, "GS": true, "AXP": true,
}

func multiplier(symbol, metricName string) float64 {
	var table map[string]float64
	switch {
	case techSymbols[symbol]:
		table = techMultipliers
	case financeSymbols[symbol]:
		table = financeMultipliers
	default:
		return 1.0
	}
	if m, ok := table[metricName]; ok {
		return m
	}
	return 1.0
}

// fundamentalsStream separates this generator's draws from the other
// streams derived from the same global seed.
const fundamentalsStream uint64 = 0x66756e64 // "fund"

// Generator produces the quarterly fundamentals panel.
type Generator struct {
	seed uint64
	log  zerolog.Logger
}

// NewGenerator creates a fundamentals generator for the given global seed.
func NewGenerator(seed uint64, log zerolog.Logger) *Generator {
	return &Generator{
		seed: seed,
		log:  log.With().Str("component", "fundamentals_generator").Logger(),
	}
}

// Generate emits one record per quarter per symbol: base value x sector
// multiplier + gaussian noise at 10% of base, floored at a small positive
// epsilon.
func (g *Generator) Generate(quarters []time.Time, symbols []string) ([]Record, error) {
	if len(quarters) == 0 {
		return nil, fmt.Errorf("cannot generate fundamentals over an empty calendar")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("cannot generate fundamentals for an empty universe")
	}

	src := rand.NewPCG(g.seed, fundamentalsStream)
	noise := make([]distuv.Normal, len(metrics))
	for i, m := range metrics {
		noise[i] = distuv.Normal{Mu: 0, Sigma: m.base * 0.1, Src: src}
	}

	records := make([]Record, 0, len(quarters)*len(symbols))
	for _, quarter := range quarters {
		for _, symbol := range symbols {
			rec := Record{
				Date:    quarter,
				Symbol:  symbol,
				Quarter: calendar.QuarterLabel(quarter),
				Ratios:  make(map[string]float64, len(metrics)),
			}
			for i, m := range metrics {
				value := m.base*multiplier(symbol, m.name) + noise[i].Rand()
				rec.Ratios[m.name] = math.Max(ratioFloor, value)
			}
			records = append(records, rec)
		}
	}

	g.log.Info().
		Int("quarters", len(quarters)).
		Int("symbols", len(symbols)).
		Int("records", len(records)).
		Msg("Fundamentals generated")
	return records, nil
}
