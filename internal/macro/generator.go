// Package macro generates the monthly macroeconomic indicator series: a
// bounded random walk per indicator with event-driven shifts, hard-clamped to
// economically plausible ranges.
package macro

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"
)

// Snapshot is one month of the macro series. Every field is guaranteed to
// lie inside its declared band.
type Snapshot struct {
	Date             time.Time
	GDPGrowth        float64
	InflationRate    float64
	UnemploymentRate float64
	FedFundsRate     float64
	VIX              float64
	DollarIndex      float64
	OilPrice         float64
	TenYearTreasury  float64
}

// indicator describes one series of the walk: starting level, monthly shock
// scale and the clamp band.
type indicator struct {
	name    string
	initial float64
	sigma   float64
	min     float64
	max     float64
}

// Walk order is fixed; reordering changes every seeded run.
var indicators = []indicator{
	{"gdp_growth", 2.5, 0.3, -5.0, 8.0},
	{"inflation_rate", 2.0, 0.4, -1.0, 10.0},
	{"unemployment_rate", 5.0, 0.2, 2.0, 15.0},
	{"federal_funds_rate", 1.5, 0.25, 0.0, 6.0},
	{"vix_index", 18.0, 3.0, 10.0, 80.0},
	{"dollar_index", 95.0, 2.0, 80.0, 120.0},
	{"oil_price", 70.0, 8.0, 20.0, 150.0},
	{"ten_year_treasury", 2.5, 0.3, 0.5, 6.0},
}

// Band returns the clamp band for an indicator name. Unknown names report ok
// == false.
func Band(name string) (min, max float64, ok bool) {
	for _, ind := range indicators {
		if ind.name == name {
			return ind.min, ind.max, true
		}
	}
	return 0, 0, false
}

// macroStream separates the macro draw stream from the per-instrument price
// streams derived from the same global seed.
const macroStream uint64 = 0x6d6163726f // "macro"

// Generator produces the monthly macro series.
type Generator struct {
	seed uint64
	log  zerolog.Logger
}

// NewGenerator creates a macro series generator for the given global seed.
func NewGenerator(seed uint64, log zerolog.Logger) *Generator {
	return &Generator{
		seed: seed,
		log:  log.With().Str("component", "macro_generator").Logger(),
	}
}

// Generate walks the indicator vector across the given month ends.
func (g *Generator) Generate(months []time.Time) ([]Snapshot, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("cannot generate macro series over an empty calendar")
	}

	src := rand.NewPCG(g.seed, macroStream)
	shocks := make([]distuv.Normal, len(indicators))
	for i, ind := range indicators {
		shocks[i] = distuv.Normal{Mu: 0, Sigma: ind.sigma, Src: src}
	}

	values := make([]float64, len(indicators))
	for i, ind := range indicators {
		values[i] = ind.initial
	}

	snapshots := make([]Snapshot, 0, len(months))
	for step, month := range months {
		for i := range indicators {
			values[i] += shocks[i].Rand()
		}
		applyEvents(values, month, step)
		for i, ind := range indicators {
			values[i] = clamp(values[i], ind.min, ind.max)
		}
		snapshots = append(snapshots, snapshot(month, values))
	}

	g.log.Info().Int("months", len(snapshots)).Msg("Macro series generated")
	return snapshots, nil
}

// Indicator positions in the walk vector.
const (
	idxGDP = iota
	idxInflation
	idxUnemployment
	idxFedFunds
	idxVIX
	idxDollar
	idxOil
	idxTenYear
)

// applyEvents layers the deterministic stress-period adjustments onto the
// walk before clamping.
func applyEvents(values []float64, month time.Time, step int) {
	covidStart := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	covidEnd := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	if !month.Before(covidStart) && !month.After(covidEnd) {
		// Unemployment spike decays over the months following the shock.
		values[idxUnemployment] += 2.0 * math.Exp(-float64(step%12)/3)
		values[idxGDP] -= 1.5
		values[idxVIX] += 10.0
		values[idxFedFunds] = math.Max(0.1, values[idxFedFunds]-0.5)
	}

	inflStart := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	inflEnd := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	if !month.Before(inflStart) && !month.After(inflEnd) {
		values[idxInflation] = math.Min(9.0, values[idxInflation]+0.3)
		values[idxFedFunds] = math.Min(5.5, values[idxFedFunds]+0.2)
		values[idxTenYear] = math.Min(5.0, values[idxTenYear]+0.15)
	}
}

func snapshot(month time.Time, values []float64) Snapshot {
	return Snapshot{
		Date:             month,
		GDPGrowth:        values[idxGDP],
		InflationRate:    values[idxInflation],
		UnemploymentRate: values[idxUnemployment],
		FedFundsRate:     values[idxFedFunds],
		VIX:              values[idxVIX],
		DollarIndex:      values[idxDollar],
		OilPrice:         values[idxOil],
		TenYearTreasury:  values[idxTenYear],
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
