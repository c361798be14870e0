package market

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quantlab/factorpanel/internal/sectors"
)

// Market-structure constants, annualization by 252 trading days.
const (
	tradingDaysPerYear = 252
	marketShockSigma   = 0.01 // daily sigma of the market-common factor

	initialPriceMin = 50.0
	initialPriceMax = 500.0

	dailyRangeMinFrac = 0.005 // intraday range as fraction of close
	dailyRangeMaxFrac = 0.04

	volumeNoiseMin = 0.5
	volumeNoiseMax = 2.0
)

// EventWindow is a fixed date-windowed additive shock simulating a known
// stress period. Draws use a distinct distribution restricted to days inside
// the window.
type EventWindow struct {
	Name   string
	Start  time.Time
	End    time.Time
	Mean   float64
	StdDev float64
}

// DefaultEvents returns the stress periods of the 2015-2024 study window:
// the COVID crash and the 2022 inflation / rate-hike year.
func DefaultEvents() []EventWindow {
	return []EventWindow{
		{
			Name:   "covid_crash",
			Start:  time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC),
			Mean:   -0.02,
			StdDev: 0.05,
		},
		{
			Name:   "inflation_2022",
			Start:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
			Mean:   -0.005,
			StdDev: 0.02,
		},
	}
}

// Generator produces a deterministic synthetic price panel. Each instrument
// draws from its own sub-source derived from (seed, instrument index), so a
// given (seed, calendar, universe) triple always reproduces the same panel
// regardless of how instruments are scheduled.
type Generator struct {
	seed     uint64
	decimals int
	events   []EventWindow
	log      zerolog.Logger
}

// NewGenerator creates a generator for the given global seed.
func NewGenerator(seed uint64, decimals int, log zerolog.Logger) *Generator {
	return &Generator{
		seed:     seed,
		decimals: decimals,
		events:   DefaultEvents(),
		log:      log.With().Str("component", "market_generator").Logger(),
	}
}

// WithEvents replaces the default event overlays. Used by tests and by
// studies targeting other periods.
func (g *Generator) WithEvents(events []EventWindow) *Generator {
	g.events = events
	return g
}

// Generate produces the full panel for the given calendar and universe.
// Instruments that fail to generate are excluded and reported in
// Panel.Failed; a panel covering no instrument at all is an error.
func (g *Generator) Generate(days []time.Time, symbols []string) (*Panel, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("cannot generate prices over an empty calendar")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("cannot generate prices for an empty universe")
	}

	panel := &Panel{Source: "synthetic"}
	for i, symbol := range symbols {
		series, err := g.generateInstrument(symbol, i, days)
		if err != nil {
			g.log.Warn().Err(err).Str("symbol", symbol).Msg("Instrument generation failed, excluding from panel")
			panel.Failed = append(panel.Failed, symbol)
			continue
		}
		panel.Instruments = append(panel.Instruments, series)

		if (i+1)%50 == 0 {
			g.log.Info().Int("done", i+1).Int("total", len(symbols)).Msg("Generating instruments")
		}
	}

	if len(panel.Instruments) == 0 {
		return nil, fmt.Errorf("all %d instruments failed to generate", len(symbols))
	}
	return panel, nil
}

// generateInstrument builds one instrument's series. Draw order is fixed and
// must not be reordered: initial price, market shocks, idiosyncratic shocks,
// event overlays (window order, day order), then per-day OHLC and volume
// noise. Reordering changes every seeded run.
func (g *Generator) generateInstrument(symbol string, index int, days []time.Time) (Series, error) {
	src := rand.NewPCG(g.seed, uint64(index))
	rng := rand.New(src)
	profile := sectors.Lookup(symbol)

	n := len(days)
	initialPrice := initialPriceMin + rng.Float64()*(initialPriceMax-initialPriceMin)

	dailyDrift := profile.Drift / tradingDaysPerYear
	dailyVol := profile.Volatility / math.Sqrt(tradingDaysPerYear)

	marketNoise := distuv.Normal{Mu: 0, Sigma: marketShockSigma, Src: src}
	marketShocks := make([]float64, n)
	for t := range marketShocks {
		marketShocks[t] = marketNoise.Rand()
	}

	idioNoise := distuv.Normal{Mu: dailyDrift, Sigma: dailyVol, Src: src}
	returns := make([]float64, n)
	for t := range returns {
		returns[t] = profile.Beta*marketShocks[t] + idioNoise.Rand()
	}

	for _, ev := range g.events {
		overlay := distuv.Normal{Mu: ev.Mean, Sigma: ev.StdDev, Src: src}
		for t, day := range days {
			if !day.Before(ev.Start) && !day.After(ev.End) {
				returns[t] += overlay.Rand()
			}
		}
	}

	// Compound the return series into a price path.
	prices := make([]float64, n)
	prev := initialPrice
	for t := range prices {
		prev *= 1 + returns[t]
		if prev <= 0 || math.IsInf(prev, 0) || math.IsNaN(prev) {
			return Series{}, fmt.Errorf("price path for %s degenerated at day %d (price=%v)", symbol, t, prev)
		}
		prices[t] = prev
	}

	points := make([]PricePoint, n)
	for t, day := range days {
		closePrice := prices[t]
		dayRange := closePrice * (dailyRangeMinFrac + rng.Float64()*(dailyRangeMaxFrac-dailyRangeMinFrac))
		high := closePrice + rng.Float64()*dayRange
		low := closePrice - rng.Float64()*dayRange

		// Open is the previous close; day 0 opens at its own close. The log
		// return on day 0 is taken against the unrounded initial price.
		prevClose := initialPrice
		openPrice := closePrice
		if t > 0 {
			prevClose = prices[t-1]
			openPrice = prices[t-1]
		}

		volumeNoise := volumeNoiseMin + rng.Float64()*(volumeNoiseMax-volumeNoiseMin)
		volume := int64(profile.AvgVolume * (1 + 10*math.Abs(returns[t])) * volumeNoise)

		points[t] = PricePoint{
			Date:      day,
			Symbol:    symbol,
			Open:      round(openPrice, g.decimals),
			High:      round(high, g.decimals),
			Low:       round(low, g.decimals),
			Close:     round(closePrice, g.decimals),
			Volume:    volume,
			Return:    returns[t],
			LogReturn: math.Log(closePrice / prevClose),
		}
	}

	ComputeIndicators(points)
	return Series{Symbol: symbol, Points: points}, nil
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
