// Package market implements the synthetic market-data generator: a
// deterministic multi-asset daily OHLCV panel with derived technical
// indicators.
package market

import (
	"math"
	"time"
)

// PricePoint is one instrument-day of the panel. Indicator fields are NaN for
// rows inside their warm-up window; downstream consumers tolerate missing
// leading values.
type PricePoint struct {
	Date      time.Time
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Return    float64
	LogReturn float64

	MA5   float64
	MA20  float64
	MA50  float64
	MA200 float64

	Volatility5  float64
	Volatility20 float64
	Volatility60 float64

	RSI        float64
	MACD       float64
	MACDSignal float64
	BBUpper    float64
	BBLower    float64

	LiquidityScore float64
	VolumeMA20     float64
	VolumeRatio    float64

	PriceChange1D  float64
	PriceChange5D  float64
	PriceChange20D float64
}

// Series is the full ordered history of one instrument.
type Series struct {
	Symbol string
	Points []PricePoint
}

// Panel is the combined output for all instruments that generated
// successfully.
type Panel struct {
	Instruments []Series
	Failed      []string // symbols excluded from the panel
	Source      string   // "synthetic" or "live"
}

// Rows returns the total number of instrument-days in the panel.
func (p *Panel) Rows() int {
	n := 0
	for i := range p.Instruments {
		n += len(p.Instruments[i].Points)
	}
	return n
}

// Symbols returns the symbols covered by the panel, in panel order.
func (p *Panel) Symbols() []string {
	out := make([]string, len(p.Instruments))
	for i := range p.Instruments {
		out[i] = p.Instruments[i].Symbol
	}
	return out
}

// Defined reports whether an indicator value carries data (is not NaN).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}
