package market

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// Indicator windows. RSI follows the simple rolling-mean definition (average
// gain / average loss over the trailing window), not Wilder smoothing.
const (
	rsiWindow        = 14
	macdFast         = 12
	macdSlow         = 26
	macdSignalWindow = 9
	bollingerWindow  = 20
	bollingerWidth   = 2.0
)

// ComputeIndicators derives the standard indicator set in place. Every value
// at day t depends only on rows at day <= t; rows inside a warm-up window
// stay NaN.
//
// go-talib fills warm-up rows with zeros and its StdDev is the population
// std, so SMAs/EMAs come from talib with the warm-up prefix re-marked as NaN
// while rolling volatilities and Bollinger widths use the sample std the
// study is defined with.
func ComputeIndicators(points []PricePoint) {
	n := len(points)
	if n == 0 {
		return
	}

	closes := make([]float64, n)
	returns := make([]float64, n)
	volumes := make([]float64, n)
	for i := range points {
		closes[i] = points[i].Close
		returns[i] = points[i].Return
		volumes[i] = float64(points[i].Volume)
	}

	ma5 := sma(closes, 5)
	ma20 := sma(closes, 20)
	ma50 := sma(closes, 50)
	ma200 := sma(closes, 200)

	vol5 := annualizedVol(returns, 5)
	vol20 := annualizedVol(returns, 20)
	vol60 := annualizedVol(returns, 60)

	rsi := rollingRSI(closes, rsiWindow)
	macd, signal := macdSeries(closes)

	closeStd20 := rollingStd(closes, bollingerWindow)
	volumeMA20 := sma(volumes, 20)

	for i := range points {
		p := &points[i]
		p.MA5, p.MA20, p.MA50, p.MA200 = ma5[i], ma20[i], ma50[i], ma200[i]
		p.Volatility5, p.Volatility20, p.Volatility60 = vol5[i], vol20[i], vol60[i]
		p.RSI = rsi[i]
		p.MACD, p.MACDSignal = macd[i], signal[i]

		p.BBUpper = ma20[i] + bollingerWidth*closeStd20[i]
		p.BBLower = ma20[i] - bollingerWidth*closeStd20[i]

		p.LiquidityScore = p.Close * float64(p.Volume)
		p.VolumeMA20 = volumeMA20[i]
		if Defined(volumeMA20[i]) && volumeMA20[i] != 0 {
			p.VolumeRatio = float64(p.Volume) / volumeMA20[i]
		} else {
			p.VolumeRatio = math.NaN()
		}

		p.PriceChange1D = pctChange(closes, i, 1)
		p.PriceChange5D = pctChange(closes, i, 5)
		p.PriceChange20D = pctChange(closes, i, 20)
	}
}

// sma wraps talib.Sma, replacing the zero-filled warm-up prefix with NaN.
func sma(values []float64, window int) []float64 {
	if len(values) < window {
		return nanSlice(len(values))
	}
	out := talib.Sma(values, window)
	for i := 0; i < window-1; i++ {
		out[i] = math.NaN()
	}
	return out
}

// rollingStd computes the trailing sample standard deviation.
func rollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	for i := window - 1; i < len(values); i++ {
		out[i] = stat.StdDev(values[i-window+1:i+1], nil)
	}
	return out
}

// annualizedVol is the rolling sample std of daily returns scaled by √252.
func annualizedVol(returns []float64, window int) []float64 {
	out := rollingStd(returns, window)
	factor := math.Sqrt(tradingDaysPerYear)
	for i := range out {
		out[i] *= factor
	}
	return out
}

// rollingRSI computes RSI from rolling means of gains and losses.
// A window with zero average loss and positive average gain pins RSI at 100
// (maximally overbought); a flat window with no moves at all stays NaN.
func rollingRSI(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n < window+1 {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := window; i < n; i++ {
		var gainSum, lossSum float64
		for j := i - window + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// no movement in the window; ratio is undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// macdSeries returns MACD (EMA12-EMA26) and its EMA9 signal line.
func macdSeries(closes []float64) (macd, signal []float64) {
	n := len(closes)
	if n < macdSlow {
		return nanSlice(n), nanSlice(n)
	}
	macd, signal, _ = talib.Macd(closes, macdFast, macdSlow, macdSignalWindow)
	for i := 0; i < macdSlow-1 && i < n; i++ {
		macd[i] = math.NaN()
	}
	for i := 0; i < macdSlow+macdSignalWindow-2 && i < n; i++ {
		signal[i] = math.NaN()
	}
	return macd, signal
}

func pctChange(values []float64, i, horizon int) float64 {
	if i < horizon || values[i-horizon] == 0 {
		return math.NaN()
	}
	return (values[i] - values[i-horizon]) / values[i-horizon]
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
