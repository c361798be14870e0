package sentiment

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DailySummary aggregates one trading day of article scores. Std is NaN for
// single-article days; Momentum and Volatility are NaN until their rolling
// windows fill.
type DailySummary struct {
	Date             time.Time
	Mean             float64
	Std              float64
	Count            int
	Min              float64
	Max              float64
	MeanModel        float64
	MeanKeyword      float64
	MeanConfidence   float64
	MeanIntensity    float64
	PositiveKeywords int
	NegativeKeywords int
	TotalKeywords    int
	Momentum         float64 // 5-day rolling mean of Mean
	Volatility       float64 // 20-day rolling mean of Std
	Regime           string
}

const (
	momentumWindow   = 5
	volatilityWindow = 20

	bearishCeiling = -0.2
	bullishFloor   = 0.2
)

// Summarize groups scores by date and derives the daily series, oldest first.
func Summarize(scores []Score) []DailySummary {
	byDate := make(map[time.Time][]Score)
	for _, s := range scores {
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	summaries := make([]DailySummary, len(dates))
	for i, d := range dates {
		summaries[i] = summarizeDay(d, byDate[d])
	}

	attachRolling(summaries)
	return summaries
}

func summarizeDay(date time.Time, scores []Score) DailySummary {
	s := DailySummary{
		Date:  date,
		Count: len(scores),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}

	combined := make([]float64, len(scores))
	for i, sc := range scores {
		combined[i] = sc.Combined
		s.Mean += sc.Combined
		s.MeanModel += sc.ModelScore
		s.MeanKeyword += sc.KeywordScore
		s.MeanConfidence += sc.Confidence
		s.MeanIntensity += sc.Intensity
		s.PositiveKeywords += sc.PositiveKeywords
		s.NegativeKeywords += sc.NegativeKeywords
		s.Min = math.Min(s.Min, sc.Combined)
		s.Max = math.Max(s.Max, sc.Combined)
	}

	n := float64(len(scores))
	s.Mean /= n
	s.MeanModel /= n
	s.MeanKeyword /= n
	s.MeanConfidence /= n
	s.MeanIntensity /= n
	s.TotalKeywords = s.PositiveKeywords + s.NegativeKeywords

	if len(scores) > 1 {
		s.Std = stat.StdDev(combined, nil)
	} else {
		s.Std = math.NaN()
	}

	switch {
	case s.Mean <= bearishCeiling:
		s.Regime = "Bearish"
	case s.Mean > bullishFloor:
		s.Regime = "Bullish"
	default:
		s.Regime = "Neutral"
	}

	return s
}

// attachRolling fills Momentum and Volatility in place. A window containing
// any NaN stays NaN.
func attachRolling(summaries []DailySummary) {
	means := make([]float64, len(summaries))
	stds := make([]float64, len(summaries))
	for i, s := range summaries {
		means[i] = s.Mean
		stds[i] = s.Std
	}
	for i := range summaries {
		summaries[i].Momentum = windowMean(means, i, momentumWindow)
		summaries[i].Volatility = windowMean(stds, i, volatilityWindow)
	}
}

func windowMean(values []float64, end, window int) float64 {
	if end+1 < window {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values[end+1-window : end+1] {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	return sum / float64(window)
}
