package sentiment

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// scoresWithMeans builds one day per mean, two articles per day so the daily
// std is defined.
func scoresWithMeans(means ...float64) []Score {
	var scores []Score
	for i, m := range means {
		for j, offset := range []float64{-0.05, 0.05} {
			scores = append(scores, Score{
				Date:     day(i),
				URL:      fmt.Sprintf("https://example.com/news/%d-%d", i, j),
				Combined: m + offset,
			})
		}
	}
	return scores
}

func TestSummarizeDayStats(t *testing.T) {
	scores := []Score{
		{Date: day(0), Combined: 0.2, KeywordScore: 0.2, Confidence: 0.5, Intensity: 0.4, PositiveKeywords: 2},
		{Date: day(0), Combined: -0.4, KeywordScore: -0.4, Confidence: 0.5, Intensity: 0.2, NegativeKeywords: 1},
		{Date: day(0), Combined: 0.8, KeywordScore: 0.8, Confidence: 0.5, Intensity: 1.0, PositiveKeywords: 5},
	}

	daily := Summarize(scores)
	require.Len(t, daily, 1)
	d := daily[0]

	assert.InDelta(t, 0.2, d.Mean, 1e-12)
	assert.Equal(t, 3, d.Count)
	assert.Equal(t, -0.4, d.Min)
	assert.Equal(t, 0.8, d.Max)
	assert.InDelta(t, 0.6, d.Std, 1e-12) // sample std of {0.2, -0.4, 0.8}
	assert.Equal(t, 7, d.PositiveKeywords)
	assert.Equal(t, 1, d.NegativeKeywords)
	assert.Equal(t, 8, d.TotalKeywords)
	assert.InDelta(t, 0.5, d.MeanConfidence, 1e-12)
}

func TestSummarizeSingleArticleStdUndefined(t *testing.T) {
	daily := Summarize([]Score{{Date: day(0), Combined: 0.3, URL: "u"}})
	require.Len(t, daily, 1)
	assert.True(t, math.IsNaN(daily[0].Std))
}

func TestSummarizeRegimeThresholds(t *testing.T) {
	tests := []struct {
		mean   float64
		regime string
	}{
		{-0.5, "Bearish"},
		{-0.2, "Bearish"},
		{-0.19, "Neutral"},
		{0.0, "Neutral"},
		{0.2, "Neutral"},
		{0.21, "Bullish"},
		{0.9, "Bullish"},
	}
	for _, tt := range tests {
		daily := Summarize([]Score{{Date: day(0), Combined: tt.mean, URL: "u"}})
		require.Len(t, daily, 1)
		assert.Equal(t, tt.regime, daily[0].Regime, "mean %v", tt.mean)
	}
}

func TestSummarizeMomentumWindow(t *testing.T) {
	daily := Summarize(scoresWithMeans(0.1, 0.2, 0.3, 0.4, 0.5, 0.6))
	require.Len(t, daily, 6)

	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(daily[i].Momentum), "day %d", i)
	}
	assert.InDelta(t, 0.3, daily[4].Momentum, 1e-12)
	assert.InDelta(t, 0.4, daily[5].Momentum, 1e-12)
}

func TestSummarizeVolatilityWindow(t *testing.T) {
	means := make([]float64, 25)
	for i := range means {
		means[i] = 0.1
	}
	daily := Summarize(scoresWithMeans(means...))
	require.Len(t, daily, 25)

	for i := 0; i < 19; i++ {
		assert.True(t, math.IsNaN(daily[i].Volatility), "day %d", i)
	}
	// Every day has the same two-point spread, so the rolling mean of the
	// stds equals any single day's std.
	assert.InDelta(t, daily[0].Std, daily[19].Volatility, 1e-12)
	assert.False(t, math.IsNaN(daily[24].Volatility))
}

func TestSummarizeOrdersDays(t *testing.T) {
	scores := []Score{
		{Date: day(2), Combined: 0.1, URL: "c"},
		{Date: day(0), Combined: 0.2, URL: "a"},
		{Date: day(1), Combined: 0.3, URL: "b"},
	}
	daily := Summarize(scores)
	require.Len(t, daily, 3)
	assert.True(t, daily[0].Date.Before(daily[1].Date))
	assert.True(t, daily[1].Date.Before(daily[2].Date))
}
