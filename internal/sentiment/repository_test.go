package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorpanel/internal/database"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    "file:sentiment_repo_test?mode=memory&cache=shared",
		Profile: database.ProfileBulk,
		Name:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db, zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func TestReplaceRoundTrip(t *testing.T) {
	repo := testRepo(t)

	scores := []Score{
		{Date: day(0), URL: "https://example.com/news/a", Source: "Reuters",
			Category: "market_general", KeywordScore: 0.5, Combined: 0.5,
			Confidence: 0.5, Intensity: 0.4, PositiveKeywords: 3, NegativeKeywords: 1},
		{Date: day(0), URL: "https://example.com/news/b", Source: "Bloomberg",
			Category: "earnings_negative", KeywordScore: -1, Combined: -1,
			Confidence: 0.5, Intensity: 0.6, NegativeKeywords: 3},
	}
	daily := Summarize(scores)

	require.NoError(t, repo.Replace(scores, daily))

	got, err := repo.GetDaily(0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, daily[0].Date, got[0].Date)
	assert.InDelta(t, daily[0].Mean, got[0].Mean, 1e-12)
	assert.InDelta(t, daily[0].Std, got[0].Std, 1e-12)
	assert.Equal(t, daily[0].Count, got[0].Count)
	assert.Equal(t, daily[0].Regime, got[0].Regime)
	assert.Equal(t, daily[0].TotalKeywords, got[0].TotalKeywords)

	// Undefined rolling stats survive storage as NaN.
	assert.True(t, math.IsNaN(got[0].Momentum))
	assert.True(t, math.IsNaN(got[0].Volatility))

	// A second Replace fully supersedes the first.
	later := []Score{{Date: day(1), URL: "https://example.com/news/c", Combined: 0.1}}
	require.NoError(t, repo.Replace(later, Summarize(later)))

	got, err = repo.GetDaily(0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), got[0].Date)
}
