package sentiment

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorpanel/internal/calendar"
	"github.com/quantlab/factorpanel/internal/news"
)

type fixedModel struct {
	score      float64
	confidence float64
}

func (m fixedModel) Polarity(string) (float64, float64) {
	return m.score, m.confidence
}

func article(title, description string) news.Article {
	return news.Article{
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Title:       title,
		Description: description,
		Source:      "Reuters",
		Category:    "market_general",
		URL:         "https://example.com/news/x",
	}
}

func TestScoreArticleKeywordOnly(t *testing.T) {
	a := NewAnalyzer(nil, zerolog.Nop())

	tests := []struct {
		name      string
		article   news.Article
		pos, neg  int
		keyword   float64
		intensity float64
	}{
		{
			"all positive",
			article("Profit Surge", "Strong growth and record gains"),
			6, 0, 1.0, 1.0,
		},
		{
			"all negative",
			article("Crash Fears", "Decline and loss amid heavy pressure"),
			0, 4, -1.0, 0.8,
		},
		{
			"balanced",
			article("Profit Miss", "Quarterly update"),
			1, 1, 0.0, 0.4,
		},
		{
			"no hits",
			article("Quarterly Update", "Company filed its report"),
			0, 0, 0.0, 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.scoreArticle(tt.article)
			assert.Equal(t, tt.pos, s.PositiveKeywords)
			assert.Equal(t, tt.neg, s.NegativeKeywords)
			assert.InDelta(t, tt.keyword, s.KeywordScore, 1e-12)
			assert.InDelta(t, tt.intensity, s.Intensity, 1e-12)

			// Without a model the keyword score carries the combined value.
			assert.Equal(t, s.KeywordScore, s.Combined)
			assert.Equal(t, 0.0, s.ModelScore)
			assert.Equal(t, 0.5, s.Confidence)
		})
	}
}

func TestScoreArticleModelBlend(t *testing.T) {
	a := NewAnalyzer(fixedModel{score: 1.0, confidence: 0.9}, zerolog.Nop())

	s := a.scoreArticle(article("Profit Miss", "Quarterly update"))
	assert.InDelta(t, 0.6*1.0+0.4*0.0, s.Combined, 1e-12)
	assert.Equal(t, 1.0, s.ModelScore)
	assert.Equal(t, 0.9, s.Confidence)
}

func TestScoreArticleCombinedClamped(t *testing.T) {
	a := NewAnalyzer(fixedModel{score: 5.0, confidence: 1.0}, zerolog.Nop())

	s := a.scoreArticle(article("Profit Surge", "Strong growth and record gains"))
	assert.Equal(t, 1.0, s.Combined)
}

// Every score over a full generated corpus must respect the bound invariants.
func TestAnalyzeCorpusBounds(t *testing.T) {
	days, err := calendar.TradingDays(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), 100)
	require.NoError(t, err)

	articles, err := news.NewGenerator(42, zerolog.Nop()).Generate(days, 800)
	require.NoError(t, err)

	scores := NewAnalyzer(nil, zerolog.Nop()).AnalyzeCorpus(articles)
	require.Len(t, scores, 800)

	for _, s := range scores {
		assert.GreaterOrEqual(t, s.Combined, -1.0, s.URL)
		assert.LessOrEqual(t, s.Combined, 1.0, s.URL)
		assert.GreaterOrEqual(t, s.Intensity, 0.0, s.URL)
		assert.LessOrEqual(t, s.Intensity, 1.0, s.URL)
	}
}

// Template polarity hints should broadly agree with the lexicon scores.
func TestAnalyzeCorpusMatchesHints(t *testing.T) {
	days, err := calendar.TradingDays(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), 50)
	require.NoError(t, err)

	articles, err := news.NewGenerator(42, zerolog.Nop()).Generate(days, 400)
	require.NoError(t, err)

	scores := NewAnalyzer(nil, zerolog.Nop()).AnalyzeCorpus(articles)
	var posSum, negSum float64
	var posN, negN int
	for i, s := range scores {
		switch articles[i].SentimentHint {
		case "positive":
			posSum += s.Combined
			posN++
		case "negative":
			negSum += s.Combined
			negN++
		}
	}
	require.Positive(t, posN)
	require.Positive(t, negN)
	assert.Greater(t, posSum/float64(posN), negSum/float64(negN))
}
