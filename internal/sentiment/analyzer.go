// Package sentiment scores the news corpus with a financial keyword lexicon,
// optionally blended with an external polarity model, and aggregates the
// scores into a daily market-sentiment series.
package sentiment

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantlab/factorpanel/internal/news"
)

// PolarityModel scores free text in [-1, 1] with a confidence in [0, 1].
// Implementations plug in external NLP models; the analyzer works without one.
type PolarityModel interface {
	Polarity(text string) (score, confidence float64)
}

// Score is the sentiment result for one article.
type Score struct {
	Date             time.Time
	URL              string
	Source           string
	Category         string
	ModelScore       float64
	KeywordScore     float64
	Combined         float64
	Confidence       float64
	Intensity        float64
	PositiveKeywords int
	NegativeKeywords int
}

// TotalKeywords returns the number of lexicon hits in the article.
func (s Score) TotalKeywords() int {
	return s.PositiveKeywords + s.NegativeKeywords
}

// Model blend weights when a polarity model is present. Without a model the
// keyword score stands alone.
const (
	modelWeight   = 0.6
	keywordWeight = 0.4
)

// Analyzer scores articles. A nil model reports zero polarity at 0.5
// confidence and lets the keyword score carry the combined value.
type Analyzer struct {
	model PolarityModel
	log   zerolog.Logger
}

// NewAnalyzer creates an analyzer. model may be nil.
func NewAnalyzer(model PolarityModel, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		model: model,
		log:   log.With().Str("component", "sentiment_analyzer").Logger(),
	}
}

// AnalyzeCorpus scores every article. Combined scores are always in [-1, 1].
func (a *Analyzer) AnalyzeCorpus(articles []news.Article) []Score {
	scores := make([]Score, len(articles))
	for i, art := range articles {
		scores[i] = a.scoreArticle(art)
	}
	a.log.Info().Int("articles", len(scores)).Msg("Sentiment analysis complete")
	return scores
}

func (a *Analyzer) scoreArticle(art news.Article) Score {
	text := strings.ToLower(art.Title + " " + art.Description)

	pos := countHits(text, positiveWords)
	neg := countHits(text, negativeWords)

	keyword := 0.0
	if pos+neg > 0 {
		keyword = float64(pos-neg) / float64(pos+neg)
	}

	modelScore, confidence := 0.0, 0.5
	combined := keyword
	if a.model != nil {
		modelScore, confidence = a.model.Polarity(text)
		combined = modelWeight*modelScore + keywordWeight*keyword
	}

	intensity := float64(pos+neg) / 5
	if intensity > 1 {
		intensity = 1
	}

	return Score{
		Date:             art.Date,
		URL:              art.URL,
		Source:           art.Source,
		Category:         art.Category,
		ModelScore:       modelScore,
		KeywordScore:     keyword,
		Combined:         clamp(combined),
		Confidence:       confidence,
		Intensity:        intensity,
		PositiveKeywords: pos,
		NegativeKeywords: neg,
	}
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
