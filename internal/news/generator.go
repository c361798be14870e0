// Package news generates the synthetic financial news corpus: templated
// headlines spread across the trading calendar with a Poisson daily volume,
// trimmed to an exact target count.
package news

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"
)

// Article is one generated news item. SentimentHint records the template's
// intended polarity so scoring can be validated against it.
type Article struct {
	Date          time.Time
	PublishedAt   time.Time
	Title         string
	Description   string
	Source        string
	Company       string
	Category      string
	SentimentHint string
	URL           string
}

// newsStream separates the news draw stream from the other streams derived
// from the same global seed.
const newsStream uint64 = 0x6e657773 // "news"

// Generator produces the news corpus.
type Generator struct {
	seed uint64
	log  zerolog.Logger
}

// NewGenerator creates a news generator for the given global seed.
func NewGenerator(seed uint64, log zerolog.Logger) *Generator {
	return &Generator{
		seed: seed,
		log:  log.With().Str("component", "news_generator").Logger(),
	}
}

// Generate emits exactly target articles across the trading days. Daily
// volume is Poisson around target/len(days) with a floor of one article per
// day; a top-up and down-sample pass then pins the total to the target.
func (g *Generator) Generate(days []time.Time, target int) ([]Article, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("cannot generate news over an empty calendar")
	}
	if target <= 0 {
		return nil, fmt.Errorf("news target must be positive, got %d", target)
	}

	src := rand.NewPCG(g.seed, newsStream)
	rng := rand.New(src)
	daily := distuv.Poisson{Lambda: float64(target) / float64(len(days)), Src: src}

	articles := make([]Article, 0, target+target/10)
	for _, day := range days {
		count := int(daily.Rand())
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			articles = append(articles, g.drawArticle(rng, day))
		}
	}

	// Poisson noise rarely lands on the target exactly; top up with
	// random-day articles, then sample down.
	for len(articles) < target {
		day := days[rng.IntN(len(days))]
		articles = append(articles, g.drawArticle(rng, day))
	}
	if len(articles) > target {
		perm := rng.Perm(len(articles))
		kept := make([]Article, target)
		for i := 0; i < target; i++ {
			kept[i] = articles[perm[i]]
		}
		articles = kept
	}

	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
			return articles[i].PublishedAt.Before(articles[j].PublishedAt)
		}
		return articles[i].URL < articles[j].URL
	})

	g.log.Info().
		Int("articles", len(articles)).
		Int("days", len(days)).
		Msg("News corpus generated")
	return articles, nil
}

// drawArticle fills one article with a fixed draw order: category, template,
// company, source, publish hour, publish minute, URL id.
func (g *Generator) drawArticle(rng *rand.Rand, day time.Time) Article {
	cat := categories[rng.IntN(len(categories))]
	tpl := cat.templates[rng.IntN(len(cat.templates))]
	company := companies[rng.IntN(len(companies))]
	source := sources[rng.IntN(len(sources))]
	publishedAt := day.Add(
		time.Duration(6+rng.IntN(16))*time.Hour +
			time.Duration(rng.IntN(60))*time.Minute)

	return Article{
		Date:          day,
		PublishedAt:   publishedAt,
		Title:         fmt.Sprintf(tpl.title, company),
		Description:   fmt.Sprintf(tpl.description, company),
		Source:        source,
		Company:       company,
		Category:      cat.name,
		SentimentHint: tpl.sentiment,
		URL:           "https://example.com/news/" + articleID(rng),
	}
}

// articleID derives a UUID from the seeded stream so URLs stay reproducible
// across runs.
func articleID(rng *rand.Rand) string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		// FromBytes only fails on length, which is fixed here.
		panic(err)
	}
	return id.String()
}
