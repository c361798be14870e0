package news

import (
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
		Path:    "file:news_repo_test?mode=memory&cache=shared",
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

	days := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	articles, err := NewGenerator(42, zerolog.Nop()).Generate(days, 20)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(articles))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	var want []Article
	for _, a := range articles {
		if a.Date.Equal(days[0]) {
			want = append(want, a)
		}
	}
	got, err := repo.GetByDate(days[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	// A second Replace fully supersedes the first.
	require.NoError(t, repo.Replace(articles[:5]))
	n, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
