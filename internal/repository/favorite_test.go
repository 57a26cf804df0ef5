package repository

import (
	"context"
	"os"
	"testing"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ favorites.Store = (*Repository)(nil)

// newTestRepository connects to TEST_DATABASE_URL, creating the schema, and
// scopes every test to a fresh client id.
func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/create_tables.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	clientID := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM favorites WHERE client_id = $1`, clientID)
	})
	return New(pool), clientID
}

func TestFavoritesRoundTrip(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	movie := domain.Movie{ID: 550, Title: "Clube da Luta", VoteAverage: 8.4, GenreIDs: []int{18}}
	added, err := repo.AddFavorite(ctx, client, movie)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddFavorite(ctx, client, domain.Movie{ID: 550, Title: "other"})
	require.NoError(t, err)
	assert.False(t, added)

	favs, err := repo.ListFavorites(ctx, client)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, movie, favs[0].Movie)
	assert.Equal(t, client, favs[0].ClientID)

	is, err := repo.IsFavorite(ctx, client, 550)
	require.NoError(t, err)
	assert.True(t, is)

	movie.Runtime = 139
	require.NoError(t, repo.UpdateFavorite(ctx, client, movie))
	favs, err = repo.ListFavorites(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, 139, favs[0].Movie.Runtime)

	require.NoError(t, repo.Ping(ctx))

	removed, err := repo.RemoveFavorite(ctx, client, 550)
	require.NoError(t, err)
	assert.True(t, removed)

	err = repo.UpdateFavorite(ctx, client, movie)
	assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)
}
