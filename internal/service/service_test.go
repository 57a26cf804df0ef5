package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/actuallystonmai/movie-catalog/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalog struct {
	lastQuery string
	lastPage  int
}

func (c *stubCatalog) PopularMovies(_ context.Context, page int) (*domain.MoviePage, error) {
	c.lastPage = page
	return &domain.MoviePage{
		Page:         page,
		TotalPages:   10,
		TotalResults: 200,
		Results: []domain.Movie{
			{ID: 1, Title: "Alien", PosterPath: "/alien.jpg"},
			{ID: 2, Title: "Heat"},
		},
	}, nil
}

func (c *stubCatalog) SearchMovies(_ context.Context, query string, page int) (*domain.MoviePage, error) {
	c.lastQuery, c.lastPage = query, page
	return &domain.MoviePage{Page: page, Results: []domain.Movie{{ID: 3, Title: query}}}, nil
}

func (c *stubCatalog) MovieDetails(_ context.Context, movieID int64) (*domain.Movie, error) {
	if movieID == 404 {
		return nil, domain.ErrMovieNotFound
	}
	return &domain.Movie{ID: movieID, Title: "Alien", PosterPath: "/p.jpg", Runtime: 117}, nil
}

func newTestService(t *testing.T) (*Service, *stubCatalog) {
	t.Helper()
	catalog := &stubCatalog{}
	store := favorites.NewFileStore(filepath.Join(t.TempDir(), "favorites.json"), zap.NewNop())
	favs := favorites.NewService(store, catalog, zap.NewNop())
	images := tmdb.NewImageURLs("https://img.test/t/p")
	return NewService(catalog, favs, images, zap.NewNop()), catalog
}

func TestPopularMarksFavorites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Favorites().AddMovie(ctx, "c1", domain.Movie{ID: 2, Title: "Heat"})
	require.NoError(t, err)

	listing, err := svc.Popular(ctx, "c1", 1)
	require.NoError(t, err)

	assert.Equal(t, 10, listing.TotalPages)
	assert.Equal(t, 200, listing.TotalResults)
	require.Len(t, listing.Results, 2)
	assert.False(t, listing.Results[0].Favorite)
	assert.True(t, listing.Results[1].Favorite)
	assert.Equal(t, "https://img.test/t/p/w300/alien.jpg", listing.Results[0].PosterURL)
	assert.Equal(t, tmdb.PlaceholderImage, listing.Results[1].PosterURL)

	// favorites are per client
	other, err := svc.Popular(ctx, "c2", 1)
	require.NoError(t, err)
	assert.False(t, other.Results[1].Favorite)
}

func TestPopularRejectsBadPage(t *testing.T) {
	svc, _ := newTestService(t)

	for _, page := range []int{0, -1, domain.MaxPage + 1} {
		_, err := svc.Popular(context.Background(), "c1", page)
		assert.ErrorIs(t, err, domain.ErrInvalidPage)
	}
}

func TestSearch(t *testing.T) {
	svc, catalog := newTestService(t)

	listing, err := svc.Search(context.Background(), "c1", "  blade runner ", 2)
	require.NoError(t, err)

	assert.Equal(t, "blade runner", catalog.lastQuery)
	assert.Equal(t, 2, catalog.lastPage)
	assert.Equal(t, "blade runner", listing.Query)
	// missing total_pages from upstream counts as one page
	assert.Equal(t, 1, listing.TotalPages)
}

func TestSearchTooShort(t *testing.T) {
	svc, catalog := newTestService(t)

	for _, q := range []string{"", " ", " a "} {
		_, err := svc.Search(context.Background(), "c1", q, 1)
		assert.ErrorIs(t, err, domain.ErrQueryTooShort)
	}
	assert.Empty(t, catalog.lastQuery)
}

func TestDetails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Favorites().AddMovie(ctx, "c1", domain.Movie{ID: 9})
	require.NoError(t, err)

	view, err := svc.Details(ctx, "c1", 9)
	require.NoError(t, err)
	assert.True(t, view.Favorite)
	assert.Equal(t, 117, view.Runtime)
	assert.Equal(t, "https://img.test/t/p/w500/p.jpg", view.PosterURL)
	assert.Equal(t, tmdb.PlaceholderImage, view.BackdropURL)

	_, err = svc.Details(ctx, "c1", 404)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	_, err = svc.Details(ctx, "c1", 0)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}
