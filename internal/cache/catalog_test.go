package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(val, dst)
}

func (m *memoryStore) Set(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setKeys = append(m.setKeys, key)
	if m.setErr != nil {
		return m.setErr
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = val
	return nil
}

type countingCatalog struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (c *countingCatalog) PopularMovies(ctx context.Context, page int) (*domain.MoviePage, error) {
	c.calls.Add(1)
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &domain.MoviePage{Page: page, TotalPages: 3, Results: []domain.Movie{{ID: int64(page), Title: "Popular"}}}, nil
}

func (c *countingCatalog) SearchMovies(_ context.Context, query string, page int) (*domain.MoviePage, error) {
	c.calls.Add(1)
	return &domain.MoviePage{Page: page, TotalPages: 1, Results: []domain.Movie{{ID: 7, Title: query}}}, nil
}

func (c *countingCatalog) MovieDetails(_ context.Context, movieID int64) (*domain.Movie, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Movie{ID: movieID, Title: "Details"}, nil
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "tmdb:popular:page:3", popularKey(3))
	assert.Equal(t, "tmdb:search:star+wars:page:1", searchKey("  Star Wars ", 1))
	assert.Equal(t, "tmdb:movie:550", movieKey(550))
}

func TestCachedCatalogMissThenHit(t *testing.T) {
	store := newMemoryStore()
	upstream := &countingCatalog{}
	catalog := NewCachedCatalog(upstream, store, zap.NewNop())
	ctx := context.Background()

	first, err := catalog.PopularMovies(ctx, 2)
	require.NoError(t, err)
	second, err := catalog.PopularMovies(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, int32(1), upstream.calls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"tmdb:popular:page:2"}, store.setKeys)
}

func TestCachedCatalogSearchKeyIgnoresCase(t *testing.T) {
	upstream := &countingCatalog{}
	catalog := NewCachedCatalog(upstream, newMemoryStore(), zap.NewNop())
	ctx := context.Background()

	_, err := catalog.SearchMovies(ctx, "Matrix", 1)
	require.NoError(t, err)
	_, err = catalog.SearchMovies(ctx, "matrix ", 1)
	require.NoError(t, err)
	_, err = catalog.SearchMovies(ctx, "matrix", 2)
	require.NoError(t, err)

	assert.Equal(t, int32(2), upstream.calls.Load())
}

func TestCachedCatalogStoreErrorsFallThrough(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	upstream := &countingCatalog{}
	catalog := NewCachedCatalog(upstream, store, zap.NewNop())

	movie, err := catalog.MovieDetails(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), movie.ID)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachedCatalogDoesNotCacheErrors(t *testing.T) {
	store := newMemoryStore()
	upstream := &countingCatalog{err: domain.ErrMovieNotFound}
	catalog := NewCachedCatalog(upstream, store, zap.NewNop())

	_, err := catalog.MovieDetails(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
	assert.Empty(t, store.setKeys)
}

func TestCachedCatalogCollapsesConcurrentMisses(t *testing.T) {
	upstream := &countingCatalog{release: make(chan struct{})}
	catalog := NewCachedCatalog(upstream, newMemoryStore(), zap.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := catalog.PopularMovies(context.Background(), 1)
			errs <- err
		}()
	}

	// let the callers pile up behind the first upstream call
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(upstream.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Less(t, upstream.calls.Load(), int32(callers))
}

func TestCachedCatalogCancelledCallerDoesNotFailOthers(t *testing.T) {
	upstream := &countingCatalog{release: make(chan struct{})}
	store := newMemoryStore()
	catalog := NewCachedCatalog(upstream, store, zap.NewNop())

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := catalog.PopularMovies(firstCtx, 1)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		page *domain.MoviePage
		err  error
	}
	second := make(chan result, 1)
	go func() {
		page, err := catalog.PopularMovies(context.Background(), 1)
		second <- result{page, err}
	}()
	// give the second caller time to join the in-flight load
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(upstream.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.page.Page)
	assert.Equal(t, int32(1), upstream.calls.Load())
	assert.Equal(t, []string{"tmdb:popular:page:1"}, store.setKeys)
}

func TestCachedCatalogLoadTimeout(t *testing.T) {
	upstream := &countingCatalog{release: make(chan struct{})}
	defer close(upstream.release)
	catalog := NewCachedCatalog(upstream, newMemoryStore(), zap.NewNop(), WithLoadTimeout(20*time.Millisecond))

	_, err := catalog.PopularMovies(context.Background(), 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
