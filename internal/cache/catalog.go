package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is the key/value side of the cache; *Cache implements it.
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// CachedCatalog answers catalog reads from the store and falls through to the
// upstream catalog on a miss. Cache failures never fail a read.
type CachedCatalog struct {
	upstream domain.MovieCatalog
	store    Store
	log      *zap.Logger
	group    singleflight.Group
	// loadTimeout bounds a shared upstream load, which outlives the caller
	// that started it.
	loadTimeout time.Duration
}

const defaultLoadTimeout = 30 * time.Second

type Option func(*CachedCatalog)

// WithLoadTimeout bounds each shared upstream load.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *CachedCatalog) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

var _ domain.MovieCatalog = (*CachedCatalog)(nil)

func NewCachedCatalog(upstream domain.MovieCatalog, store Store, log *zap.Logger, opts ...Option) *CachedCatalog {
	c := &CachedCatalog{
		upstream:    upstream,
		store:       store,
		log:         log.Named("cache"),
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedCatalog) PopularMovies(ctx context.Context, page int) (*domain.MoviePage, error) {
	return cached(ctx, c, popularKey(page), func(ctx context.Context) (*domain.MoviePage, error) {
		return c.upstream.PopularMovies(ctx, page)
	})
}

func (c *CachedCatalog) SearchMovies(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	return cached(ctx, c, searchKey(query, page), func(ctx context.Context) (*domain.MoviePage, error) {
		return c.upstream.SearchMovies(ctx, query, page)
	})
}

func (c *CachedCatalog) MovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	return cached(ctx, c, movieKey(movieID), func(ctx context.Context) (*domain.Movie, error) {
		return c.upstream.MovieDetails(ctx, movieID)
	})
}

// cached serves key from the store or runs load once for all concurrent
// misses. The shared load is detached from the caller's cancellation so one
// caller giving up does not fail the others; each caller still stops waiting
// when its own context ends.
func cached[T any](ctx context.Context, c *CachedCatalog, key string, load func(context.Context) (*T, error)) (*T, error) {
	var hit T
	found, err := c.store.Get(ctx, key, &hit)
	if err != nil {
		metrics.CacheOperations.WithLabelValues("error").Inc()
		c.log.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		metrics.CacheOperations.WithLabelValues("hit").Inc()
		return &hit, nil
	}
	metrics.CacheOperations.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		res, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(loadCtx, key, res); err != nil {
			c.log.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", key, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, fmt.Errorf("load %s: %w", key, r.Err)
		}
		return r.Val.(*T), nil
	}
}
