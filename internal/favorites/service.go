package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/metrics"
	"github.com/actuallystonmai/movie-catalog/internal/sorting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const (
	DefaultSort        = "title-asc"
	refreshConcurrency = 5
)

// DetailsGetter fetches the full record of one movie.
type DetailsGetter interface {
	MovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error)
}

// SortFields are the keys List accepts in a sort spec.
var SortFields = sorting.Fields[domain.Favorite]{
	"title":   func(f domain.Favorite) any { return f.Movie.Title },
	"rating":  func(f domain.Favorite) any { return f.Movie.VoteAverage },
	"release": func(f domain.Favorite) any { return f.Movie.ReleaseDate },
	"added":   func(f domain.Favorite) any { return f.AddedAt },
}

type Service struct {
	store    Store
	details  DetailsGetter
	log      *zap.Logger
	sortOpts []sorting.Option
}

type Option func(*Service)

// WithLanguage collates titles for lang when listing favorites.
func WithLanguage(lang language.Tag) Option {
	return func(s *Service) {
		s.sortOpts = append(s.sortOpts, sorting.WithLanguage(lang))
	}
}

func NewService(store Store, details DetailsGetter, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		details: details,
		log:     log.Named("favorites"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add fetches the movie's details and stores them as the favorite snapshot.
func (s *Service) Add(ctx context.Context, clientID string, movieID int64) (*domain.Movie, bool, error) {
	movie, err := s.details.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch movie %d: %w", movieID, err)
	}
	added, err := s.AddMovie(ctx, clientID, *movie)
	if err != nil {
		return nil, false, err
	}
	return movie, added, nil
}

// AddMovie stores the given snapshot. Adding a movie twice keeps the first.
func (s *Service) AddMovie(ctx context.Context, clientID string, movie domain.Movie) (bool, error) {
	added, err := s.store.AddFavorite(ctx, clientID, movie)
	if err != nil {
		return false, fmt.Errorf("add favorite %d: %w", movie.ID, err)
	}
	if added {
		metrics.FavoriteChanges.WithLabelValues("add").Inc()
	}
	return added, nil
}

func (s *Service) Remove(ctx context.Context, clientID string, movieID int64) error {
	removed, err := s.store.RemoveFavorite(ctx, clientID, movieID)
	if err != nil {
		return fmt.Errorf("remove favorite %d: %w", movieID, err)
	}
	if !removed {
		return domain.ErrFavoriteNotFound
	}
	metrics.FavoriteChanges.WithLabelValues("remove").Inc()
	return nil
}

// Toggle flips the favorite state of movie and returns the new state.
func (s *Service) Toggle(ctx context.Context, clientID string, movie domain.Movie) (bool, error) {
	fav, err := s.IsFavorite(ctx, clientID, movie.ID)
	if err != nil {
		return false, err
	}
	if fav {
		err := s.Remove(ctx, clientID, movie.ID)
		if err != nil && !errors.Is(err, domain.ErrFavoriteNotFound) {
			return true, err
		}
		return false, nil
	}
	if _, err := s.AddMovie(ctx, clientID, movie); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) IsFavorite(ctx context.Context, clientID string, movieID int64) (bool, error) {
	fav, err := s.store.IsFavorite(ctx, clientID, movieID)
	if err != nil {
		return false, fmt.Errorf("check favorite %d: %w", movieID, err)
	}
	return fav, nil
}

// Flags returns the set of movie ids the client has marked.
func (s *Service) Flags(ctx context.Context, clientID string) (map[int64]bool, error) {
	favs, err := s.store.ListFavorites(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	flags := make(map[int64]bool, len(favs))
	for _, f := range favs {
		flags[f.Movie.ID] = true
	}
	return flags, nil
}

// List returns the client's favorites ordered by sortSpec (DefaultSort when
// empty).
func (s *Service) List(ctx context.Context, clientID, sortSpec string) ([]domain.Favorite, error) {
	if sortSpec == "" {
		sortSpec = DefaultSort
	}
	if _, err := sorting.ParseSpec(sortSpec); err != nil {
		return nil, err
	}

	favs, err := s.store.ListFavorites(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return sorting.Sort(favs, sortSpec, SortFields, s.sortOpts...)
}

func (s *Service) Stats(ctx context.Context, clientID string) (domain.FavoriteStats, error) {
	favs, err := s.store.ListFavorites(ctx, clientID)
	if err != nil {
		return domain.FavoriteStats{}, fmt.Errorf("list favorites: %w", err)
	}
	return computeStats(favs), nil
}

// Refresh re-fetches every favorite's details and replaces the stored
// snapshots. Movies gone upstream are kept as they are and reported.
func (s *Service) Refresh(ctx context.Context, clientID string) (*domain.RefreshResult, error) {
	favs, err := s.store.ListFavorites(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	var (
		mu     sync.Mutex
		result domain.RefreshResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for _, f := range favs {
		movieID := f.Movie.ID
		g.Go(func() error {
			movie, err := s.details.MovieDetails(gctx, movieID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn("refresh: fetch failed", zap.Int64("movie_id", movieID), zap.Error(err))
				mu.Lock()
				if errors.Is(err, domain.ErrMovieNotFound) {
					result.Missing = append(result.Missing, movieID)
				} else {
					result.Failed = append(result.Failed, movieID)
				}
				mu.Unlock()
				return nil
			}
			if err := s.store.UpdateFavorite(gctx, clientID, *movie); err != nil {
				if errors.Is(err, domain.ErrFavoriteNotFound) {
					// removed while the refresh was running
					return nil
				}
				return fmt.Errorf("update favorite %d: %w", movieID, err)
			}
			mu.Lock()
			result.Updated++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(result.Missing)
	slices.Sort(result.Failed)
	return &result, nil
}
