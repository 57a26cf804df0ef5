package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/actuallystonmai/movie-catalog/internal/tmdb"
	"go.uber.org/zap"
)

type Service struct {
	catalog   domain.MovieCatalog
	favorites *favorites.Service
	images    tmdb.ImageURLs
	log       *zap.Logger
}

func NewService(catalog domain.MovieCatalog, favs *favorites.Service, images tmdb.ImageURLs, log *zap.Logger) *Service {
	return &Service{
		catalog:   catalog,
		favorites: favs,
		images:    images,
		log:       log.Named("service"),
	}
}

func (s *Service) Favorites() *favorites.Service {
	return s.favorites
}

func validatePage(page int) error {
	if page < 1 || page > domain.MaxPage {
		return fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}
	return nil
}

// Popular lists one page of popular movies.
func (s *Service) Popular(ctx context.Context, clientID string, page int) (*domain.Listing, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	res, err := s.catalog.PopularMovies(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("fetch popular page %d: %w", page, err)
	}
	return s.listing(ctx, clientID, res, "")
}

// Search lists one page of search results for the trimmed query.
func (s *Service) Search(ctx context.Context, clientID, query string, page int) (*domain.Listing, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < domain.MinQueryLength {
		return nil, domain.ErrQueryTooShort
	}
	if err := validatePage(page); err != nil {
		return nil, err
	}

	res, err := s.catalog.SearchMovies(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search %q page %d: %w", query, page, err)
	}
	return s.listing(ctx, clientID, res, query)
}

// Details returns the full record of one movie.
func (s *Service) Details(ctx context.Context, clientID string, movieID int64) (*domain.MovieView, error) {
	if movieID <= 0 {
		return nil, domain.ErrMovieNotFound
	}

	movie, err := s.catalog.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("fetch movie %d: %w", movieID, err)
	}

	fav, err := s.favorites.IsFavorite(ctx, clientID, movieID)
	if err != nil {
		// the record is still useful without the flag
		s.log.Warn("favorite lookup failed", zap.String("client_id", clientID), zap.Int64("movie_id", movieID), zap.Error(err))
	}

	return &domain.MovieView{
		Movie:       *movie,
		PosterURL:   s.images.URL(movie.PosterPath, tmdb.SizeW500),
		BackdropURL: s.images.URL(movie.BackdropPath, tmdb.SizeOriginal),
		Favorite:    fav,
	}, nil
}

func (s *Service) listing(ctx context.Context, clientID string, res *domain.MoviePage, query string) (*domain.Listing, error) {
	flags, err := s.favorites.Flags(ctx, clientID)
	if err != nil {
		s.log.Warn("favorite flags failed", zap.String("client_id", clientID), zap.Error(err))
	}

	out := &domain.Listing{
		Page:         res.Page,
		TotalPages:   res.TotalPages,
		TotalResults: res.TotalResults,
		Query:        query,
		Results:      make([]domain.ListedMovie, 0, len(res.Results)),
	}
	if out.TotalPages == 0 {
		out.TotalPages = 1
	}
	for _, m := range res.Results {
		out.Results = append(out.Results, domain.ListedMovie{
			Movie:     m,
			PosterURL: s.images.URL(m.PosterPath, tmdb.SizeW300),
			Favorite:  flags[m.ID],
		})
	}
	return out, nil
}
