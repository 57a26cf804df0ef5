package favorites

import (
	"context"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

// Store persists favorites per client. AddFavorite keeps an existing entry
// untouched and reports added=false.
type Store interface {
	AddFavorite(ctx context.Context, clientID string, movie domain.Movie) (bool, error)
	RemoveFavorite(ctx context.Context, clientID string, movieID int64) (bool, error)
	ListFavorites(ctx context.Context, clientID string) ([]domain.Favorite, error)
	IsFavorite(ctx context.Context, clientID string, movieID int64) (bool, error)
	UpdateFavorite(ctx context.Context, clientID string, movie domain.Movie) error
}
