package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

// Add a favorite; an existing row is left untouched
func (r *Repository) AddFavorite(ctx context.Context, clientID string, movie domain.Movie) (bool, error) {
	payload, err := json.Marshal(movie)
	if err != nil {
		return false, fmt.Errorf("marshal movie %d: %w", movie.ID, err)
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO favorites (client_id, movie_id, title, vote_average, release_date, movie)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (client_id, movie_id) DO NOTHING`,
		clientID, movie.ID, movie.Title, movie.VoteAverage, movie.ReleaseDate, payload,
	)
	if err != nil {
		return false, fmt.Errorf("insert favorite %d for client %s: %w", movie.ID, clientID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) RemoveFavorite(ctx context.Context, clientID string, movieID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE client_id = $1 AND movie_id = $2`,
		clientID, movieID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite %d for client %s: %w", movieID, clientID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List favorites in the order they were added
func (r *Repository) ListFavorites(ctx context.Context, clientID string) ([]domain.Favorite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT movie, added_at
		FROM favorites
		WHERE client_id = $1
		ORDER BY added_at, movie_id`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorites for client %s: %w", clientID, err)
	}
	defer rows.Close()

	var items []domain.Favorite
	for rows.Next() {
		var (
			payload []byte
			f       domain.Favorite
		)
		if err := rows.Scan(&payload, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if err := json.Unmarshal(payload, &f.Movie); err != nil {
			return nil, fmt.Errorf("decode favorite movie: %w", err)
		}
		f.ClientID = clientID
		items = append(items, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over favorites: %w", err)
	}
	return items, nil
}

func (r *Repository) IsFavorite(ctx context.Context, clientID string, movieID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE client_id = $1 AND movie_id = $2)`,
		clientID, movieID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favorite %d for client %s: %w", movieID, clientID, err)
	}
	return exists, nil
}

// Replace the stored snapshot of a favorite
func (r *Repository) UpdateFavorite(ctx context.Context, clientID string, movie domain.Movie) error {
	payload, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("marshal movie %d: %w", movie.ID, err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE favorites
		SET title = $3, vote_average = $4, release_date = $5, movie = $6
		WHERE client_id = $1 AND movie_id = $2`,
		clientID, movie.ID, movie.Title, movie.VoteAverage, movie.ReleaseDate, payload,
	)
	if err != nil {
		return fmt.Errorf("update favorite %d for client %s: %w", movie.ID, clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}
