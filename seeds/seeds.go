package seeds

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const DefaultClientID = "demo"

// Setup replaces the favorites of clientID with n movies drawn from the first
// page of popular movies. The draw is seeded so repeated runs pick the same
// movies while the listing is stable. The client's old favorites are only
// replaced when the whole insert succeeds.
func Setup(ctx context.Context, pool *pgxpool.Pool, catalog domain.MovieCatalog, clientID string, n int, log *zap.Logger) error {
	if n < 0 {
		return fmt.Errorf("seed count must not be negative, got %d", n)
	}
	rng := rand.New(rand.NewSource(42))

	log.Info("[seed] fetching popular movies")
	page, err := catalog.PopularMovies(ctx, 1)
	if err != nil {
		return fmt.Errorf("fetch popular movies: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Truncate existing data before insert
	log.Info("[seed] clearing favorites", zap.String("client_id", clientID))
	if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}

	movies := pick(rng, page.Results, n)
	log.Info("[seed] inserting favorites", zap.Int("count", len(movies)))
	if err := seedFavorites(ctx, tx, rng, clientID, movies); err != nil {
		return fmt.Errorf("seed favorites: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Info("[seed] seeding complete")
	return nil
}

func pick(rng *rand.Rand, movies []domain.Movie, n int) []domain.Movie {
	out := make([]domain.Movie, len(movies))
	copy(out, movies)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	n = max(n, 0)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func seedFavorites(ctx context.Context, tx pgx.Tx, rng *rand.Rand, clientID string, movies []domain.Movie) error {
	rows := []string{}
	args := []any{}

	for _, m := range movies {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal movie %d: %w", m.ID, err)
		}
		addedAt := time.Now().Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, clientID, m.ID, m.Title, m.VoteAverage, m.ReleaseDate, payload, addedAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO favorites (client_id, movie_id, title, vote_average, release_date, movie, added_at) VALUES " +
		strings.Join(rows, ", ") +
		" ON CONFLICT (client_id, movie_id) DO NOTHING"

	_, err := tx.Exec(ctx, query, args...)
	return err
}
