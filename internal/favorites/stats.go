package favorites

import (
	"math"
	"strconv"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

func computeStats(favs []domain.Favorite) domain.FavoriteStats {
	stats := domain.FavoriteStats{
		Count:        len(favs),
		GenreWeights: calculateGenreWeights(favs),
		GenreNames:   genreNames(favs),
	}
	if len(favs) == 0 {
		return stats
	}

	var total float64
	for _, f := range favs {
		total += f.Movie.VoteAverage
	}
	stats.AverageVote = math.Round(total/float64(len(favs))*100) / 100
	return stats
}

// calculateGenreWeights returns, per genre id, the share of favorites tagged
// with it. Listing snapshots carry genre ids and detail snapshots carry full
// genres; both count under the id.
func calculateGenreWeights(favs []domain.Favorite) map[string]float64 {
	genreCounts := make(map[string]int)
	for _, f := range favs {
		for _, g := range genresOf(f.Movie) {
			genreCounts[g]++
		}
	}

	total := float64(len(favs))
	weights := make(map[string]float64, len(genreCounts))

	if total == 0 {
		return weights
	}

	for genre, count := range genreCounts {
		weights[genre] = math.Round(float64(count)/total*1000) / 1000
	}
	return weights
}

func genresOf(m domain.Movie) []string {
	seen := make(map[int]bool, len(m.Genres)+len(m.GenreIDs))
	out := make([]string, 0, len(m.Genres)+len(m.GenreIDs))
	add := func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, strconv.Itoa(id))
	}
	for _, g := range m.Genres {
		add(g.ID)
	}
	for _, id := range m.GenreIDs {
		add(id)
	}
	return out
}

// genreNames maps genre ids to the names seen in detail snapshots.
func genreNames(favs []domain.Favorite) map[string]string {
	names := make(map[string]string)
	for _, f := range favs {
		for _, g := range f.Movie.Genres {
			if g.Name != "" {
				names[strconv.Itoa(g.ID)] = g.Name
			}
		}
	}
	return names
}
