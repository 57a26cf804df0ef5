package domain

import "context"

const (
	// MinQueryLength is the shortest trimmed query that counts as a search.
	MinQueryLength = 2
	// MaxPage is the last page the upstream API will serve.
	MaxPage = 500
)

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
	Runtime      int     `json:"runtime,omitempty"`
	Tagline      string  `json:"tagline,omitempty"`
	Status       string  `json:"status,omitempty"`
}

type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// MovieCatalog is the read side of the upstream movie API.
type MovieCatalog interface {
	PopularMovies(ctx context.Context, page int) (*MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error)
	MovieDetails(ctx context.Context, movieID int64) (*Movie, error)
}
