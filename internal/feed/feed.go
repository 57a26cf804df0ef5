// Package feed accumulates pages of a movie listing: popular movies by
// default, search results once the query is long enough.
package feed

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

const popularKey = "popular"

// Source is the subset of the catalog a feed reads from.
type Source interface {
	PopularMovies(ctx context.Context, page int) (*domain.MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (*domain.MoviePage, error)
}

type State struct {
	Query       string
	Searching   bool
	Movies      []domain.Movie
	Page        int
	TotalPages  int
	Loading     bool
	LoadingMore bool
	Err         error
}

// HasMore reports whether another page can be requested.
func (s State) HasMore() bool {
	return s.Err == nil && s.Page < s.TotalPages
}

// Done reports that every page has been loaded.
func (s State) Done() bool {
	return s.Page >= s.TotalPages && len(s.Movies) > 0
}

type Feed struct {
	source    Source
	minLength int

	mu          sync.Mutex
	key         string
	query       string
	generation  uint64
	movies      []domain.Movie
	page        int
	totalPages  int
	loading     bool
	loadingMore bool
	err         error
}

func New(source Source) *Feed {
	return &Feed{
		source:     source,
		minLength:  domain.MinQueryLength,
		page:       1,
		totalPages: 1,
	}
}

func keyFor(query string, minLength int) (string, string) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) >= minLength {
		return "search:" + q, q
	}
	return popularKey, ""
}

// SetQuery switches the feed to query. A different key resets the list and
// loads page 1; the same key is a no-op and reports changed=false.
func (f *Feed) SetQuery(ctx context.Context, query string) (bool, error) {
	key, q := keyFor(query, f.minLength)

	f.mu.Lock()
	if key == f.key {
		f.mu.Unlock()
		return false, nil
	}
	f.key = key
	f.query = q
	f.generation++
	f.movies = nil
	f.page = 1
	f.totalPages = 1
	f.loadingMore = false
	gen := f.begin(false)
	f.mu.Unlock()

	return true, f.fetch(ctx, gen, q, 1, false)
}

// LoadMore appends the next page. It does nothing when the last page is
// already loaded or another load-more is in flight.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.page >= f.totalPages || f.loadingMore {
		f.mu.Unlock()
		return nil
	}
	next := f.page + 1
	query := f.query
	gen := f.begin(true)
	f.mu.Unlock()

	return f.fetch(ctx, gen, query, next, true)
}

// Retry reloads page 1 of the current key, abandoning any load in flight.
func (f *Feed) Retry(ctx context.Context) error {
	f.mu.Lock()
	query := f.query
	f.generation++
	f.loadingMore = false
	gen := f.begin(false)
	f.mu.Unlock()

	return f.fetch(ctx, gen, query, 1, false)
}

// begin marks a load in flight. f.mu must be held.
func (f *Feed) begin(appendMode bool) uint64 {
	if appendMode {
		f.loadingMore = true
	} else {
		f.loading = true
	}
	f.err = nil
	return f.generation
}

func (f *Feed) fetch(ctx context.Context, gen uint64, query string, page int, appendMode bool) error {
	var (
		res *domain.MoviePage
		err error
	)
	if query != "" {
		res, err = f.source.SearchMovies(ctx, query, page)
	} else {
		res, err = f.source.PopularMovies(ctx, page)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// the query moved on while this page was in flight
		return nil
	}
	if appendMode {
		f.loadingMore = false
	} else {
		f.loading = false
	}

	if err != nil {
		f.err = err
		if !appendMode {
			f.movies = nil
		}
		return err
	}

	var results []domain.Movie
	total := 1
	if res != nil {
		results = res.Results
		if res.TotalPages > 0 {
			total = res.TotalPages
		}
	}

	if appendMode {
		f.movies = append(f.movies, results...)
	} else {
		f.movies = append([]domain.Movie(nil), results...)
	}
	f.totalPages = total
	f.page = page
	return nil
}

// State returns a copy of the current feed state.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return State{
		Query:       f.query,
		Searching:   f.key != popularKey && f.key != "",
		Movies:      append([]domain.Movie(nil), f.movies...),
		Page:        f.page,
		TotalPages:  f.totalPages,
		Loading:     f.loading,
		LoadingMore: f.loadingMore,
		Err:         f.err,
	}
}
