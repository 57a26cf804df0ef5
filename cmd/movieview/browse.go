package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/actuallystonmai/movie-catalog/internal/feed"
	"github.com/actuallystonmai/movie-catalog/internal/search"
	"github.com/actuallystonmai/movie-catalog/internal/tmdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const localClientID = "local"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive terminal browser",
	Long: `Browse popular movies and search interactively.

Type to search (results follow once you pause typing), or use:
  :go           run the pending search now
  :more         load the next page
  :retry        reload after an error
  :show ID      movie details
  :fav ID       add to favorites
  :unfav ID     remove from favorites
  :favs [SORT]  list favorites (title-asc, title-desc, rating-desc, rating-asc)
  :quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		client := newTMDBClient(cfg)
		store := favorites.NewFileStore(cfg.FavoritesFile, logger)
		b := newBrowser(
			client,
			favorites.NewService(store, client, logger, favorites.WithLanguage(language.Make(cfg.TMDB.Language))),
			tmdb.NewImageURLs(cfg.TMDB.ImageBaseURL),
			search.Options{Delay: cfg.SearchDelay},
			cmd.OutOrStdout(),
			logger,
		)
		return b.run(cmd.Context(), cmd.InOrStdin())
	},
}

type browser struct {
	catalog domain.MovieCatalog
	favs    *favorites.Service
	images  tmdb.ImageURLs
	feed    *feed.Feed
	search  *search.Synchronizer
	log     *zap.Logger

	ctx context.Context

	outMu sync.Mutex
	out   io.Writer
}

func newBrowser(catalog domain.MovieCatalog, favs *favorites.Service, images tmdb.ImageURLs, opts search.Options, out io.Writer, log *zap.Logger) *browser {
	b := &browser{
		catalog: catalog,
		favs:    favs,
		images:  images,
		feed:    feed.New(catalog),
		log:     log.Named("browse"),
		ctx:     context.Background(),
		out:     out,
	}
	b.search = search.New(search.Route{Path: "/"}, opts, b.onRoute)
	return b
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	b.ctx = ctx
	defer b.search.Stop()

	if _, err := b.feed.SetQuery(ctx, ""); err != nil {
		b.printf("could not load popular movies: %v (type :retry)\n", err)
	}
	b.printFeed()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			b.search.SetValue(line)
			continue
		}

		cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "quit", "q":
			return nil
		case "go":
			b.search.Flush()
		case "more":
			b.loadMore(ctx)
		case "retry":
			if err := b.feed.Retry(ctx); err != nil {
				b.printf("retry failed: %v\n", err)
			}
			b.printFeed()
		case "show":
			b.show(ctx, arg)
		case "fav":
			b.addFavorite(ctx, arg)
		case "unfav":
			b.removeFavorite(ctx, arg)
		case "favs":
			b.listFavorites(ctx, arg)
		default:
			b.printf("unknown command %q\n", cmd)
		}
	}
	return scanner.Err()
}

// onRoute follows a committed search route with the feed.
func (b *browser) onRoute(route search.Route) {
	b.log.Debug("route changed", zap.String("route", route.String()))
	changed, err := b.feed.SetQuery(b.ctx, route.Query.Get("q"))
	if err != nil {
		b.printf("search failed: %v (type :retry)\n", err)
		return
	}
	if changed {
		b.printFeed()
	}
}

func (b *browser) loadMore(ctx context.Context) {
	st := b.feed.State()
	if !st.HasMore() {
		if st.Done() {
			b.printf("end of list\n")
		}
		return
	}
	if err := b.feed.LoadMore(ctx); err != nil {
		b.printf("load more failed: %v\n", err)
		return
	}
	b.printFeed()
}

func (b *browser) show(ctx context.Context, arg string) {
	id, ok := parseMovieID(arg)
	if !ok {
		b.printf("usage: :show ID\n")
		return
	}
	movie, err := b.catalog.MovieDetails(ctx, id)
	if err != nil {
		b.printf("movie %d: %v\n", id, err)
		return
	}
	fav, _ := b.favs.IsFavorite(ctx, localClientID, id)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s\n", movie.Title, favMark(fav))
	if movie.Tagline != "" {
		fmt.Fprintf(&sb, "  %s\n", movie.Tagline)
	}
	fmt.Fprintf(&sb, "  released %s  rating %.1f", orDash(movie.ReleaseDate), movie.VoteAverage)
	if movie.Runtime > 0 {
		fmt.Fprintf(&sb, "  %d min", movie.Runtime)
	}
	sb.WriteString("\n")
	if len(movie.Genres) > 0 {
		names := make([]string, len(movie.Genres))
		for i, g := range movie.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(&sb, "  %s\n", strings.Join(names, ", "))
	}
	if movie.Overview != "" {
		fmt.Fprintf(&sb, "  %s\n", movie.Overview)
	}
	fmt.Fprintf(&sb, "  poster %s\n", b.images.URL(movie.PosterPath, tmdb.SizeW500))
	b.printf("%s", sb.String())
}

func (b *browser) addFavorite(ctx context.Context, arg string) {
	id, ok := parseMovieID(arg)
	if !ok {
		b.printf("usage: :fav ID\n")
		return
	}
	movie, added, err := b.favs.Add(ctx, localClientID, id)
	if err != nil {
		b.printf("favorite %d: %v\n", id, err)
		return
	}
	if !added {
		b.printf("%s is already a favorite\n", movie.Title)
		return
	}
	b.printf("added %s\n", movie.Title)
}

func (b *browser) removeFavorite(ctx context.Context, arg string) {
	id, ok := parseMovieID(arg)
	if !ok {
		b.printf("usage: :unfav ID\n")
		return
	}
	if err := b.favs.Remove(ctx, localClientID, id); err != nil {
		b.printf("favorite %d: %v\n", id, err)
		return
	}
	b.printf("removed %d\n", id)
}

func (b *browser) listFavorites(ctx context.Context, sortSpec string) {
	favs, err := b.favs.List(ctx, localClientID, sortSpec)
	if err != nil {
		b.printf("favorites: %v\n", err)
		return
	}
	if len(favs) == 0 {
		b.printf("no favorites yet\n")
		return
	}

	var sb strings.Builder
	for _, f := range favs {
		fmt.Fprintf(&sb, "%8d  %-40s %4.1f  %s\n", f.Movie.ID, f.Movie.Title, f.Movie.VoteAverage, orDash(f.Movie.ReleaseDate))
	}
	b.printf("%s", sb.String())
}

func (b *browser) printFeed() {
	st := b.feed.State()
	flags, err := b.favs.Flags(b.ctx, localClientID)
	if err != nil {
		b.log.Warn("favorite flags failed", zap.Error(err))
	}

	var sb strings.Builder
	if st.Searching {
		fmt.Fprintf(&sb, "search %q", st.Query)
	} else {
		sb.WriteString("popular movies")
	}
	fmt.Fprintf(&sb, "  page %d/%d\n", st.Page, st.TotalPages)

	if st.Err != nil {
		fmt.Fprintf(&sb, "  error: %v\n", st.Err)
	} else if len(st.Movies) == 0 {
		sb.WriteString("  no movies found\n")
	}
	for _, m := range st.Movies {
		fmt.Fprintf(&sb, "%8d  %s%s\n", m.ID, m.Title, favMark(flags[m.ID]))
	}
	if st.Done() {
		sb.WriteString("  end of list\n")
	}
	b.printf("%s", sb.String())
}

func (b *browser) printf(format string, args ...any) {
	b.outMu.Lock()
	defer b.outMu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func parseMovieID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func favMark(fav bool) string {
	if fav {
		return " ★"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
