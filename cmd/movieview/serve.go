package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/cache"
	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/actuallystonmai/movie-catalog/internal/handler"
	"github.com/actuallystonmai/movie-catalog/internal/metrics"
	"github.com/actuallystonmai/movie-catalog/internal/repository"
	"github.com/actuallystonmai/movie-catalog/internal/router"
	"github.com/actuallystonmai/movie-catalog/internal/service"
	"github.com/actuallystonmai/movie-catalog/internal/tmdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	metrics.Init()

	// ------------ PostgreSQL ---------------
	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ------------ Run Migrations ---------------
	if err := migrate(ctx, pool, migrationsDir, "up", logger); err != nil {
		return err
	}

	// ------------ TMDB + Redis ---------------
	repo := repository.New(pool)
	var responses cache.Store
	var responseCache *cache.Cache
	rdb, err := openRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, serving without response cache", zap.Error(err))
	} else {
		defer rdb.Close()
		responseCache = cache.NewCache(rdb, cfg.CacheTTL)
		responses = responseCache
		logger.Info("connected to Redis")
	}

	h := newAPI(newTMDBClient(cfg), repo, responses, logger)
	h.AddReadinessCheck("postgres", repo)
	if responseCache != nil {
		h.AddReadinessCheck("redis", responseCache)
	}

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// newAPI wires the catalog and favorites behind the HTTP handlers. Catalog
// reads go through responses when set; favorites read details straight from
// upstream so refreshes see current data.
func newAPI(upstream domain.MovieCatalog, store favorites.Store, responses cache.Store, log *zap.Logger) *handler.Handler {
	catalog := upstream
	if responses != nil {
		loadTimeout := cfg.TMDB.Timeout * time.Duration(cfg.TMDB.RetryMax+1)
		catalog = cache.NewCachedCatalog(upstream, responses, log, cache.WithLoadTimeout(loadTimeout))
	}

	favs := favorites.NewService(store, upstream, log,
		favorites.WithLanguage(language.Make(cfg.TMDB.Language)))
	svc := service.NewService(catalog, favs, tmdb.NewImageURLs(cfg.TMDB.ImageBaseURL), log)
	return handler.NewHandler(svc, log)
}
