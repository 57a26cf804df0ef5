package main

import (
	"fmt"
	"os"

	"github.com/actuallystonmai/movie-catalog/internal/config"
	"github.com/actuallystonmai/movie-catalog/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose       bool
	migrationsDir string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "movieview",
	Short: "Browse TMDB movies and keep a list of favorites",
	Long: `movieview serves a JSON API over The Movie Database: popular movies,
search, movie details and per-client favorites.

Run "movieview serve" for the HTTP API or "movieview browse" for the
interactive terminal browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(cfg.Env, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "directory holding the SQL migrations")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, browseCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
