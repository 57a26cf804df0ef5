package main

import (
	"fmt"

	"github.com/actuallystonmai/movie-catalog/seeds"
	"github.com/spf13/cobra"
)

var (
	seedClient string
	seedCount  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a client's favorites with popular movies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 0 {
			return fmt.Errorf("--count must not be negative, got %d", seedCount)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		pool, err := openPool(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrate(ctx, pool, migrationsDir, "up", logger); err != nil {
			return err
		}
		return seeds.Setup(ctx, pool, newTMDBClient(cfg), seedClient, seedCount, logger)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedClient, "client", seeds.DefaultClientID, "client id that receives the favorites")
	seedCmd.Flags().IntVar(&seedCount, "count", 8, "number of favorites to insert")
}
