package main

import (
	"fmt"

	"github.com/actuallystonmai/movie-catalog/internal/cache"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the TMDB response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [prefix]",
	Short: "Delete cached responses, optionally only those under prefix (popular, search, movie)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		n, err := cache.NewCache(client, cfg.CacheTTL).Clear(ctx, prefix)
		if err != nil {
			return err
		}
		logger.Info("cache cleared", zap.String("prefix", prefix), zap.Int("keys", n))
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
