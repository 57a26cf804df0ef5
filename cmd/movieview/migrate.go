package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or drop the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create the favorites schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context(), "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop the favorites schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context(), "down")
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigration(ctx context.Context, direction string) error {
	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return migrate(ctx, pool, migrationsDir, direction, logger)
}

// migrate runs migrations/create_tables.<direction>.sql.
func migrate(ctx context.Context, pool *pgxpool.Pool, dir, direction string, log *zap.Logger) error {
	path := filepath.Join(dir, fmt.Sprintf("create_tables.%s.sql", direction))
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Info("migrations applied", zap.String("direction", direction), zap.String("file", path))
	return nil
}
