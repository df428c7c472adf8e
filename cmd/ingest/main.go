// Command ingest is the PokeData ingestion CLI.
//
// Usage:
//
//	pokedata-ingest run --limit 20 --offset 0
//	pokedata-ingest init
//	pokedata-ingest clear
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/pokedata/internal/config"
	"github.com/albapepper/pokedata/internal/db"
	"github.com/albapepper/pokedata/internal/etl"
	"github.com/albapepper/pokedata/internal/pokeapi"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "pokedata-ingest",
		Short: "PokeData ingestion CLI",
	}

	root.AddCommand(runCmd())
	root.AddCommand(initCmd())
	root.AddCommand(clearCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ETL for a page of pokemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, store *db.Store) error {
				client := pokeapi.New(cfg.PokeAPIBase, cfg.HTTPTimeout,
					cfg.RequestsPerSecond, cfg.MaxRetries, logger)
				extractor := etl.NewExtractor(client, cfg.MaxConcurrency, logger)
				pipeline := etl.NewPipeline(store, extractor, logger)

				start := time.Now()
				result, err := pipeline.Run(ctx, limit, offset)
				if err != nil {
					return fmt.Errorf("pipeline run: %w", err)
				}
				logger.Info("ETL finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, f := range result.Failures {
					logger.Error("item failed",
						"index", f.Index, "name", f.Name, "kind", f.Kind, "detail", f.Detail)
				}
				fmt.Printf("requested=%d loaded=%d\n", result.Requested, result.Loaded)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of pokemon to load")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset for pagination")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, store *db.Store) error {
				if err := store.EnsureSchema(); err != nil {
					return err
				}
				logger.Info("schema ready", "db", cfg.DBPath)
				return nil
			})
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all rows from every table, keeping the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, store *db.Store) error {
				if err := store.EnsureSchema(); err != nil {
					return err
				}
				if err := store.Clear(ctx); err != nil {
					return err
				}
				logger.Info("database cleared", "db", cfg.DBPath)
				return nil
			})
		},
	}
}

// withStore handles config loading, DB connection, and context cancellation.
func withStore(fn func(ctx context.Context, cfg *config.Config, store *db.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	return fn(ctx, cfg, store)
}
