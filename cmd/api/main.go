// Command api is the PokeData API server. It serves the read-only pokemon
// query surface consumed by the dashboard and exposes the pipeline run and
// database clear entry points.
//
// Usage:
//
//	pokedata-api
//	API_PORT=8080 pokedata-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/pokedata/internal/api"
	"github.com/albapepper/pokedata/internal/config"
	"github.com/albapepper/pokedata/internal/db"
	"github.com/albapepper/pokedata/internal/etl"
	"github.com/albapepper/pokedata/internal/pokeapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("Opening database...", "path", cfg.DBPath)
	store, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		logger.Error("Failed to ensure schema", "error", err)
		os.Exit(1)
	}

	client := pokeapi.New(cfg.PokeAPIBase, cfg.HTTPTimeout, cfg.RequestsPerSecond, cfg.MaxRetries, logger)
	extractor := etl.NewExtractor(client, cfg.MaxConcurrency, logger)
	pipeline := etl.NewPipeline(store, extractor, logger)

	router := api.NewRouter(store, pipeline, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // pipeline runs can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("API server listening", "addr", addr, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
