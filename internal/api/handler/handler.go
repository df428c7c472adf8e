// Package handler provides HTTP handlers for all API endpoints. Read
// endpoints query the store directly; write endpoints (pipeline run, clear)
// are serialized through a mutex because the loader assumes a single
// transactional writer.
package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/albapepper/pokedata/internal/api/respond"
	"github.com/albapepper/pokedata/internal/config"
	"github.com/albapepper/pokedata/internal/db"
	"github.com/albapepper/pokedata/internal/etl"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store    *db.Store
	pipeline *etl.Pipeline
	cfg      *config.Config
	logger   *slog.Logger

	// Guards pipeline runs and database clears.
	runMu sync.Mutex
}

// New creates a Handler with shared dependencies.
func New(store *db.Store, pipeline *etl.Pipeline, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, pipeline: pipeline, cfg: cfg, logger: logger}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "PokeData API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable,
			"DB_UNAVAILABLE", "database is not reachable", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
