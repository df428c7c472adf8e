package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/albapepper/pokedata/internal/api/respond"
	"github.com/albapepper/pokedata/internal/etl"
)

type runRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// RunPipeline triggers an ETL run for the requested range. Runs are
// serialized: a second request blocks until the first commits or rolls back.
func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	req := runRequest{Limit: 20}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "BAD_BODY", "body must be JSON with limit and offset")
			return
		}
	}
	if req.Limit < 0 || req.Offset < 0 {
		respond.WriteError(w, http.StatusBadRequest, "BAD_RANGE", "limit and offset must be non-negative")
		return
	}

	h.runMu.Lock()
	defer h.runMu.Unlock()

	result, err := h.pipeline.Run(r.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("pipeline run failed", "error", err)
		status := http.StatusBadGateway
		if result != nil && result.State == etl.StateRolledBack && result.Requested > 0 {
			status = http.StatusInternalServerError
		}
		detail := err.Error()
		respond.WriteErrorDetail(w, status, "RUN_FAILED", "pipeline run did not commit", detail)
		return
	}

	respond.WriteJSON(w, http.StatusOK, result)
}

// ClearDatabase truncates all entities and associations. The schema stays.
func (h *Handler) ClearDatabase(w http.ResponseWriter, r *http.Request) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if err := h.store.Clear(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "CLEAR_FAILED", "database clear failed", err.Error())
		return
	}
	h.logger.Info("database cleared")
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "cleared"})
}
