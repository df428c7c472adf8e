package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/albapepper/pokedata/internal/api/respond"
	"github.com/albapepper/pokedata/internal/etl"
	"github.com/albapepper/pokedata/internal/model"
)

const maxPageSize = 200

// ListPokemon returns a filtered listing of pokemon joined with their
// types, abilities, and stats.
//
// Query parameters: name (substring match), type (canonical type name),
// min_bmi, max_bmi, limit, offset.
func (h *Handler) ListPokemon(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := intParam(q.Get("limit"), 50)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := intParam(q.Get("offset"), 0)
	if limit < 0 || offset < 0 {
		respond.WriteError(w, http.StatusBadRequest, "BAD_RANGE", "limit and offset must be non-negative")
		return
	}

	tx := h.store.WithContext(r.Context()).Model(&model.Pokemon{})

	if name := strings.TrimSpace(q.Get("name")); name != "" {
		tx = tx.Where("pokemon.name LIKE ?", "%"+etl.CanonicalName(name)+"%")
	}
	if typeName := strings.TrimSpace(q.Get("type")); typeName != "" {
		tx = tx.Joins("JOIN pokemon_type pt ON pt.pokemon_id = pokemon.id").
			Joins("JOIN type t ON t.id = pt.type_id").
			Where("t.name = ?", etl.CanonicalName(typeName))
	}
	if v := q.Get("min_bmi"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			tx = tx.Where("bmi >= ?", f)
		}
	}
	if v := q.Get("max_bmi"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			tx = tx.Where("bmi <= ?", f)
		}
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Distinct("pokemon.id").Count(&total).Error; err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "QUERY_FAILED", "pokemon listing failed", err.Error())
		return
	}

	var rows []model.Pokemon
	err := tx.Session(&gorm.Session{}).Distinct("pokemon.*").
		Preload("Types", orderBySlot).Preload("Types.Type").
		Preload("Abilities", orderBySlot).Preload("Abilities.Ability").
		Preload("Stats").Preload("Stats.Stat").
		Order("pokemon.id").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "QUERY_FAILED", "pokemon listing failed", err.Error())
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   total,
		"limit":   limit,
		"offset":  offset,
		"results": rows,
	})
}

// GetPokemon returns one pokemon with its associations.
func (h *Handler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be an integer")
		return
	}

	var row model.Pokemon
	err = h.store.WithContext(r.Context()).
		Preload("Types", orderBySlot).Preload("Types.Type").
		Preload("Abilities", orderBySlot).Preload("Abilities.Ability").
		Preload("Stats").Preload("Stats.Stat").
		Take(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no pokemon with that id")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "QUERY_FAILED", "pokemon lookup failed", err.Error())
		return
	}

	respond.WriteJSON(w, http.StatusOK, row)
}

func orderBySlot(db *gorm.DB) *gorm.DB {
	return db.Order("slot")
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
