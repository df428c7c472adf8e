// Package etl implements the extract-transform-load pipeline: concurrent
// batched extraction from the PokeAPI, validation and feature derivation,
// and transactional normalization into the relational store.
package etl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/pokedata/internal/db"
)

// Pipeline sequences Extract -> Transform -> Load for one requested range
// and aggregates per-item outcomes into a RunResult.
type Pipeline struct {
	store     *db.Store
	extractor *Extractor
	loader    *Loader
	logger    *slog.Logger
}

// NewPipeline wires a Pipeline against the store and extractor.
func NewPipeline(store *db.Store, extractor *Extractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     store,
		extractor: extractor,
		loader:    NewLoader(store, logger),
		logger:    logger,
	}
}

// Run executes the ETL for one page of pokemon. Extraction and validation
// failures are collected per item and never abort the batch; a storage or
// mapping failure rolls the whole batch back, reports loaded=0, and is
// returned as the error. Re-running the same (limit, offset) is always safe:
// the load is idempotent.
func (p *Pipeline) Run(ctx context.Context, limit, offset int) (*RunResult, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit and offset must be non-negative, got limit=%d offset=%d", limit, offset)
	}

	res := &RunResult{State: StateIdle}

	// Creating tables is a no-op when they already exist.
	if err := p.store.EnsureSchema(); err != nil {
		res.State = StateRolledBack
		return res, &StorageError{Err: err}
	}

	res.State = StateExtracting
	start := time.Now()
	items, err := p.extractor.Extract(ctx, limit, offset)
	res.ExtractDuration = time.Since(start)
	if err != nil {
		res.State = StateRolledBack
		return res, err
	}
	res.Requested = len(items)
	p.logger.Info("extraction finished", "requested", res.Requested,
		"duration", res.ExtractDuration.Round(time.Millisecond))

	// Hard barrier: every extraction result is materialized before any
	// transformation, and the load only starts once the batch is final.
	res.State = StateTransforming
	start = time.Now()
	batch := make([]*Transformed, 0, len(items))
	for _, it := range items {
		if it.Err != nil {
			res.AddFailure(it.Index, it.Name, KindExtraction, it.Err.Error())
			continue
		}
		t, err := Transform(it.Raw)
		if err != nil {
			res.AddFailure(it.Index, it.Name, KindValidation, err.Error())
			continue
		}
		batch = append(batch, t)
	}
	res.TransformDuration = time.Since(start)

	res.State = StateLoading
	start = time.Now()
	err = p.loader.LoadBatch(ctx, batch)
	res.LoadDuration = time.Since(start)
	if err != nil {
		res.State = StateRolledBack
		res.Loaded = 0
		kind := KindStorage
		var me *MappingError
		if errors.As(err, &me) {
			kind = KindMapping
		}
		p.logger.Error("batch rolled back", "kind", kind, "error", err)
		return res, err
	}

	res.Loaded = len(batch)
	res.State = StateCommitted
	p.logger.Info("run committed", "summary", res.Summary(),
		"load_duration", res.LoadDuration.Round(time.Millisecond))
	return res, nil
}
