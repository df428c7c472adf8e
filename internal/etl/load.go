package etl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/albapepper/pokedata/internal/db"
	"github.com/albapepper/pokedata/internal/model"
)

// Loader maps transformed values onto the relational schema. One batch is
// one transaction: either every pokemon in it lands or none do, so a caller
// can safely re-run the same (limit, offset) after a failure.
type Loader struct {
	store  *db.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader creates a Loader against the given store.
func NewLoader(store *db.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, logger: logger, now: time.Now}
}

// LoadBatch upserts the whole batch inside a single transaction. The error,
// if any, is a *MappingError or *StorageError; either way nothing from this
// batch was committed.
func (l *Loader) LoadBatch(ctx context.Context, batch []*Transformed) error {
	if len(batch) == 0 {
		return nil
	}
	err := l.store.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range batch {
			if err := l.upsertOne(tx, t); err != nil {
				return fmt.Errorf("pokemon %d (%s): %w", t.ID, t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		var me *MappingError
		if errors.As(err, &me) {
			return err
		}
		return &StorageError{Err: err}
	}
	return nil
}

// upsertOne writes one pokemon row plus its full association set. The row is
// inserted if absent, otherwise all non-identity fields are replaced while
// loaded_at keeps its first-insert value. Associations are replaced
// wholesale: delete by parent id, then bulk insert, so stale rows never
// accumulate across reloads.
func (l *Loader) upsertOne(tx *gorm.DB, t *Transformed) error {
	row := model.Pokemon{
		ID:             t.ID,
		Name:           t.Name,
		BaseExperience: t.BaseExperience,
		HeightCm:       t.HeightCm,
		WeightKg:       t.WeightKg,
		BMI:            t.BMI,
		SpriteURL:      t.SpriteURL,
		LoadedAt:       l.now(),
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "base_experience", "height_cm", "weight_kg", "bmi", "sprite_url",
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert row: %w", err)
	}

	// Replace associations: delete by parent, reinsert the new set.
	for _, m := range []interface{}{&model.PokemonType{}, &model.PokemonAbility{}, &model.PokemonStat{}} {
		if err := tx.Where("pokemon_id = ?", t.ID).Delete(m).Error; err != nil {
			return &MappingError{Detail: "delete stale associations", Err: err}
		}
	}

	if len(t.Types) > 0 {
		rows := make([]model.PokemonType, 0, len(t.Types))
		for _, entry := range t.Types {
			typeID, err := resolveType(tx, entry.Name)
			if err != nil {
				return err
			}
			rows = append(rows, model.PokemonType{PokemonID: t.ID, TypeID: typeID, Slot: entry.Slot})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return &MappingError{Detail: "insert type associations", Err: err}
		}
	}

	if len(t.Abilities) > 0 {
		rows := make([]model.PokemonAbility, 0, len(t.Abilities))
		for _, entry := range t.Abilities {
			abilityID, err := resolveAbility(tx, entry.Name)
			if err != nil {
				return err
			}
			rows = append(rows, model.PokemonAbility{
				PokemonID: t.ID, AbilityID: abilityID,
				IsHidden: entry.IsHidden, Slot: entry.Slot,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return &MappingError{Detail: "insert ability associations", Err: err}
		}
	}

	if len(t.Stats) > 0 {
		rows := make([]model.PokemonStat, 0, len(t.Stats))
		for _, entry := range t.Stats {
			statID, err := resolveStat(tx, entry.Name)
			if err != nil {
				return err
			}
			rows = append(rows, model.PokemonStat{
				PokemonID: t.ID, StatID: statID,
				BaseStat: entry.BaseStat, Effort: entry.Effort,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return &MappingError{Detail: "insert stat associations", Err: err}
		}
	}

	return nil
}

// resolveType returns the id of the type row with the canonical name,
// creating it if absent. A uniqueness violation on insert means another item
// in the batch created it between lookup and insert; re-read and use that
// row instead of failing.
func resolveType(tx *gorm.DB, name string) (uint, error) {
	var row model.Type
	err := tx.Where("name = ?", name).Take(&row).Error
	if err == nil {
		return row.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &MappingError{Detail: fmt.Sprintf("look up type %q", name), Err: err}
	}
	row = model.Type{Name: name}
	if createErr := tx.Create(&row).Error; createErr != nil {
		if err := tx.Where("name = ?", name).Take(&row).Error; err != nil {
			return 0, &MappingError{Detail: fmt.Sprintf("create type %q", name), Err: createErr}
		}
	}
	return row.ID, nil
}

func resolveAbility(tx *gorm.DB, name string) (uint, error) {
	var row model.Ability
	err := tx.Where("name = ?", name).Take(&row).Error
	if err == nil {
		return row.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &MappingError{Detail: fmt.Sprintf("look up ability %q", name), Err: err}
	}
	row = model.Ability{Name: name}
	if createErr := tx.Create(&row).Error; createErr != nil {
		if err := tx.Where("name = ?", name).Take(&row).Error; err != nil {
			return 0, &MappingError{Detail: fmt.Sprintf("create ability %q", name), Err: createErr}
		}
	}
	return row.ID, nil
}

func resolveStat(tx *gorm.DB, name string) (uint, error) {
	var row model.Stat
	err := tx.Where("name = ?", name).Take(&row).Error
	if err == nil {
		return row.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &MappingError{Detail: fmt.Sprintf("look up stat %q", name), Err: err}
	}
	row = model.Stat{Name: name}
	if createErr := tx.Create(&row).Error; createErr != nil {
		if err := tx.Where("name = ?", name).Take(&row).Error; err != nil {
			return 0, &MappingError{Detail: fmt.Sprintf("create stat %q", name), Err: createErr}
		}
	}
	return row.ID, nil
}
