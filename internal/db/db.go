// Package db provides the SQLite-backed store shared by the ingestion
// pipeline and the API server. One Store wraps one database file.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/albapepper/pokedata/internal/model"
)

// Store wraps gorm.DB with application-specific helpers.
type Store struct {
	*gorm.DB
}

// Open connects to the SQLite database at path, enabling foreign key
// enforcement. The schema is not touched; call EnsureSchema for that.
func Open(path string) (*Store, error) {
	// _foreign_keys=on maps to PRAGMA foreign_keys=ON per connection.
	dsn := fmt.Sprintf("%s?_foreign_keys=on", path)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &Store{DB: gdb}, nil
}

// EnsureSchema creates any missing tables, indexes, and constraints. Safe to
// call on every process start; existing rows are never altered or dropped.
func (s *Store) EnsureSchema() error {
	if err := s.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Clear truncates all entities and associations. The schema itself stays in
// place. Association tables go first so foreign keys never dangle mid-way.
func (s *Store) Clear(ctx context.Context) error {
	return s.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.PokemonType{},
			&model.PokemonAbility{},
			&model.PokemonStat{},
			&model.Pokemon{},
			&model.Type{},
			&model.Ability{},
			&model.Stat{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}
		return nil
	})
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.WithContext(ctx).Raw("SELECT 1").Scan(&n).Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	sqlDB, err := s.DB.DB()
	if err != nil {
		slog.Warn("retrieve sql.DB for close", "error", err)
		return
	}
	_ = sqlDB.Close()
}
