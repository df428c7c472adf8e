package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/pokedata/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.EnsureSchema())

	// Existing data must survive a second ensure.
	require.NoError(t, store.Create(&model.Pokemon{
		ID: 999, Name: "specimen", HeightCm: 100, WeightKg: 10,
	}).Error)

	require.NoError(t, store.EnsureSchema())

	var row model.Pokemon
	require.NoError(t, store.Take(&row, 999).Error)
	assert.Equal(t, "specimen", row.Name)
}

func TestClearTruncatesEverythingButKeepsSchema(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.EnsureSchema())

	typ := model.Type{Name: "grass"}
	require.NoError(t, store.Create(&typ).Error)
	require.NoError(t, store.Create(&model.Pokemon{
		ID: 1, Name: "bulbasaur", HeightCm: 70, WeightKg: 6.9,
	}).Error)
	require.NoError(t, store.Create(&model.PokemonType{
		PokemonID: 1, TypeID: typ.ID, Slot: 1,
	}).Error)

	require.NoError(t, store.Clear(context.Background()))

	for _, m := range model.All() {
		var count int64
		require.NoError(t, store.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	// Schema still usable after clear.
	require.NoError(t, store.Create(&model.Pokemon{
		ID: 2, Name: "ivysaur", HeightCm: 100, WeightKg: 13,
	}).Error)
}

func TestHealthCheck(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestUniqueNameConstraint(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.EnsureSchema())

	require.NoError(t, store.Create(&model.Pokemon{
		ID: 1, Name: "bulbasaur", HeightCm: 70, WeightKg: 6.9,
	}).Error)
	err := store.Create(&model.Pokemon{
		ID: 2, Name: "bulbasaur", HeightCm: 70, WeightKg: 6.9,
	}).Error
	assert.Error(t, err)
}
