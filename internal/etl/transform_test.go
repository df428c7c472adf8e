package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/pokedata/internal/pokeapi"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
func boolp(v bool) *bool    { return &v }

// samplePayload is bulbasaur as the PokeAPI returns it.
func samplePayload() *pokeapi.RawPokemon {
	return &pokeapi.RawPokemon{
		ID:             intp(1),
		Name:           strp("bulbasaur"),
		Height:         intp(7),  // decimeters -> 70 cm
		Weight:         intp(69), // hectograms -> 6.9 kg
		BaseExperience: intp(64),
		Sprites:        pokeapi.RawSprites{FrontDefault: strp("https://example/img.png")},
		Types: []pokeapi.RawTypeSlot{
			{Slot: intp(1), Type: pokeapi.RawNamedItem{Name: strp("grass")}},
			{Slot: intp(2), Type: pokeapi.RawNamedItem{Name: strp("poison")}},
		},
		Abilities: []pokeapi.RawAbility{
			{Slot: intp(1), IsHidden: boolp(false), Ability: pokeapi.RawNamedItem{Name: strp("overgrow")}},
			{Slot: intp(3), IsHidden: boolp(true), Ability: pokeapi.RawNamedItem{Name: strp("chlorophyll")}},
		},
		Stats: []pokeapi.RawStatEntry{
			{BaseStat: intp(45), Effort: intp(0), Stat: pokeapi.RawNamedItem{Name: strp("hp")}},
			{BaseStat: intp(49), Effort: intp(0), Stat: pokeapi.RawNamedItem{Name: strp("attack")}},
		},
	}
}

func TestTransformUnitsAndBMI(t *testing.T) {
	got, err := Transform(samplePayload())
	require.NoError(t, err)

	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "bulbasaur", got.Name)
	require.NotNil(t, got.BaseExperience)
	assert.Equal(t, 64, *got.BaseExperience)

	assert.Equal(t, 70, got.HeightCm)
	assert.InDelta(t, 6.9, got.WeightKg, 1e-9)

	// 6.9 / 0.7^2
	require.NotNil(t, got.BMI)
	assert.InDelta(t, 14.08, *got.BMI, 0.01)

	require.NotNil(t, got.SpriteURL)
	assert.Equal(t, "https://example/img.png", *got.SpriteURL)
}

func TestTransformHeavyPokemonBMI(t *testing.T) {
	raw := samplePayload()
	raw.Weight = intp(690) // 69.0 kg at 70 cm

	got, err := Transform(raw)
	require.NoError(t, err)
	assert.InDelta(t, 69.0, got.WeightKg, 1e-9)
	require.NotNil(t, got.BMI)
	assert.InDelta(t, 140.8, *got.BMI, 0.05)
}

func TestTransformZeroHeightHasNoBMI(t *testing.T) {
	raw := samplePayload()
	raw.Height = intp(0)

	got, err := Transform(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, got.HeightCm)
	assert.Nil(t, got.BMI)
}

func TestTransformMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*pokeapi.RawPokemon)
		field  string
	}{
		{"missing id", func(r *pokeapi.RawPokemon) { r.ID = nil }, "id"},
		{"missing name", func(r *pokeapi.RawPokemon) { r.Name = nil }, "name"},
		{"blank name", func(r *pokeapi.RawPokemon) { r.Name = strp("   ") }, "name"},
		{"missing height", func(r *pokeapi.RawPokemon) { r.Height = nil }, "height"},
		{"negative height", func(r *pokeapi.RawPokemon) { r.Height = intp(-1) }, "height"},
		{"missing weight", func(r *pokeapi.RawPokemon) { r.Weight = nil }, "weight"},
		{"missing type name", func(r *pokeapi.RawPokemon) { r.Types[0].Type.Name = nil }, "types.type.name"},
		{"missing type slot", func(r *pokeapi.RawPokemon) { r.Types[1].Slot = nil }, "types.slot"},
		{"missing hidden flag", func(r *pokeapi.RawPokemon) { r.Abilities[0].IsHidden = nil }, "abilities.is_hidden"},
		{"missing base stat", func(r *pokeapi.RawPokemon) { r.Stats[0].BaseStat = nil }, "stats.base_stat"},
		{"missing effort", func(r *pokeapi.RawPokemon) { r.Stats[1].Effort = nil }, "stats.effort"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := samplePayload()
			tc.mutate(raw)

			got, err := Transform(raw)
			assert.Nil(t, got)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestTransformOptionalFieldsDegradeToNil(t *testing.T) {
	raw := samplePayload()
	raw.BaseExperience = nil
	raw.Sprites.FrontDefault = nil

	got, err := Transform(raw)
	require.NoError(t, err)
	assert.Nil(t, got.BaseExperience)
	assert.Nil(t, got.SpriteURL)
}

func TestTransformCanonicalizesReferenceNames(t *testing.T) {
	raw := samplePayload()
	raw.Types[0].Type.Name = strp("  Grass ")
	raw.Abilities[0].Ability.Name = strp("OVERGROW")
	raw.Stats[0].Stat.Name = strp(" HP")

	got, err := Transform(raw)
	require.NoError(t, err)
	assert.Equal(t, "grass", got.Types[0].Name)
	assert.Equal(t, "overgrow", got.Abilities[0].Name)
	assert.Equal(t, "hp", got.Stats[0].Name)
}

func TestTransformSlotOrderPreserved(t *testing.T) {
	got, err := Transform(samplePayload())
	require.NoError(t, err)

	require.Len(t, got.Types, 2)
	assert.Equal(t, TypeEntry{Name: "grass", Slot: 1}, got.Types[0])
	assert.Equal(t, TypeEntry{Name: "poison", Slot: 2}, got.Types[1])

	require.Len(t, got.Abilities, 2)
	assert.True(t, got.Abilities[1].IsHidden)
	assert.Equal(t, 3, got.Abilities[1].Slot)
}

func TestTransformNilPayload(t *testing.T) {
	got, err := Transform(nil)
	assert.Nil(t, got)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "fire", CanonicalName("Fire"))
	assert.Equal(t, "fire", CanonicalName(" FIRE "))
	assert.Equal(t, "fire", CanonicalName("fire"))
}
