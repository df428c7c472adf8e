package etl

import (
	"math"
	"strings"

	"github.com/albapepper/pokedata/internal/pokeapi"
)

// Transformed is the validated, unit-normalized view of one pokemon that the
// loader persists. Heights are centimeters, weights kilograms.
type Transformed struct {
	ID             int
	Name           string
	BaseExperience *int
	HeightCm       int
	WeightKg       float64
	BMI            *float64
	SpriteURL      *string
	Types          []TypeEntry
	Abilities      []AbilityEntry
	Stats          []StatEntry
}

// TypeEntry holds one type reference with its slot (1 = primary).
type TypeEntry struct {
	Name string
	Slot int
}

type AbilityEntry struct {
	Name     string
	IsHidden bool
	Slot     int
}

type StatEntry struct {
	Name     string
	BaseStat int
	Effort   int
}

// Transform validates one raw record and produces the normalized domain
// value, or a *ValidationError naming the violated field. It is pure: no
// I/O, deterministic for the same input.
//
// Required: id, name, height, weight, and well-formed type/ability/stat
// entries. Optional fields (base_experience, sprite) degrade to nil.
func Transform(raw *pokeapi.RawPokemon) (*Transformed, error) {
	if raw == nil {
		return nil, &ValidationError{Field: "record", Reason: "empty payload"}
	}
	if raw.ID == nil {
		return nil, &ValidationError{Field: "id", Reason: "missing"}
	}
	if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "missing or empty"}
	}
	if raw.Height == nil {
		return nil, &ValidationError{Field: "height", Reason: "missing"}
	}
	if *raw.Height < 0 {
		return nil, &ValidationError{Field: "height", Reason: "negative"}
	}
	if raw.Weight == nil {
		return nil, &ValidationError{Field: "weight", Reason: "missing"}
	}
	if *raw.Weight < 0 {
		return nil, &ValidationError{Field: "weight", Reason: "negative"}
	}

	heightCm := toCentimeters(*raw.Height)
	weightKg := toKilograms(*raw.Weight)

	t := &Transformed{
		ID:             *raw.ID,
		Name:           strings.TrimSpace(*raw.Name),
		BaseExperience: raw.BaseExperience,
		HeightCm:       heightCm,
		WeightKg:       weightKg,
		BMI:            bmi(heightCm, weightKg),
		SpriteURL:      raw.Sprites.FrontDefault,
	}

	for _, ts := range raw.Types {
		if ts.Type.Name == nil || *ts.Type.Name == "" {
			return nil, &ValidationError{Field: "types.type.name", Reason: "missing"}
		}
		if ts.Slot == nil {
			return nil, &ValidationError{Field: "types.slot", Reason: "missing"}
		}
		t.Types = append(t.Types, TypeEntry{
			Name: CanonicalName(*ts.Type.Name),
			Slot: *ts.Slot,
		})
	}

	for _, ab := range raw.Abilities {
		if ab.Ability.Name == nil || *ab.Ability.Name == "" {
			return nil, &ValidationError{Field: "abilities.ability.name", Reason: "missing"}
		}
		if ab.Slot == nil {
			return nil, &ValidationError{Field: "abilities.slot", Reason: "missing"}
		}
		if ab.IsHidden == nil {
			return nil, &ValidationError{Field: "abilities.is_hidden", Reason: "missing"}
		}
		t.Abilities = append(t.Abilities, AbilityEntry{
			Name:     CanonicalName(*ab.Ability.Name),
			IsHidden: *ab.IsHidden,
			Slot:     *ab.Slot,
		})
	}

	for _, st := range raw.Stats {
		if st.Stat.Name == nil || *st.Stat.Name == "" {
			return nil, &ValidationError{Field: "stats.stat.name", Reason: "missing"}
		}
		if st.BaseStat == nil {
			return nil, &ValidationError{Field: "stats.base_stat", Reason: "missing"}
		}
		if st.Effort == nil {
			return nil, &ValidationError{Field: "stats.effort", Reason: "missing"}
		}
		t.Stats = append(t.Stats, StatEntry{
			Name:     CanonicalName(*st.Stat.Name),
			BaseStat: *st.BaseStat,
			Effort:   *st.Effort,
		})
	}

	return t, nil
}

// CanonicalName trims and lower-cases a reference entity name so "Fire",
// "fire" and " FIRE " all resolve to the same row.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// toCentimeters converts upstream decimeters to centimeters.
func toCentimeters(dm int) int { return dm * 10 }

// toKilograms converts upstream hectograms to kilograms.
func toKilograms(hg int) float64 { return float64(hg) / 10.0 }

// bmi derives weight_kg / (height_m)^2, rounded to two decimals. Nil when
// height is zero; a zero-height BMI is undefined, not infinite.
func bmi(heightCm int, weightKg float64) *float64 {
	if heightCm <= 0 {
		return nil
	}
	m := float64(heightCm) / 100.0
	v := math.Round(weightKg/(m*m)*100) / 100
	return &v
}
