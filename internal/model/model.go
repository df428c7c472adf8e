// Package model declares the relational schema the loader writes into and
// the dashboard reads from. Reference entities (Type, Ability, Stat) are
// keyed by canonical name and shared across pokemon through junction rows.
package model

import "time"

// Pokemon is the core entity. Heights are stored in centimeters and weights
// in kilograms; both are converted from upstream units at transform time.
// LoadedAt is set on first insert and kept across reloads.
type Pokemon struct {
	ID             int     `json:"id" gorm:"primaryKey"`
	Name           string  `json:"name" gorm:"uniqueIndex;not null"`
	BaseExperience *int    `json:"base_experience"`
	HeightCm       int     `json:"height_cm" gorm:"not null"`
	WeightKg       float64 `json:"weight_kg" gorm:"not null"`
	// BMI is derived at transform time: weight_kg / (height_cm/100)^2.
	BMI       *float64  `json:"bmi"`
	SpriteURL *string   `json:"sprite_url"`
	LoadedAt  time.Time `json:"loaded_at" gorm:"not null"`

	Types     []PokemonType    `json:"types,omitempty" gorm:"foreignKey:PokemonID;constraint:OnDelete:CASCADE"`
	Abilities []PokemonAbility `json:"abilities,omitempty" gorm:"foreignKey:PokemonID;constraint:OnDelete:CASCADE"`
	Stats     []PokemonStat    `json:"stats,omitempty" gorm:"foreignKey:PokemonID;constraint:OnDelete:CASCADE"`
}

func (Pokemon) TableName() string { return "pokemon" }

// Type is a reference entity, created the first time its canonical name is
// seen and reused thereafter.
type Type struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Type) TableName() string { return "type" }

type Ability struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Ability) TableName() string { return "ability" }

type Stat struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Stat) TableName() string { return "stat" }

// PokemonType links a pokemon to a type. Slot 1 is the primary type; the
// unique index on (pokemon_id, slot) keeps one type per slot.
type PokemonType struct {
	PokemonID int  `json:"pokemon_id" gorm:"primaryKey;autoIncrement:false;uniqueIndex:uq_pokemon_type_slot,priority:1"`
	TypeID    uint `json:"type_id" gorm:"primaryKey;autoIncrement:false"`
	Slot      int  `json:"slot" gorm:"not null;uniqueIndex:uq_pokemon_type_slot,priority:2"`

	Type Type `json:"type" gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
}

func (PokemonType) TableName() string { return "pokemon_type" }

type PokemonAbility struct {
	PokemonID int  `json:"pokemon_id" gorm:"primaryKey;autoIncrement:false"`
	AbilityID uint `json:"ability_id" gorm:"primaryKey;autoIncrement:false"`
	IsHidden  bool `json:"is_hidden" gorm:"not null;default:false"`
	Slot      int  `json:"slot" gorm:"not null"`

	Ability Ability `json:"ability" gorm:"foreignKey:AbilityID;constraint:OnDelete:CASCADE"`
}

func (PokemonAbility) TableName() string { return "pokemon_ability" }

type PokemonStat struct {
	PokemonID int  `json:"pokemon_id" gorm:"primaryKey;autoIncrement:false"`
	StatID    uint `json:"stat_id" gorm:"primaryKey;autoIncrement:false"`
	BaseStat  int  `json:"base_stat" gorm:"not null"`
	Effort    int  `json:"effort" gorm:"not null"`

	Stat Stat `json:"stat" gorm:"foreignKey:StatID;constraint:OnDelete:CASCADE"`
}

func (PokemonStat) TableName() string { return "pokemon_stat" }

// All lists every model in dependency order for migration and truncation.
func All() []interface{} {
	return []interface{}{
		&Pokemon{},
		&Type{},
		&Ability{},
		&Stat{},
		&PokemonType{},
		&PokemonAbility{},
		&PokemonStat{},
	}
}
