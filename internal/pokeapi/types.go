package pokeapi

// ListResponse is the paged listing envelope from /pokemon?limit=&offset=.
type ListResponse struct {
	Count   int        `json:"count"`
	Results []ListItem `json:"results"`
}

// ListItem names one pokemon and carries the URL of its detail resource.
type ListItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RawPokemon is the untrusted detail payload. Every field the transformer
// validates is a pointer so "absent" and "zero" stay distinguishable.
type RawPokemon struct {
	ID             *int           `json:"id"`
	Name           *string        `json:"name"`
	Height         *int           `json:"height"` // decimeters
	Weight         *int           `json:"weight"` // hectograms
	BaseExperience *int           `json:"base_experience"`
	Sprites        RawSprites     `json:"sprites"`
	Types          []RawTypeSlot  `json:"types"`
	Abilities      []RawAbility   `json:"abilities"`
	Stats          []RawStatEntry `json:"stats"`
}

type RawSprites struct {
	FrontDefault *string `json:"front_default"`
}

type RawTypeSlot struct {
	Slot *int         `json:"slot"`
	Type RawNamedItem `json:"type"`
}

type RawAbility struct {
	Slot     *int         `json:"slot"`
	IsHidden *bool        `json:"is_hidden"`
	Ability  RawNamedItem `json:"ability"`
}

type RawStatEntry struct {
	BaseStat *int         `json:"base_stat"`
	Effort   *int         `json:"effort"`
	Stat     RawNamedItem `json:"stat"`
}

type RawNamedItem struct {
	Name *string `json:"name"`
}
