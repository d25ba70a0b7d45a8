package domain

// Catalog is everything the listing pages read, loaded together.
type Catalog struct {
	Movies   []Movie   `json:"movies"`
	Rooms    []Room    `json:"rooms"`
	Sessions []Session `json:"sessions"`
	Combos   []Combo   `json:"combos"`
}
