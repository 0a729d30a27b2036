package items

import "strings"

// Stats are the already-resolved combat bonuses of one item. The combat
// core never computes equipment rules itself; it only folds these numbers
// into the snapshot taken at accept time.
type Stats struct {
	Attack  int  `json:"attack"`
	Defense int  `json:"defense"`
	HP      int  `json:"hp"`
	Shield  bool `json:"shield"`
}

// Item is one equippable definition loaded from the server configuration.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stats Stats  `json:"stats"`
}

// Resolver maps item ids to their combat stat bonuses.
type Resolver interface {
	// Resolve returns the stats for an item id. Unknown ids resolve to
	// zero stats rather than failing: a stale loadout entry must not keep
	// a player out of combat.
	Resolve(itemID string) (Stats, bool)
}

type configResolver struct {
	byID map[string]Item
}

// NewConfigResolver builds a Resolver from the configured item list.
// Lookups are case-insensitive on the item id.
func NewConfigResolver(list []Item) Resolver {
	m := make(map[string]Item, len(list))
	for _, it := range list {
		m[strings.ToLower(it.ID)] = it
	}
	return &configResolver{byID: m}
}

func (r *configResolver) Resolve(itemID string) (Stats, bool) {
	it, ok := r.byID[strings.ToLower(itemID)]
	if !ok {
		return Stats{}, false
	}
	return it.Stats, true
}

// Sum folds a loadout into aggregate bonuses using the resolver. Unknown
// ids contribute nothing.
func Sum(r Resolver, loadout []string) Stats {
	var total Stats
	for _, id := range loadout {
		s, ok := r.Resolve(id)
		if !ok {
			continue
		}
		total.Attack += s.Attack
		total.Defense += s.Defense
		total.HP += s.HP
		total.Shield = total.Shield || s.Shield
	}
	return total
}
