package players

import (
	"maps"
	"math"
	"sort"

	"mulletclicker/internal/upgrades"
)

// Snapshot is the persisted shape of a Player.
type Snapshot struct {
	Currency       int64          `json:"currency"`
	ClickPower     int64          `json:"clickPower"`
	AutoClickPower int64          `json:"autoClickPower"`
	OwnedUpgrades  map[string]int `json:"ownedUpgrades"`
	Stage          int            `json:"stage"`
}

func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Currency:       p.Currency,
		ClickPower:     p.ClickPower,
		AutoClickPower: p.AutoClickPower,
		OwnedUpgrades:  maps.Clone(p.OwnedUpgrades),
		Stage:          p.Stage,
	}
}

// FromSnapshot rebuilds a Player, replacing out-of-range fields with the
// defaults of a fresh player. Levels for ids the catalog does not know are
// dropped and known levels are clamped to their cap, or to the last level
// whose next cost still fits in an int64.
func FromSnapshot(s Snapshot, catalog *upgrades.Catalog) *Player {
	p := New()
	if s.Currency > 0 {
		p.Currency = s.Currency
	}
	if s.ClickPower >= 1 {
		p.ClickPower = s.ClickPower
	}
	if s.AutoClickPower > 0 {
		p.AutoClickPower = s.AutoClickPower
	}
	if s.Stage >= 1 {
		p.Stage = s.Stage
	}
	for id, level := range s.OwnedUpgrades {
		def, ok := catalog.Get(id)
		if !ok || level <= 0 {
			continue
		}
		if def.MaxLevel > 0 && level > def.MaxLevel {
			level = def.MaxLevel
		}
		if def.Cost(level) == math.MaxInt64 {
			level = sort.Search(level, func(l int) bool { return def.Cost(l) == math.MaxInt64 }) - 1
			if level <= 0 {
				continue
			}
		}
		p.OwnedUpgrades[id] = level
	}
	return p
}
