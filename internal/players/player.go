package players

import (
	"maps"
	"math"

	"mulletclicker/internal/upgrades"
)

// Player is the mutable economy of one game session.
type Player struct {
	Currency       int64
	ClickPower     int64
	AutoClickPower int64
	Stage          int
	OwnedUpgrades  map[string]int
}

func New() *Player {
	return &Player{
		ClickPower:    1,
		Stage:         1,
		OwnedUpgrades: make(map[string]int),
	}
}

// Click credits one manual click and returns the amount gained.
func (p *Player) Click() int64 {
	gained := p.ClickPower
	p.Currency += gained
	return gained
}

// AutoAccrue credits floor(AutoClickPower*dt), never less than 1 while the
// auto rate is positive.
func (p *Player) AutoAccrue(dt float64) int64 {
	if p.AutoClickPower <= 0 {
		return 0
	}
	gained := int64(math.Floor(float64(p.AutoClickPower) * dt))
	if gained <= 0 {
		gained = 1
	}
	p.Currency += gained
	return gained
}

// AddAuto credits AutoClickPower for each whole second elapsed.
func (p *Player) AddAuto(wholeSeconds int64) int64 {
	if p.AutoClickPower <= 0 || wholeSeconds <= 0 {
		return 0
	}
	gained := p.AutoClickPower * wholeSeconds
	p.Currency += gained
	return gained
}

func (p *Player) Credit(amount int64) {
	if amount > 0 {
		p.Currency += amount
	}
}

func (p *Player) LevelOf(id string) int {
	return p.OwnedUpgrades[id]
}

func (p *Player) NextCost(def upgrades.Definition) int64 {
	return def.Cost(p.LevelOf(def.ID))
}

func (p *Player) CanAfford(def upgrades.Definition) bool {
	return p.Currency >= p.NextCost(def)
}

// Purchase buys one level of def. It returns false without touching any
// state when the upgrade is capped or unaffordable.
func (p *Player) Purchase(def upgrades.Definition) bool {
	level := p.LevelOf(def.ID)
	if !def.IsAvailable(level) || !p.CanAfford(def) {
		return false
	}
	p.Currency -= def.Cost(level)
	p.OwnedUpgrades[def.ID] = level + 1
	def.Apply(p, level+1)
	return true
}

func (p *Player) AddClickPower(n int64) {
	p.ClickPower += n
}

func (p *Player) MultiplyClickPower(f float64) {
	p.ClickPower = int64(math.Floor(float64(p.ClickPower) * f))
}

func (p *Player) AddAutoClickPower(n int64) {
	p.AutoClickPower += n
}

func (p *Player) SetStage(stage int) {
	p.Stage = stage
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p *Player) Clone() *Player {
	c := *p
	c.OwnedUpgrades = maps.Clone(p.OwnedUpgrades)
	if c.OwnedUpgrades == nil {
		c.OwnedUpgrades = make(map[string]int)
	}
	return &c
}
