package upgrades

import (
	"fmt"
	"math"
)

// Kind selects how a purchased level changes the player.
type Kind string

const (
	KindClickPower        = Kind("click_power")
	KindAutoRate          = Kind("auto_rate")
	KindOneShotMultiplier = Kind("one_shot_multiplier")
	KindStageUnlock       = Kind("stage_unlock")
)

// UnlockedStage is the stage a KindStageUnlock purchase moves the player to.
const UnlockedStage = 2

// Recipient is the part of the player state an upgrade effect can touch.
type Recipient interface {
	AddClickPower(n int64)
	MultiplyClickPower(f float64)
	AddAutoClickPower(n int64)
	SetStage(stage int)
}

type Definition struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	Description    string  `yaml:"description" json:"description"`
	BaseCost       float64 `yaml:"base_cost" json:"baseCost"`
	CostMultiplier float64 `yaml:"cost_multiplier" json:"costMultiplier"`
	EffectValue    float64 `yaml:"effect_value" json:"effectValue"`
	MaxLevel       int     `yaml:"max_level" json:"maxLevel,omitempty"` // 0 means unbounded
	Category       string  `yaml:"category" json:"category,omitempty"`
	Kind           Kind    `yaml:"kind" json:"kind"`
}

// Cost returns floor(BaseCost * CostMultiplier^level), saturating at
// math.MaxInt64 once the curve leaves the int64 range.
func (d Definition) Cost(level int) int64 {
	f := math.Floor(d.BaseCost * math.Pow(d.CostMultiplier, float64(level)))
	if math.IsNaN(f) || f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

// IsAvailable reports whether a player at level can buy another level.
func (d Definition) IsAvailable(level int) bool {
	return d.MaxLevel == 0 || level < d.MaxLevel
}

// Apply runs the effect of reaching levelAfter.
func (d Definition) Apply(r Recipient, levelAfter int) {
	switch d.Kind {
	case KindClickPower:
		r.AddClickPower(int64(d.EffectValue))
	case KindAutoRate:
		r.AddAutoClickPower(int64(d.EffectValue))
	case KindOneShotMultiplier:
		// Levels past the first are purchasable but inert.
		if levelAfter == 1 {
			r.MultiplyClickPower(d.EffectValue)
		}
	case KindStageUnlock:
		r.SetStage(UnlockedStage)
	}
}

// NextLevelDescription describes what buying the next level does for a
// player currently at level. unit is the currency display name.
func (d Definition) NextLevelDescription(level int, unit string) string {
	switch d.Kind {
	case KindClickPower:
		return fmt.Sprintf("Increases click power by %s", trimFloat(d.EffectValue))
	case KindAutoRate:
		return fmt.Sprintf("Generates %s %s per second", trimFloat(d.EffectValue), unit)
	case KindOneShotMultiplier:
		if level == 0 {
			return fmt.Sprintf("Multiplies click power by %s", trimFloat(d.EffectValue))
		}
		return "Already at maximum effectiveness"
	case KindStageUnlock:
		return d.Description
	}
	return "Unknown effect"
}

// CategoryOrDefault groups definitions without a category under "Uncategorized".
func (d Definition) CategoryOrDefault() string {
	if d.Category == "" {
		return "Uncategorized"
	}
	return d.Category
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// kindForID maps the well-known upgrade ids to their effect kind.
func kindForID(id string) (Kind, bool) {
	switch id {
	case "click_power":
		return KindClickPower, true
	case "auto_clicker":
		return KindAutoRate, true
	case "click_multiplier":
		return KindOneShotMultiplier, true
	case "stage_2_unlock":
		return KindStageUnlock, true
	}
	return "", false
}

func (k Kind) valid() bool {
	switch k {
	case KindClickPower, KindAutoRate, KindOneShotMultiplier, KindStageUnlock:
		return true
	}
	return false
}
