package game

import (
	"fmt"
	"os"

	"mulletclicker/internal/targets"
	"mulletclicker/internal/upgrades"

	"gopkg.in/yaml.v3"
)

type Variant string

const (
	VariantClassic  = Variant("classic")
	VariantExtended = Variant("extended")
)

// AccrualMode picks how the auto-click rate turns elapsed time into currency.
type AccrualMode string

const (
	// AccrualPerTick credits floor(rate*dt) every tick, at least 1.
	AccrualPerTick = AccrualMode("per_tick")
	// AccrualBuckets credits rate once per whole elapsed second.
	AccrualBuckets = AccrualMode("buckets")
)

type Config struct {
	Variant        Variant       `yaml:"variant"`
	CurrencyName   string        `yaml:"currency_name"`
	CurrencyFormat string        `yaml:"currency_format"` // "literal" or "abbreviated"
	Accrual        AccrualMode   `yaml:"accrual"`
	WinAmount      int64         `yaml:"win_amount"` // 0 disables the win condition
	TargetReward   int64         `yaml:"target_reward"`
	SpawnMinSecs   float64       `yaml:"spawn_min_secs"`
	SpawnMaxSecs   float64       `yaml:"spawn_max_secs"`
	SpeedMin       float64       `yaml:"speed_min"`
	SpeedMax       float64       `yaml:"speed_max"`
	GraceSecs      float64       `yaml:"grace_secs"`
	AutosaveSecs   float64       `yaml:"autosave_secs"`
	AutoLoad       bool          `yaml:"auto_load"`
	Field          targets.Field `yaml:"field"`
}

func DefaultConfig(v Variant) Config {
	cfg := Config{
		Variant:        VariantExtended,
		CurrencyName:   "Mullet Bucks",
		CurrencyFormat: "literal",
		Accrual:        AccrualBuckets,
		WinAmount:      2000,
		TargetReward:   150,
		SpawnMinSecs:   5,
		SpawnMaxSecs:   15,
		SpeedMin:       100,
		SpeedMax:       300,
		GraceSecs:      0.5,
		AutosaveSecs:   30,
		Field: targets.Field{
			Width:  800,
			Height: 600,
			Margin: 100,
			MinY:   100,
			MaxY:   300,
		},
	}
	if v == VariantClassic {
		cfg.Variant = VariantClassic
		cfg.CurrencyFormat = "abbreviated"
		cfg.Accrual = AccrualPerTick
		cfg.WinAmount = 0
	}
	return cfg
}

// CatalogFor returns the built-in catalog matching a variant.
func CatalogFor(v Variant) *upgrades.Catalog {
	if v == VariantClassic {
		return upgrades.ClassicCatalog()
	}
	return upgrades.ExtendedCatalog()
}

// LoadTuning overlays the YAML file at path onto base. Fields missing from
// the file keep their base values.
func LoadTuning(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading tuning: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return base, fmt.Errorf("parsing tuning: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Accrual != AccrualPerTick && c.Accrual != AccrualBuckets:
		return fmt.Errorf("unknown accrual mode %q", c.Accrual)
	case c.WinAmount < 0:
		return fmt.Errorf("win amount %d is negative", c.WinAmount)
	case c.SpawnMinSecs <= 0 || c.SpawnMaxSecs < c.SpawnMinSecs:
		return fmt.Errorf("spawn interval [%v, %v] is invalid", c.SpawnMinSecs, c.SpawnMaxSecs)
	case c.SpeedMin < 0 || c.SpeedMax < c.SpeedMin:
		return fmt.Errorf("speed range [%v, %v] is invalid", c.SpeedMin, c.SpeedMax)
	case c.GraceSecs < 0:
		return fmt.Errorf("grace delay %v is negative", c.GraceSecs)
	case c.AutosaveSecs <= 0:
		return fmt.Errorf("autosave interval %v must be positive", c.AutosaveSecs)
	case c.Field.Width <= 0 || c.Field.MaxY < c.Field.MinY:
		return fmt.Errorf("playfield %+v is invalid", c.Field)
	}
	return nil
}
