package upgrades

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable set of purchasable upgrades, in display order.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// NewCatalog resolves each definition's kind and validates the set.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs: make([]Definition, 0, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Kind == "" {
			k, ok := kindForID(d.ID)
			if !ok {
				return nil, fmt.Errorf("upgrade %q: no kind given and id is not a known upgrade", d.ID)
			}
			d.Kind = k
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("upgrade %q: duplicate id", d.ID)
		}
		if err := validate(d); err != nil {
			return nil, err
		}
		c.byID[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

func validate(d Definition) error {
	switch {
	case d.ID == "":
		return fmt.Errorf("upgrade with name %q has no id", d.Name)
	case !d.Kind.valid():
		return fmt.Errorf("upgrade %q: unknown kind %q", d.ID, d.Kind)
	case d.BaseCost < 0:
		return fmt.Errorf("upgrade %q: base cost %v is negative", d.ID, d.BaseCost)
	case d.CostMultiplier <= 0:
		return fmt.Errorf("upgrade %q: cost multiplier %v must be positive", d.ID, d.CostMultiplier)
	case d.MaxLevel < 0:
		return fmt.Errorf("upgrade %q: max level %d is negative", d.ID, d.MaxLevel)
	}
	if d.Kind == KindClickPower || d.Kind == KindAutoRate {
		if d.EffectValue != math.Trunc(d.EffectValue) {
			return fmt.Errorf("upgrade %q: additive effect %v must be a whole number", d.ID, d.EffectValue)
		}
	}
	return nil
}

func (c *Catalog) Get(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) List() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Categories groups upgrade ids by category, keeping first-seen order.
func (c *Catalog) Categories() ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)
	for _, d := range c.defs {
		cat := d.CategoryOrDefault()
		if _, seen := groups[cat]; !seen {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], d.ID)
	}
	return order, groups
}

// MaxLevelOf returns the level cap for id, or 0 when unbounded or unknown.
func (c *Catalog) MaxLevelOf(id string) int {
	d, ok := c.Get(id)
	if !ok {
		return 0
	}
	return d.MaxLevel
}

func mustCatalog(defs []Definition) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// ClassicCatalog is the base game's tuning.
func ClassicCatalog() *Catalog {
	return mustCatalog([]Definition{
		{ID: "click_power", Name: "Click Power", Description: "Increases the value of each click", BaseCost: 10, CostMultiplier: 1.5, EffectValue: 1, MaxLevel: 5},
		{ID: "auto_clicker", Name: "Auto Clicker", Description: "Automatically clicks once per second", BaseCost: 50, CostMultiplier: 1.8, EffectValue: 1, MaxLevel: 5},
		{ID: "click_multiplier", Name: "Click Multiplier", Description: "Multiplies the value of each click", BaseCost: 100, CostMultiplier: 2.0, EffectValue: 2, MaxLevel: 5},
	})
}

// ExtendedCatalog is the staged game's tuning: steep curves and a stage unlock.
func ExtendedCatalog() *Catalog {
	return mustCatalog([]Definition{
		{ID: "click_power", Name: "Click Power", Description: "Increases the value of each click", BaseCost: 2, CostMultiplier: 7.5, EffectValue: 1, MaxLevel: 5, Category: "Powers"},
		{ID: "auto_clicker", Name: "Auto Clicker", Description: "Automatically clicks once per second", BaseCost: 5, CostMultiplier: 5.4, EffectValue: 1, MaxLevel: 5, Category: "Powers"},
		{ID: "click_multiplier", Name: "Click Multiplier", Description: "Multiplies the value of each click", BaseCost: 100, CostMultiplier: 2.0, EffectValue: 2, MaxLevel: 5, Category: "Powers"},
		{ID: "stage_2_unlock", Name: "Release the LEVI!", Description: "Unlock Stage 2 with Levi attacks", BaseCost: 100, CostMultiplier: 1.0, EffectValue: 1, MaxLevel: 1, Category: "Stages"},
	})
}

type catalogFile struct {
	Upgrades []Definition `yaml:"upgrades"`
}

// LoadCatalog reads a YAML catalog of the form `upgrades: [...]`.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Upgrades) == 0 {
		return nil, fmt.Errorf("catalog %s defines no upgrades", path)
	}
	return NewCatalog(f.Upgrades)
}
