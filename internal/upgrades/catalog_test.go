package upgrades

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipient struct {
	click int64
	auto  int64
	stage int
}

func (f *fakeRecipient) AddClickPower(n int64) { f.click += n }
func (f *fakeRecipient) AddAutoClickPower(n int64) { f.auto += n }
func (f *fakeRecipient) SetStage(stage int) { f.stage = stage }
func (f *fakeRecipient) MultiplyClickPower(m float64) { f.click = int64(math.Floor(float64(f.click) * m)) }

func TestDefinition_CostCurve(t *testing.T) {
	c := ExtendedCatalog()
	def, ok := c.Get("click_power")
	require.True(t, ok)

	want := []int64{2, 15, 112, 843, 6328}
	for level, w := range want {
		assert.Equal(t, w, def.Cost(level), "level %d", level)
	}
}

func TestDefinition_CostSaturates(t *testing.T) {
	def := Definition{ID: "click_power", BaseCost: 10, CostMultiplier: 1.5}

	assert.Equal(t, int64(math.MaxInt64), def.Cost(200))
	assert.Equal(t, int64(math.MaxInt64), def.Cost(5000))
	assert.Greater(t, def.Cost(102), int64(0))
	assert.Less(t, def.Cost(102), int64(math.MaxInt64))
}

func TestDefinition_CostMonotonic(t *testing.T) {
	for _, c := range []*Catalog{ClassicCatalog(), ExtendedCatalog()} {
		for _, def := range c.List() {
			prev := def.Cost(0)
			for level := 1; level < 20; level++ {
				cur := def.Cost(level)
				assert.GreaterOrEqual(t, cur, prev, "%s level %d", def.ID, level)
				prev = cur
			}
		}
	}
}

func TestDefinition_IsAvailable(t *testing.T) {
	capped := Definition{MaxLevel: 5}
	assert.True(t, capped.IsAvailable(0))
	assert.True(t, capped.IsAvailable(4))
	assert.False(t, capped.IsAvailable(5))

	unbounded := Definition{}
	assert.True(t, unbounded.IsAvailable(1000))
}

func TestDefinition_ApplyAdditive(t *testing.T) {
	c := ExtendedCatalog()
	r := &fakeRecipient{click: 1}

	cp, _ := c.Get("click_power")
	cp.Apply(r, 1)
	cp.Apply(r, 2)
	assert.Equal(t, int64(3), r.click)

	ac, _ := c.Get("auto_clicker")
	ac.Apply(r, 1)
	assert.Equal(t, int64(1), r.auto)
}

func TestDefinition_ApplyMultiplierOnlyAtLevelOne(t *testing.T) {
	c := ExtendedCatalog()
	r := &fakeRecipient{click: 3}
	m, _ := c.Get("click_multiplier")

	m.Apply(r, 1)
	assert.Equal(t, int64(6), r.click)

	m.Apply(r, 2)
	m.Apply(r, 5)
	assert.Equal(t, int64(6), r.click)
}

func TestDefinition_ApplyStageUnlock(t *testing.T) {
	r := &fakeRecipient{stage: 1}
	def, ok := ExtendedCatalog().Get("stage_2_unlock")
	require.True(t, ok)
	def.Apply(r, 1)
	assert.Equal(t, 2, r.stage)
}

func TestDefinition_NextLevelDescription(t *testing.T) {
	c := ExtendedCatalog()
	m, _ := c.Get("click_multiplier")
	assert.Equal(t, "Multiplies click power by 2", m.NextLevelDescription(0, "Mullet Bucks"))
	assert.Equal(t, "Already at maximum effectiveness", m.NextLevelDescription(1, "Mullet Bucks"))

	a, _ := c.Get("auto_clicker")
	assert.Equal(t, "Generates 1 Mullet Bucks per second", a.NextLevelDescription(0, "Mullet Bucks"))
}

func TestNewCatalog_ResolvesKinds(t *testing.T) {
	c := ClassicCatalog()
	for id, want := range map[string]Kind{
		"click_power":      KindClickPower,
		"auto_clicker":     KindAutoRate,
		"click_multiplier": KindOneShotMultiplier,
	} {
		d, ok := c.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, want, d.Kind, id)
	}
	_, ok := c.Get("stage_2_unlock")
	assert.False(t, ok)
}

func TestNewCatalog_Rejects(t *testing.T) {
	cases := map[string][]Definition{
		"unknown id without kind": {{ID: "mystery", CostMultiplier: 1}},
		"duplicate":               {{ID: "click_power", CostMultiplier: 1}, {ID: "click_power", CostMultiplier: 1}},
		"negative cost":           {{ID: "click_power", BaseCost: -1, CostMultiplier: 1}},
		"zero multiplier":         {{ID: "click_power", BaseCost: 1}},
		"fractional additive":     {{ID: "click_power", BaseCost: 1, CostMultiplier: 1, EffectValue: 0.5}},
		"bad kind":                {{ID: "x", Kind: "teleport", CostMultiplier: 1}},
	}
	for name, defs := range cases {
		_, err := NewCatalog(defs)
		assert.Error(t, err, name)
	}
}

func TestCatalog_Categories(t *testing.T) {
	order, groups := ExtendedCatalog().Categories()
	assert.Equal(t, []string{"Powers", "Stages"}, order)
	assert.Equal(t, []string{"stage_2_unlock"}, groups["Stages"])

	order, _ = ClassicCatalog().Categories()
	assert.Equal(t, []string{"Uncategorized"}, order)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `
upgrades:
  - id: click_power
    name: Click Power
    base_cost: 3
    cost_multiplier: 2
    effect_value: 2
    max_level: 3
  - id: golden_mullet
    name: Golden Mullet
    kind: one_shot_multiplier
    base_cost: 500
    cost_multiplier: 1
    effect_value: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	g, ok := c.Get("golden_mullet")
	require.True(t, ok)
	assert.Equal(t, KindOneShotMultiplier, g.Kind)
	assert.Equal(t, int64(500), g.Cost(4))
	assert.Equal(t, 3, c.MaxLevelOf("click_power"))
}

func TestLoadCatalog_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upgrades: []\n"), 0o644))
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
