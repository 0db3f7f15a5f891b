package players

import (
	"math"
	"testing"

	"mulletclicker/internal/upgrades"
)

func mustGet(t *testing.T, c *upgrades.Catalog, id string) upgrades.Definition {
	t.Helper()
	def, ok := c.Get(id)
	if !ok {
		t.Fatalf("catalog has no %q", id)
	}
	return def
}

func TestNew(t *testing.T) {
	p := New()
	if p.Currency != 0 {
		t.Errorf("Currency = %d, want 0", p.Currency)
	}
	if p.ClickPower != 1 {
		t.Errorf("ClickPower = %d, want 1", p.ClickPower)
	}
	if p.AutoClickPower != 0 {
		t.Errorf("AutoClickPower = %d, want 0", p.AutoClickPower)
	}
	if p.Stage != 1 {
		t.Errorf("Stage = %d, want 1", p.Stage)
	}
	if len(p.OwnedUpgrades) != 0 {
		t.Errorf("OwnedUpgrades has %d entries, want 0", len(p.OwnedUpgrades))
	}
}

func TestPlayer_Click(t *testing.T) {
	p := New()
	if got := p.Click(); got != 1 {
		t.Errorf("Click() = %d, want 1", got)
	}
	p.ClickPower = 4
	p.Click()
	if p.Currency != 5 {
		t.Errorf("Currency = %d, want 5", p.Currency)
	}
}

func TestPlayer_AutoAccrue(t *testing.T) {
	p := New()
	if got := p.AutoAccrue(1); got != 0 {
		t.Errorf("AutoAccrue without rate = %d, want 0", got)
	}

	p.AutoClickPower = 3
	if got := p.AutoAccrue(1.5); got != 4 {
		t.Errorf("AutoAccrue(1.5) = %d, want 4", got)
	}
	if p.Currency != 4 {
		t.Errorf("Currency = %d, want 4", p.Currency)
	}
}

func TestPlayer_AutoAccrue_MinimumGain(t *testing.T) {
	p := New()
	p.AutoClickPower = 1

	var total int64
	for range 10 {
		got := p.AutoAccrue(0.1)
		if got < 1 {
			t.Fatalf("AutoAccrue(0.1) = %d, want at least 1", got)
		}
		total += got
	}
	if p.Currency != total {
		t.Errorf("Currency = %d, want %d", p.Currency, total)
	}
}

func TestPlayer_AddAuto(t *testing.T) {
	p := New()
	p.AutoClickPower = 3
	if got := p.AddAuto(2); got != 6 {
		t.Errorf("AddAuto(2) = %d, want 6", got)
	}
	if got := p.AddAuto(0); got != 0 {
		t.Errorf("AddAuto(0) = %d, want 0", got)
	}
}

func TestPlayer_Purchase(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	cp := mustGet(t, c, "click_power")

	p := New()
	p.Currency = 20

	if !p.Purchase(cp) {
		t.Fatal("Purchase() = false, want true")
	}
	if p.Currency != 18 {
		t.Errorf("Currency = %d, want 18", p.Currency)
	}
	if p.LevelOf("click_power") != 1 {
		t.Errorf("level = %d, want 1", p.LevelOf("click_power"))
	}
	if p.ClickPower != 2 {
		t.Errorf("ClickPower = %d, want 2", p.ClickPower)
	}

	// level 1 costs 15
	if !p.Purchase(cp) {
		t.Fatal("second Purchase() = false, want true")
	}
	if p.Currency != 3 {
		t.Errorf("Currency = %d, want 3", p.Currency)
	}
}

func TestPlayer_Purchase_Unaffordable(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	m := mustGet(t, c, "click_multiplier")

	p := New()
	p.Currency = 99

	if p.Purchase(m) {
		t.Fatal("Purchase() = true, want false")
	}
	if p.Currency != 99 {
		t.Errorf("Currency = %d, want 99", p.Currency)
	}
	if p.LevelOf("click_multiplier") != 0 {
		t.Errorf("level = %d, want 0", p.LevelOf("click_multiplier"))
	}
}

func TestPlayer_Purchase_MaxLevel(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	unlock := mustGet(t, c, "stage_2_unlock")

	p := New()
	p.Currency = 1000
	if !p.Purchase(unlock) {
		t.Fatal("first Purchase() = false, want true")
	}
	if p.Stage != 2 {
		t.Errorf("Stage = %d, want 2", p.Stage)
	}
	if unlock.IsAvailable(p.LevelOf(unlock.ID)) {
		t.Error("stage unlock should be unavailable at max level")
	}
	before := p.Currency
	if p.Purchase(unlock) {
		t.Fatal("Purchase() at max level = true, want false")
	}
	if p.Currency != before {
		t.Errorf("Currency = %d, want %d", p.Currency, before)
	}
	if p.LevelOf(unlock.ID) != 1 {
		t.Errorf("level = %d, want 1", p.LevelOf(unlock.ID))
	}
}

func TestPlayer_Purchase_MultiplierOneShot(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	m := mustGet(t, c, "click_multiplier")

	p := New()
	p.ClickPower = 3
	p.Currency = 1000

	p.Purchase(m)
	if p.ClickPower != 6 {
		t.Fatalf("ClickPower after level 1 = %d, want 6", p.ClickPower)
	}
	if !p.Purchase(m) {
		t.Fatal("level 2 Purchase() = false, want true")
	}
	if p.LevelOf("click_multiplier") != 2 {
		t.Errorf("level = %d, want 2", p.LevelOf("click_multiplier"))
	}
	if p.ClickPower != 6 {
		t.Errorf("ClickPower after level 2 = %d, want 6", p.ClickPower)
	}
}

func TestPlayer_LevelOf_Unknown(t *testing.T) {
	p := New()
	if p.LevelOf("nothing") != 0 {
		t.Errorf("LevelOf(unknown) = %d, want 0", p.LevelOf("nothing"))
	}
}

func TestPlayer_Clone(t *testing.T) {
	p := New()
	p.OwnedUpgrades["click_power"] = 2
	c := p.Clone()
	c.OwnedUpgrades["click_power"] = 5
	c.Currency = 10

	if p.LevelOf("click_power") != 2 {
		t.Error("Clone shares OwnedUpgrades with the original")
	}
	if p.Currency != 0 {
		t.Error("Clone shares Currency with the original")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	p := New()
	p.Currency = 42
	p.ClickPower = 6
	p.AutoClickPower = 2
	p.Stage = 2
	p.OwnedUpgrades["click_multiplier"] = 1

	got := FromSnapshot(p.Snapshot(), c)
	if got.Currency != 42 || got.ClickPower != 6 || got.AutoClickPower != 2 || got.Stage != 2 {
		t.Errorf("FromSnapshot = %+v, want fields of %+v", got, p)
	}
	if got.LevelOf("click_multiplier") != 1 {
		t.Errorf("level = %d, want 1", got.LevelOf("click_multiplier"))
	}
}

func TestFromSnapshot_Defaults(t *testing.T) {
	c := upgrades.ExtendedCatalog()
	got := FromSnapshot(Snapshot{
		Currency:      -5,
		ClickPower:    0,
		Stage:         0,
		OwnedUpgrades: map[string]int{"click_power": 99, "bogus": 3, "auto_clicker": -1},
	}, c)

	if got.Currency != 0 {
		t.Errorf("Currency = %d, want 0", got.Currency)
	}
	if got.ClickPower != 1 {
		t.Errorf("ClickPower = %d, want 1", got.ClickPower)
	}
	if got.Stage != 1 {
		t.Errorf("Stage = %d, want 1", got.Stage)
	}
	if got.LevelOf("click_power") != 5 {
		t.Errorf("click_power level = %d, want 5 (clamped)", got.LevelOf("click_power"))
	}
	if _, ok := got.OwnedUpgrades["bogus"]; ok {
		t.Error("unknown upgrade id should be dropped")
	}
	if _, ok := got.OwnedUpgrades["auto_clicker"]; ok {
		t.Error("negative level should be dropped")
	}
}

func TestFromSnapshot_UncappedLevelKeepsCostInRange(t *testing.T) {
	c, err := upgrades.NewCatalog([]upgrades.Definition{
		{ID: "click_power", Name: "Click Power", BaseCost: 10, CostMultiplier: 1.5, EffectValue: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	cp := mustGet(t, c, "click_power")

	got := FromSnapshot(Snapshot{
		Currency:      5,
		ClickPower:    1,
		OwnedUpgrades: map[string]int{"click_power": 200},
	}, c)

	level := got.LevelOf("click_power")
	if level <= 0 || level >= 200 {
		t.Fatalf("click_power level = %d, want clamped into (0, 200)", level)
	}
	if cost := got.NextCost(cp); cost <= 0 || cost == math.MaxInt64 {
		t.Errorf("NextCost() = %d, want a finite positive cost", cost)
	}
	if cp.Cost(level+1) != math.MaxInt64 {
		t.Errorf("Cost(%d) = %d, want level clamped to the last in-range cost", level+1, cp.Cost(level+1))
	}
}

func TestPlayer_Purchase_SaturatedCost(t *testing.T) {
	c, err := upgrades.NewCatalog([]upgrades.Definition{
		{ID: "click_power", Name: "Click Power", BaseCost: 10, CostMultiplier: 1.5, EffectValue: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	cp := mustGet(t, c, "click_power")

	p := New()
	p.Currency = 5
	p.OwnedUpgrades["click_power"] = 200

	if p.Purchase(cp) {
		t.Fatal("Purchase() = true at a saturated cost, want false")
	}
	if p.Currency != 5 {
		t.Errorf("Currency = %d, want 5", p.Currency)
	}
	if p.LevelOf("click_power") != 200 {
		t.Errorf("level = %d, want 200", p.LevelOf("click_power"))
	}
}
