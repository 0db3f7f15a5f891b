package game

import (
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/targets"
	"mulletclicker/internal/utility"
)

// UpgradeRow is one catalog entry as the player currently sees it.
type UpgradeRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	MaxLevel    int    `json:"maxLevel"`
	Cost        int64  `json:"cost"`
	CostText    string `json:"costText"`
	Available   bool   `json:"available"`
	Affordable  bool   `json:"affordable"`
	// ETA is the estimated wait until the upgrade is affordable on auto income alone.
	ETA string `json:"eta"`
}

// View is the state a presentation adapter renders each frame.
type View struct {
	Scene          Scene               `json:"scene"`
	CurrencyName   string              `json:"currencyName"`
	Currency       int64               `json:"currency"`
	CurrencyText   string              `json:"currencyText"`
	ClickPower     int64               `json:"clickPower"`
	AutoClickPower int64               `json:"autoClickPower"`
	Stage          int                 `json:"stage"`
	Elapsed        float64             `json:"elapsed"`
	Clock          string              `json:"clock"`
	WinAmount      int64               `json:"winAmount,omitempty"`
	Submitted      bool                `json:"submitted"`
	Upgrades       []UpgradeRow        `json:"upgrades"`
	Targets        []targets.Target    `json:"targets"`
	Field          targets.Field       `json:"field"`
	Leaderboard    []leaderboard.Entry `json:"leaderboard"`
	Stats          RunStats            `json:"stats"`
}

func (e *Engine) View() View {
	p := e.player
	scene := ScenePlaying
	if e.won {
		scene = SceneWon
	}

	rows := make([]UpgradeRow, 0, e.catalog.Len())
	for _, def := range e.catalog.List() {
		level := p.LevelOf(def.ID)
		cost := def.Cost(level)
		available := def.IsAvailable(level)
		eta := "-"
		if available && p.Currency < cost {
			eta = utility.FormatDuration(utility.TimeToAmount(p.Currency, cost, float64(p.AutoClickPower)))
		}
		rows = append(rows, UpgradeRow{
			ID:          def.ID,
			Name:        def.Name,
			Category:    def.CategoryOrDefault(),
			Description: def.NextLevelDescription(level, e.cfg.CurrencyName),
			Level:       level,
			MaxLevel:    def.MaxLevel,
			Cost:        cost,
			CostText:    e.format.Format(cost),
			Available:   available,
			Affordable:  available && p.Currency >= cost,
			ETA:         eta,
		})
	}

	return View{
		Scene:          scene,
		CurrencyName:   e.cfg.CurrencyName,
		Currency:       p.Currency,
		CurrencyText:   e.format.Format(p.Currency),
		ClickPower:     p.ClickPower,
		AutoClickPower: p.AutoClickPower,
		Stage:          p.Stage,
		Elapsed:        e.elapsed,
		Clock:          utility.FormatClock(e.elapsed),
		WinAmount:      e.cfg.WinAmount,
		Submitted:      e.submitted,
		Upgrades:       rows,
		Targets:        e.targets.GetList(),
		Field:          e.cfg.Field,
		Leaderboard:    e.board.Entries(),
		Stats:          e.stats,
	}
}
