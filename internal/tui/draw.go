package tui

import (
	"fmt"

	"mulletclicker/internal/game"
	"mulletclicker/internal/utility"

	"github.com/gdamore/tcell/v2"
)

const (
	arenaRows   = 8
	boardRows   = 5
	helpLine    = "space click  1-9 buy  t hit  s submit  r reset  q quit"
	targetRune  = 'L'
	clickedRune = '*'
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleAfford  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleLocked  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWin     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// Draw renders the current view.
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	v := a.view

	y := 0
	a.text(0, y, styleTitle, "MULLET CLICKER")
	clock := "Time " + v.Clock
	a.text(w-len(clock), y, styleDefault, clock)
	y += 2

	money := fmt.Sprintf("%s %s", v.CurrencyText, v.CurrencyName)
	if v.WinAmount > 0 {
		money += fmt.Sprintf("  (goal %s)", utility.AbbreviatedFormat{}.Format(v.WinAmount))
	}
	a.text(0, y, styleDefault, money)
	y++
	a.text(0, y, styleDefault, fmt.Sprintf("Click +%d   Auto +%d/s   Stage %d", v.ClickPower, v.AutoClickPower, v.Stage))
	y += 2

	for i, row := range v.Upgrades {
		if i >= 9 {
			break
		}
		a.text(0, y, upgradeStyle(row), upgradeLine(i+1, row))
		y++
	}
	y++

	if v.Stage >= 2 {
		y = a.drawArena(y, w, v)
	}

	if v.Scene == game.SceneWon {
		banner := fmt.Sprintf(" You did it in %s! ", v.Clock)
		if v.Submitted {
			banner += "Press r to play again. "
		} else {
			banner += "Press s to submit your time. "
		}
		a.text(0, y, styleWin, banner)
		y += 2
	}

	if len(v.Leaderboard) > 0 {
		a.text(0, y, styleTitle, "Fastest")
		y++
		for i, e := range v.Leaderboard {
			if i >= boardRows {
				break
			}
			a.text(0, y, styleDefault, fmt.Sprintf("%2d. %-12s %7.1fs  %s", i+1, e.Name, e.Time, e.Date))
			y++
		}
	}

	if a.status != "" {
		a.text(0, h-2, styleDefault, a.status)
	}
	a.text(0, h-1, styleLocked, helpLine)
	s.Show()
}

func upgradeLine(n int, row game.UpgradeRow) string {
	cost := row.CostText
	if row.Level >= row.MaxLevel {
		cost = "MAX"
	}
	return fmt.Sprintf("%d) %-24s Lv %d/%d  %8s  %s", n, row.Name, row.Level, row.MaxLevel, cost, row.ETA)
}

func upgradeStyle(row game.UpgradeRow) tcell.Style {
	switch {
	case !row.Available:
		return styleLocked
	case row.Affordable:
		return styleAfford
	default:
		return styleDefault
	}
}

// drawArena maps the playfield onto a box of arenaRows lines starting at y and
// returns the first line below it.
func (a *App) drawArena(y, w int, v game.View) int {
	border := make([]rune, w)
	for i := range border {
		border[i] = '-'
	}
	a.text(0, y, styleLocked, string(border))
	a.text(0, y+arenaRows+1, styleLocked, string(border))

	f := v.Field
	if f.Width > 0 && f.Height > 0 {
		for _, t := range v.Targets {
			col := int(t.X / f.Width * float64(w-1))
			row := int(t.Y / f.Height * float64(arenaRows-1))
			if col < 0 || col >= w || row < 0 || row >= arenaRows {
				continue
			}
			r := targetRune
			if t.Clicked {
				r = clickedRune
			}
			a.screen.SetContent(col, y+1+row, r, nil, styleTarget)
		}
	}
	return y + arenaRows + 3
}

func (a *App) text(x, y int, style tcell.Style, str string) {
	for _, r := range str {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
