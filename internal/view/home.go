package view

//go:generate templ generate

import (
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/upgrades"
)

// HomeData is what the landing page shows.
type HomeData struct {
	Title       string
	Variant     string
	WinAmount   int64
	Leaderboard []leaderboard.Entry
	Upgrades    []upgrades.Definition
}
