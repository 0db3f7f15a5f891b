package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/upgrades"
)

func TestHomePage_Leaderboard(t *testing.T) {
	var buf bytes.Buffer
	err := HomePage(HomeData{
		Title:     "Mullet Clicker",
		WinAmount: 2000,
		Leaderboard: []leaderboard.Entry{
			{Name: "<script>", Time: 75, Date: "3/1/2026"},
		},
		Upgrades: upgrades.ExtendedCatalog().List(),
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Mullet Clicker", "1:15", "&lt;script&gt;", "Release the LEVI!", "2000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("names must be escaped")
	}
}

func TestHomePage_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := HomePage(HomeData{Title: "x"}).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No scores yet.") {
		t.Error("empty leaderboard message missing")
	}
}
