package leaderboard

import (
	"sync"
	"testing"
	"time"
)

var day = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func times(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Time
	}
	return out
}

func TestBoard_SortsAscending(t *testing.T) {
	b := New()
	b.Submit("a", 30, day)
	b.Submit("b", 10, day)
	b.Submit("c", 20, day)

	got := times(b.Entries())
	want := []float64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries = %v, want %v", got, want)
			break
		}
	}
}

func TestBoard_KeepsBestTen(t *testing.T) {
	b := New()
	for i := 1; i <= 10; i++ {
		b.Submit("p", float64(i*10), day)
	}
	b.Submit("late", 55, day)

	entries := b.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("len = %d, want %d", len(entries), MaxEntries)
	}
	if entries[len(entries)-1].Time != 90 {
		t.Errorf("worst kept time = %v, want 90", entries[len(entries)-1].Time)
	}
	for _, e := range entries {
		if e.Time == 100 {
			t.Error("slowest entry should have been dropped")
		}
	}
}

func TestBoard_SlowEntryDropped(t *testing.T) {
	b := New()
	for i := 1; i <= 10; i++ {
		b.Submit("p", float64(i), day)
	}
	b.Submit("slow", 500, day)
	for _, e := range b.Entries() {
		if e.Name == "slow" {
			t.Error("entry slower than all ten should not be kept")
		}
	}
}

func TestBoard_DefaultName(t *testing.T) {
	b := New()
	e := b.Submit("   ", 12.5, day)
	if e.Name != DefaultName {
		t.Errorf("Name = %q, want %q", e.Name, DefaultName)
	}
	if e.Date != "3/14/2026" {
		t.Errorf("Date = %q, want %q", e.Date, "3/14/2026")
	}
}

func TestBoard_Replace(t *testing.T) {
	b := New()
	b.Replace([]Entry{{Name: "", Time: 40}, {Name: "Liam", Time: 20}})

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Name != "Liam" {
		t.Errorf("first = %q, want Liam", entries[0].Name)
	}
	if entries[1].Name != DefaultName {
		t.Errorf("blank name = %q, want %q", entries[1].Name, DefaultName)
	}
}

func TestBoard_EntriesIsCopy(t *testing.T) {
	b := New()
	b.Submit("a", 1, day)
	entries := b.Entries()
	entries[0].Name = "mutated"
	if b.Entries()[0].Name != "a" {
		t.Error("Entries() exposes internal storage")
	}
}

func TestBoard_ConcurrentSubmit(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Submit("p", float64(i), day)
		}()
	}
	wg.Wait()
	if b.Len() != MaxEntries {
		t.Errorf("Len() = %d, want %d", b.Len(), MaxEntries)
	}
	if b.Entries()[0].Time != 0 {
		t.Errorf("best time = %v, want 0", b.Entries()[0].Time)
	}
}
