package leaderboard

import (
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	MaxEntries  = 10
	DefaultName = "Anonymous"
	DateLayout  = "1/2/2006"
)

type Entry struct {
	Name string  `json:"name"`
	Time float64 `json:"time"` // seconds to reach the win amount
	Date string  `json:"date"`
}

// Board keeps the fastest completion times, best first. It is shared by every
// session and safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Board {
	return &Board{}
}

// Submit records a completion time and returns the stored entry. A blank name
// is replaced with DefaultName. Only the best MaxEntries survive.
func (b *Board) Submit(name string, seconds float64, now time.Time) Entry {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	e := Entry{Name: name, Time: seconds, Date: now.Format(DateLayout)}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	b.sortAndTrimLocked()
	return e
}

func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries)
}

// Replace swaps in a previously persisted list.
func (b *Board) Replace(entries []Entry) {
	list := slices.Clone(entries)
	for i := range list {
		if strings.TrimSpace(list[i].Name) == "" {
			list[i].Name = DefaultName
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = list
	b.sortAndTrimLocked()
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *Board) sortAndTrimLocked() {
	slices.SortStableFunc(b.entries, func(x, y Entry) int {
		switch {
		case x.Time < y.Time:
			return -1
		case x.Time > y.Time:
			return 1
		}
		return 0
	})
	if len(b.entries) > MaxEntries {
		clear(b.entries[MaxEntries:])
		b.entries = b.entries[:MaxEntries]
	}
}
