package tui

import (
	"fmt"
	"log"
	"math"
	"time"

	"mulletclicker/internal/events"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

// Sounds plays short tones for purchases, target hits and wins. It is an
// events.Notifier; speaker.Play never blocks the caller.
type Sounds struct {
	volume float64
}

func NewSounds(volume float64) (*Sounds, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	return &Sounds{volume: volume}, nil
}

func notesFor(t events.Type) []note {
	switch t {
	case events.TypePurchased:
		return []note{{660, 80 * time.Millisecond}}
	case events.TypeTargetHit:
		return []note{{880, 50 * time.Millisecond}, {1320, 70 * time.Millisecond}}
	case events.TypeGameWon:
		return []note{{523.25, 150 * time.Millisecond}, {659.25, 150 * time.Millisecond}, {783.99, 300 * time.Millisecond}}
	}
	return nil
}

func (s *Sounds) Notify(ev events.Event) {
	notes := notesFor(ev.Type)
	if len(notes) == 0 {
		return
	}
	seq := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			log.Printf("[Audio] tone %v: %v\n", n.freq, err)
			return
		}
		seq = append(seq, beep.Take(sampleRate.N(n.dur), tone))
	}
	speaker.Play(volume(beep.Seq(seq...), s.volume))
}

func (s *Sounds) Close() {
	speaker.Clear()
	speaker.Close()
}

// volume scales s linearly; zero or less is silent.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
