package sessions

import (
	"context"
	"sync/atomic"
	"time"

	"mulletclicker/internal/broadcast"
	"mulletclicker/internal/events"
	"mulletclicker/internal/loop"
	"mulletclicker/internal/saves"
	"mulletclicker/internal/wshub"
)

// Session is one running game: an engine driven by its own loop, plus the
// SSE and websocket fan-outs watching it.
type Session struct {
	Code        string
	ID          string
	Loop        *loop.Loop
	Saves       *saves.Store
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	Bus         *events.Bus
	CreatedAt   time.Time

	lastSeen atomic.Int64 // unix nanos
	cancel   context.CancelFunc
	done     chan struct{}
}

// Touch marks the session as in use at now.
func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Stop halts the session's goroutines and waits for its loop to exit.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}
