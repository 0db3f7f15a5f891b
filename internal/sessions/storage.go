package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"mulletclicker/internal/broadcast"
	"mulletclicker/internal/clock"
	"mulletclicker/internal/events"
	"mulletclicker/internal/game"
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/loop"
	"mulletclicker/internal/saves"
	"mulletclicker/internal/upgrades"
	"mulletclicker/internal/wshub"

	"github.com/google/uuid"
)

const staleTTL = 1 * time.Hour

var ErrInvalidCode = errors.New("invalid session code")

// Options configures every session a Store creates.
type Options struct {
	Game    game.Config
	Catalog *upgrades.Catalog
	Board   *leaderboard.Board
	KV      saves.KV // nil keeps saves in memory
	Tick    time.Duration
	Clock   clock.Clock

	// Notifier, if set, builds an extra per-session event sink (journal,
	// metrics) alongside the session's own fan-outs.
	Notifier func(code, id string) events.Notifier

	OnOpen  func(s *Session)
	OnClose func(s *Session)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	stop     chan struct{}
	stopOnce sync.Once
}

func NewStore(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.KV == nil {
		opts.KV = saves.NewMemoryKV()
	}
	if opts.Board == nil {
		opts.Board = leaderboard.New()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		stop:     make(chan struct{}),
	}
	go s.sweepStale()
	return s
}

// Create starts a new session under a fresh code.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}
		sess := s.startLocked(code, false)
		return sess, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

// Resume returns the live session for code, or starts one from the save
// stored under that code.
func (s *Store) Resume(code string) (*Session, bool, error) {
	code, ok := NormalizeCode(code)
	if !ok {
		return nil, false, ErrInvalidCode
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[code]; ok {
		sess.Touch(s.opts.Clock.Now())
		return sess, true, nil
	}
	if !saves.NewStore(s.opts.KV, code+":").HasSave() {
		return nil, false, nil
	}
	return s.startLocked(code, true), true, nil
}

func (s *Store) startLocked(code string, load bool) *Session {
	id := uuid.New().String()
	bus := events.NewBus()
	b := broadcast.NewBroadcaster()
	hub := wshub.NewHub()
	store := saves.NewStore(s.opts.KV, code+":")

	notifiers := events.Multi{bus, hub}
	if s.opts.Notifier != nil {
		notifiers = append(notifiers, s.opts.Notifier(code, id))
	}

	engine := game.NewEngine(s.opts.Game, s.opts.Catalog, s.opts.Board,
		game.WithNotifier(notifiers),
		game.WithPersistence(store),
		game.WithClock(s.opts.Clock),
	)
	if load && !s.opts.Game.AutoLoad {
		engine.Load()
	}

	lp := loop.New(engine, s.opts.Tick,
		loop.WithClock(s.opts.Clock),
		loop.WithObserver(func(v game.View) {
			b.Publish("state", v)
			hub.PushState(v)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		Code:        code,
		ID:          id,
		Loop:        lp,
		Saves:       store,
		Broadcaster: b,
		Hub:         hub,
		Bus:         bus,
		CreatedAt:   s.opts.Clock.Now(),
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	sess.Touch(sess.CreatedAt)

	go func() {
		defer close(sess.done)
		lp.Run(ctx)
	}()
	go b.Forward(ctx, bus)

	s.sessions[code] = sess
	log.Printf("[Session] Started %s (%s)\n", code, id)
	if s.opts.OnOpen != nil {
		s.opts.OnOpen(sess)
	}
	return sess
}

// Get returns the live session for code and marks it as seen.
func (s *Store) Get(code string) *Session {
	code, ok := NormalizeCode(code)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[code]
	if sess != nil {
		sess.Touch(s.opts.Clock.Now())
	}
	return sess
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()

	if ok {
		s.close(sess)
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

// Sweep removes sessions idle for longer than the stale TTL at now and
// returns how many it removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for code, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > staleTTL {
			stale = append(stale, sess)
			delete(s.sessions, code)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.close(sess)
	}
	return len(stale)
}

// Close stops the sweeper and every live session.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	for _, sess := range s.List() {
		s.Delete(sess.Code)
	}
}

func (s *Store) close(sess *Session) {
	// Final save before the engine goes away.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	sess.Loop.Do(ctx, func(e *game.Engine) { e.Save() })
	cancel()

	sess.Stop()
	log.Printf("[Session] Closed %s\n", sess.Code)
	if s.opts.OnClose != nil {
		s.opts.OnClose(sess)
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Sweep(s.opts.Clock.Now()); n > 0 {
				log.Printf("[Session] Swept %d stale sessions\n", n)
			}
		}
	}
}
