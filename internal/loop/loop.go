package loop

import (
	"context"
	"errors"
	"time"

	"mulletclicker/internal/clock"
	"mulletclicker/internal/game"
)

var ErrStopped = errors.New("loop stopped")

// Observer receives the engine view after every tick and command.
type Observer func(v game.View)

type command struct {
	fn   func(e *game.Engine)
	done chan struct{}
}

// Loop owns an Engine on a single goroutine. Ticks advance it by the wall
// time elapsed on the clock; commands run between ticks.
type Loop struct {
	engine   *game.Engine
	clock    clock.Clock
	interval time.Duration
	observer Observer

	cmds    chan command
	stopped chan struct{}
	last    time.Time
}

type Option func(*Loop)

func WithClock(c clock.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observer = o }
}

func New(engine *game.Engine, interval time.Duration, opts ...Option) *Loop {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	l := &Loop{
		engine:   engine,
		clock:    clock.RealClock{},
		interval: interval,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives the engine until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.last = l.clock.Now()
	l.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.step()
		case cmd := <-l.cmds:
			cmd.fn(l.engine)
			close(cmd.done)
			l.publish()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish. ctx only
// bounds the wait for the loop to accept fn; once accepted, fn always runs
// and Do returns nil after it completes.
func (l *Loop) Do(ctx context.Context, fn func(e *game.Engine)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case l.cmds <- cmd:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-cmd.done
	return nil
}

// View snapshots the engine view from the loop goroutine.
func (l *Loop) View(ctx context.Context) (game.View, error) {
	var v game.View
	err := l.Do(ctx, func(e *game.Engine) { v = e.View() })
	return v, err
}

func (l *Loop) step() {
	now := l.clock.Now()
	dt := now.Sub(l.last).Seconds()
	l.last = now
	if dt > 0 {
		l.engine.Advance(dt)
	}
	l.publish()
}

func (l *Loop) publish() {
	if l.observer != nil {
		l.observer(l.engine.View())
	}
}
