package tui

import (
	"context"
	"errors"
	"fmt"

	"mulletclicker/internal/game"
	"mulletclicker/internal/loop"

	"github.com/gdamore/tcell/v2"
)

// App draws engine views on a tcell screen and turns keys into engine
// commands posted to the loop.
type App struct {
	screen tcell.Screen
	name   string
	views  chan game.View
	view   game.View
	status string
}

func New(screen tcell.Screen, name string) *App {
	return &App{
		screen: screen,
		name:   name,
		views:  make(chan game.View, 1),
	}
}

// Observe is a loop.Observer. It keeps only the newest view and never blocks
// the loop goroutine.
func (a *App) Observe(v game.View) {
	for {
		select {
		case a.views <- v:
			return
		default:
		}
		select {
		case <-a.views:
		default:
		}
	}
}

// Run drives lp and the screen until the player quits or ctx is cancelled.
// It returns only after lp has stopped.
func (a *App) Run(ctx context.Context, lp *loop.Loop) error {
	ctx, cancel := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() { loopDone <- lp.Run(ctx) }()

	// The engine belongs to the loop until it has exited.
	loopExited := false
	defer func() {
		cancel()
		if !loopExited {
			<-loopDone
		}
	}()

	input := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	if v, err := lp.View(ctx); err == nil {
		a.view = v
	}
	a.Draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-loopDone:
			loopExited = true
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case v := <-a.views:
			a.view = v
			a.Draw()
		case ev := <-input:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.HandleKey(ctx, lp, ev) {
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			a.Draw()
		}
	}
}

// HandleKey applies one key press and reports whether the app should keep
// running.
func (a *App) HandleKey(ctx context.Context, lp *loop.Loop, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	var fn func(e *game.Engine)
	switch r := ev.Rune(); {
	case r == 'q':
		return false
	case r == ' ':
		fn = func(e *game.Engine) {
			if e.Won() {
				a.status = "Run complete. Press r to play again."
				return
			}
			a.status = fmt.Sprintf("+%d", e.Click())
		}
	case r >= '1' && r <= '9':
		idx := int(r - '1')
		fn = func(e *game.Engine) {
			list := e.Catalog().List()
			if idx >= len(list) {
				return
			}
			def := list[idx]
			if e.Purchase(def.ID) {
				a.status = "Bought " + def.Name
			} else {
				a.status = "Can't buy " + def.Name
			}
		}
	case r == 't':
		fn = func(e *game.Engine) {
			if reward, ok := e.HitOldestTarget(); ok {
				a.status = fmt.Sprintf("Hit! +%d", reward)
			} else {
				a.status = "Nothing to hit"
			}
		}
	case r == 's':
		fn = func(e *game.Engine) {
			entry, err := e.SubmitScore(a.name)
			if err != nil {
				a.status = err.Error()
				return
			}
			a.status = fmt.Sprintf("Saved %s at %.1fs", entry.Name, entry.Time)
		}
	case r == 'r':
		fn = func(e *game.Engine) {
			e.Reset()
			a.status = "Reset"
		}
	default:
		return true
	}

	if err := lp.Do(ctx, fn); err != nil {
		return !errors.Is(err, loop.ErrStopped)
	}
	return true
}
