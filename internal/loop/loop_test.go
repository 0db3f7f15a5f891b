package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mulletclicker/internal/clock"
	"mulletclicker/internal/game"
	"mulletclicker/internal/leaderboard"
)

func newTestEngine() *game.Engine {
	cfg := game.DefaultConfig(game.VariantExtended)
	return game.NewEngine(cfg, game.CatalogFor(game.VariantExtended), leaderboard.New())
}

func TestStep_UsesClockDelta(t *testing.T) {
	e := newTestEngine()
	fc := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := New(e, time.Second, WithClock(fc))
	l.last = fc.Now()

	e.Click()
	fc.Advance(1500 * time.Millisecond)
	l.step()

	if got := e.Elapsed(); got != 1.5 {
		t.Errorf("Elapsed() = %v, want 1.5", got)
	}
}

func TestStep_PublishesView(t *testing.T) {
	e := newTestEngine()
	fc := clock.NewFakeClock(time.Now())
	var views []game.View
	l := New(e, time.Second, WithClock(fc), WithObserver(func(v game.View) {
		views = append(views, v)
	}))
	l.last = fc.Now()

	l.step()
	l.step()
	if len(views) != 2 {
		t.Errorf("observer called %d times, want 2", len(views))
	}
}

func TestRun_DoExecutesOnLoop(t *testing.T) {
	e := newTestEngine()
	l := New(e, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	for i := 0; i < 3; i++ {
		if err := l.Do(ctx, func(e *game.Engine) { e.Click() }); err != nil {
			t.Fatalf("Do() error: %v", err)
		}
	}
	v, err := l.View(ctx)
	if err != nil {
		t.Fatalf("View() error: %v", err)
	}
	if v.Currency != 3 {
		t.Errorf("Currency = %d, want 3", v.Currency)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDo_AfterStop(t *testing.T) {
	l := New(newTestEngine(), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l.Run(ctx)

	err := l.Do(context.Background(), func(*game.Engine) {})
	if !errors.Is(err, ErrStopped) {
		t.Errorf("Do() after stop = %v, want ErrStopped", err)
	}
}

func TestDo_ConcurrentCallers(t *testing.T) {
	e := newTestEngine()
	l := New(e, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do(ctx, func(e *game.Engine) { e.Click() })
		}()
	}
	wg.Wait()

	v, _ := l.View(ctx)
	if v.Currency != 20 {
		t.Errorf("Currency = %d, want 20", v.Currency)
	}
}

func TestDo_CancelAfterAcceptStillReportsRun(t *testing.T) {
	e := newTestEngine()
	l := New(e, time.Hour)
	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go l.Run(runCtx)

	ctx, cancel := context.WithCancel(context.Background())
	err := l.Do(ctx, func(e *game.Engine) {
		cancel()
		e.Click()
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil once the command ran", err)
	}

	v, err := l.View(runCtx)
	if err != nil {
		t.Fatalf("View() error: %v", err)
	}
	if v.Currency != 1 {
		t.Errorf("Currency = %d, want 1", v.Currency)
	}
}
