package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"mulletclicker/internal/config"
	"mulletclicker/internal/events"
	"mulletclicker/internal/game"
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/loop"
	"mulletclicker/internal/saves"
	"mulletclicker/internal/tui"
	"mulletclicker/internal/upgrades"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err.Error())
	}
}

func run() error {
	appCfg := config.Load()

	variant := game.Variant(appCfg.Variant)
	cfg := game.DefaultConfig(variant)
	cfg.AutoLoad = true
	if appCfg.TuningFile != "" {
		tuned, err := game.LoadTuning(appCfg.TuningFile, cfg)
		if err != nil {
			return err
		}
		cfg = tuned
	}
	catalog := game.CatalogFor(variant)
	if appCfg.CatalogFile != "" {
		loaded, err := upgrades.LoadCatalog(appCfg.CatalogFile)
		if err != nil {
			return err
		}
		catalog = loaded
	}

	dataDir := appCfg.DataDir
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(base, "mulletclicker")
	}
	kv, err := saves.NewFileKV(dataDir)
	if err != nil {
		return err
	}
	store := saves.NewStore(kv, "tui:")

	// tcell owns the terminal, so logs go to a file next to the saves.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	board := leaderboard.New()
	board.Replace(store.LoadLeaderboard())

	var notifier events.Notifier = events.Nop
	if sounds, err := tui.NewSounds(0.3); err != nil {
		log.Printf("[Audio] disabled: %v\n", err)
	} else {
		defer sounds.Close()
		notifier = sounds
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	name := os.Getenv("PLAYER_NAME")
	if name == "" {
		name = os.Getenv("USER")
	}

	engine := game.NewEngine(cfg, catalog, board,
		game.WithNotifier(notifier),
		game.WithPersistence(store),
	)
	app := tui.New(screen, name)
	lp := loop.New(engine, appCfg.Tick, loop.WithObserver(app.Observe))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = app.Run(ctx, lp)
	engine.Save()
	return err
}
