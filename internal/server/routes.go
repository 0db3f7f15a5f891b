package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"mulletclicker/internal/config"
	"mulletclicker/internal/db"
	"mulletclicker/internal/events"
	"mulletclicker/internal/game"
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/metrics"
	"mulletclicker/internal/saves"
	"mulletclicker/internal/sessions"
	"mulletclicker/internal/upgrades"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func Run() error {
	appCfg := config.Load()

	srv, cleanup, err := Setup(appCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

// Setup builds a Server from appCfg. The returned func stops every session and
// the journal writer.
func Setup(appCfg config.Config) (*Server, func(), error) {
	variant := game.Variant(appCfg.Variant)
	if variant != game.VariantClassic && variant != game.VariantExtended {
		return nil, nil, fmt.Errorf("unknown variant %q", appCfg.Variant)
	}

	gameCfg := game.DefaultConfig(variant)
	gameCfg.AutoLoad = appCfg.AutoLoad
	if appCfg.TuningFile != "" {
		tuned, err := game.LoadTuning(appCfg.TuningFile, gameCfg)
		if err != nil {
			return nil, nil, err
		}
		gameCfg = tuned
	}

	catalog := game.CatalogFor(variant)
	if appCfg.CatalogFile != "" {
		loaded, err := upgrades.LoadCatalog(appCfg.CatalogFile)
		if err != nil {
			return nil, nil, err
		}
		catalog = loaded
	}

	// Optional database connection
	var (
		database *db.DB
		kv       saves.KV
	)
	if appCfg.DatabaseURL != "" {
		conn, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else if err := conn.Migrate(); err != nil {
			log.Printf("[DB] Migration failed: %v (running without database)\n", err)
			conn.Close()
		} else {
			database = conn
			kv = conn
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}
	if kv == nil && appCfg.DataDir != "" {
		fileKV, err := saves.NewFileKV(appCfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		kv = fileKV
		log.Printf("[Save] Writing saves to %s\n", appCfg.DataDir)
	}
	if kv == nil {
		kv = saves.NewMemoryKV()
		log.Println("[Save] No DATA_DIR set, saves are kept in memory")
	}

	srv := newServer(gameCfg, catalog, kv, appCfg.Tick, database)

	stop := make(chan struct{})
	if srv.Journal != nil {
		go srv.Journal.Run(stop)
	}
	cleanup := func() {
		srv.Sessions.Close()
		close(stop)
		if database != nil {
			database.Close()
		}
	}
	return srv, cleanup, nil
}

func newServer(gameCfg game.Config, catalog *upgrades.Catalog, kv saves.KV, tick time.Duration, database *db.DB) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	board := leaderboard.New()
	board.Replace(saves.NewStore(kv, "").LoadLeaderboard())

	var journal *db.JournalWriter
	if database != nil {
		journal = db.NewJournalWriter(database)
	}

	store := sessions.NewStore(sessions.Options{
		Game:    gameCfg,
		Catalog: catalog,
		Board:   board,
		KV:      kv,
		Tick:    tick,

		Notifier: func(code, id string) events.Notifier {
			if journal == nil {
				return rec
			}
			return events.Multi{rec, events.NotifierFunc(func(ev events.Event) {
				if ev.Type == events.TypeSaved {
					return
				}
				journal.Enqueue(db.EntryFromEvent(id, code, ev, time.Now()))
			})}
		},

		OnOpen:  func(*sessions.Session) { rec.SessionOpened() },
		OnClose: func(*sessions.Session) { rec.SessionClosed() },
	})

	return &Server{
		Sessions: store,
		Board:    board,
		Game:     gameCfg,
		Catalog:  catalog,
		Metrics:  rec,
		Registry: reg,
		DB:       database,
		Journal:  journal,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /session/{code}/state", s.handleState)
	mux.HandleFunc("POST /session/{code}/click", s.handleClick)
	mux.HandleFunc("POST /session/{code}/buy/{id}", s.handleBuy)
	mux.HandleFunc("POST /session/{code}/hit/{id}", s.handleHit)
	mux.HandleFunc("POST /session/{code}/submit", s.handleSubmit)
	mux.HandleFunc("POST /session/{code}/reset", s.handleReset)
	mux.HandleFunc("GET /session/{code}/events", s.handleEvents)
	mux.HandleFunc("GET /session/{code}/ws", s.handleWS)
	mux.HandleFunc("GET /session/{code}/stats", s.handleSessionStats)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /runs/top", s.handleTopRuns)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler(s.Registry))
	return mux
}
