package game

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"mulletclicker/internal/clock"
	"mulletclicker/internal/events"
	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/players"
	"mulletclicker/internal/saves"
	"mulletclicker/internal/targets"
	"mulletclicker/internal/upgrades"
	"mulletclicker/internal/utility"
)

var (
	ErrNotWon           = errors.New("run has not been won")
	ErrAlreadySubmitted = errors.New("score already submitted for this run")
)

type Scene string

const (
	ScenePlaying = Scene("playing")
	SceneWon     = Scene("won")
)

// Persistence is where the engine snapshots state. Writes are fire-and-forget.
type Persistence interface {
	SaveGame(snap saves.Snapshot)
	LoadGame() (saves.Snapshot, bool)
	SaveLeaderboard(entries []leaderboard.Entry)
}

// RunStats counts what happened since the last reset.
type RunStats struct {
	Clicks       int   `json:"clicks"`
	ClickIncome  int64 `json:"clickIncome"`
	AutoIncome   int64 `json:"autoIncome"`
	TargetsHit   int   `json:"targetsHit"`
	TargetIncome int64 `json:"targetIncome"`
	Purchases    int   `json:"purchases"`
	Spent        int64 `json:"spent"`
}

// Engine is the progression state machine for one game. It is not safe for
// concurrent use: a single loop goroutine must own it.
type Engine struct {
	cfg      Config
	catalog  *upgrades.Catalog
	board    *leaderboard.Board
	player   *players.Player
	targets  *targets.Store
	notifier events.Notifier
	store    Persistence
	clock    clock.Clock
	rng      *rand.Rand
	format   utility.CurrencyFormatter

	now          float64 // seconds advanced since construction
	accumulator  float64
	spawnTimer   float64
	elapsed      float64
	timerStarted bool
	won          bool
	submitted    bool
	sinceSave    float64
	stats        RunStats
}

type Option func(*Engine)

func WithNotifier(n events.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithPersistence(p Persistence) Option {
	return func(e *Engine) { e.store = p }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func NewEngine(cfg Config, catalog *upgrades.Catalog, board *leaderboard.Board, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		catalog:  catalog,
		board:    board,
		player:   players.New(),
		notifier: events.Nop,
		clock:    clock.RealClock{},
		format:   utility.FormatterFor(cfg.CurrencyFormat),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.targets = targets.NewStore(e.rng)
	if cfg.AutoLoad {
		e.Load()
	}
	return e
}

// Advance moves the game forward by dt seconds: run timer, win check,
// auto-accrual, bonus targets, then autosave.
func (e *Engine) Advance(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	e.now += dt

	if !e.won && e.timerStarted {
		e.elapsed += dt
	}

	if !e.won && e.cfg.WinAmount > 0 && e.player.Currency >= e.cfg.WinAmount {
		e.win()
	}

	if !e.won {
		e.accrue(dt)
	}

	active := e.player.Stage >= upgrades.UnlockedStage && !e.won
	if active {
		e.spawnTimer -= dt
		if e.spawnTimer <= 0 {
			e.spawn()
		}
	}
	e.updateTargets(dt, active)

	if !e.won {
		e.sinceSave += dt
		if e.sinceSave >= e.cfg.AutosaveSecs {
			e.sinceSave = 0
			e.Save()
		}
	}
}

func (e *Engine) accrue(dt float64) {
	if e.player.AutoClickPower <= 0 {
		return
	}
	var gained int64
	switch e.cfg.Accrual {
	case AccrualPerTick:
		gained = e.player.AutoAccrue(dt)
	default:
		e.accumulator += dt
		if e.accumulator < 1 {
			return
		}
		whole := math.Floor(e.accumulator)
		gained = e.player.AddAuto(int64(whole))
		e.accumulator -= whole
	}
	if gained > 0 {
		e.stats.AutoIncome += gained
		e.notifier.Notify(events.Event{Type: events.TypeAutoAccrued, Amount: gained, Elapsed: e.elapsed})
	}
}

func (e *Engine) spawn() {
	t := e.targets.Spawn(e.cfg.Field, e.cfg.SpeedMin, e.cfg.SpeedMax, e.cfg.TargetReward, e.now)
	e.spawnTimer = e.cfg.SpawnMinSecs + e.rng.Float64()*(e.cfg.SpawnMaxSecs-e.cfg.SpawnMinSecs)
	e.notifier.Notify(events.Event{
		Type:     events.TypeTargetSpawned,
		TargetID: t.ID,
		X:        t.X,
		Y:        t.Y,
		Amount:   t.Reward,
	})
}

func (e *Engine) updateTargets(dt float64, move bool) {
	exited, expired := e.targets.Advance(dt, e.cfg.Field, move)
	for _, t := range exited {
		e.notifier.Notify(events.Event{Type: events.TypeTargetRemoved, TargetID: t.ID})
	}
	for _, t := range expired {
		e.notifier.Notify(events.Event{Type: events.TypeTargetRemoved, TargetID: t.ID, Amount: t.Reward})
	}
}

func (e *Engine) win() {
	e.won = true
	e.notifier.Notify(events.Event{
		Type:    events.TypeGameWon,
		Amount:  e.player.Currency,
		Elapsed: e.elapsed,
	})
}

// Click credits one manual click. The first click starts the run timer.
// Clicks after a win are ignored.
func (e *Engine) Click() int64 {
	if e.won {
		return 0
	}
	if !e.timerStarted {
		e.timerStarted = true
	}
	gained := e.player.Click()
	e.stats.Clicks++
	e.stats.ClickIncome += gained
	e.notifier.Notify(events.Event{Type: events.TypeClick, Amount: gained, Elapsed: e.elapsed})
	return gained
}

// Purchase buys one level of the upgrade id and saves on success.
func (e *Engine) Purchase(id string) bool {
	if e.won {
		return false
	}
	def, ok := e.catalog.Get(id)
	if !ok {
		return false
	}
	cost := e.player.NextCost(def)
	stage := e.player.Stage
	if !e.player.Purchase(def) {
		return false
	}
	e.stats.Purchases++
	e.stats.Spent += cost
	e.notifier.Notify(events.Event{
		Type:      events.TypePurchased,
		UpgradeID: id,
		Level:     e.player.LevelOf(id),
		Amount:    cost,
		Elapsed:   e.elapsed,
	})
	if e.player.Stage != stage {
		e.notifier.Notify(events.Event{Type: events.TypeStageChanged, Level: e.player.Stage})
	}
	e.Save()
	return true
}

// HitTarget resolves an interaction with a bonus target. Only the first hit
// on a live target pays out.
func (e *Engine) HitTarget(id int) (int64, bool) {
	if e.won {
		return 0, false
	}
	t, ok := e.targets.Hit(id, e.cfg.GraceSecs)
	if !ok {
		return 0, false
	}
	e.player.Credit(t.Reward)
	e.stats.TargetsHit++
	e.stats.TargetIncome += t.Reward
	e.notifier.Notify(events.Event{
		Type:     events.TypeTargetHit,
		TargetID: t.ID,
		Amount:   t.Reward,
		X:        t.X,
		Y:        t.Y,
		Elapsed:  e.elapsed,
	})
	return t.Reward, true
}

// HitOldestTarget hits the earliest spawned live target, if any.
func (e *Engine) HitOldestTarget() (int64, bool) {
	t, ok := e.targets.Oldest()
	if !ok {
		return 0, false
	}
	return e.HitTarget(t.ID)
}

// SubmitScore records the won run's time on the leaderboard, once per run.
func (e *Engine) SubmitScore(name string) (leaderboard.Entry, error) {
	if !e.won {
		return leaderboard.Entry{}, ErrNotWon
	}
	if e.submitted {
		return leaderboard.Entry{}, ErrAlreadySubmitted
	}
	entry := e.board.Submit(name, e.elapsed, e.clock.Now())
	e.submitted = true
	if e.store != nil {
		e.store.SaveLeaderboard(e.board.Entries())
	}
	e.notifier.Notify(events.Event{
		Type:    events.TypeScoreSubmitted,
		Name:    entry.Name,
		Elapsed: entry.Time,
	})
	return entry, nil
}

// Reset starts a fresh run. The leaderboard is left alone.
func (e *Engine) Reset() {
	e.player = players.New()
	e.targets.Clear()
	e.accumulator = 0
	e.spawnTimer = 0
	e.elapsed = 0
	e.timerStarted = false
	e.won = false
	e.submitted = false
	e.sinceSave = 0
	e.stats = RunStats{}
	e.notifier.Notify(events.Event{Type: events.TypeReset})
}

// Save writes a snapshot of the player through the persistence adapter.
func (e *Engine) Save() {
	if e.store == nil {
		return
	}
	e.store.SaveGame(saves.Snapshot{
		Player:    e.player.Snapshot(),
		Timestamp: e.clock.Now().UnixMilli(),
		Version:   saves.Version,
	})
	e.notifier.Notify(events.Event{Type: events.TypeSaved})
}

// Load replaces the player with the stored save. It reports false and keeps
// the current state when there is no usable save.
func (e *Engine) Load() bool {
	if e.store == nil {
		return false
	}
	snap, ok := e.store.LoadGame()
	if !ok {
		return false
	}
	e.player = players.FromSnapshot(snap.Player, e.catalog)
	return true
}

func (e *Engine) Won() bool {
	return e.won
}

func (e *Engine) Elapsed() float64 {
	return e.elapsed
}

func (e *Engine) Stats() RunStats {
	return e.stats
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Catalog() *upgrades.Catalog {
	return e.catalog
}

// Player returns a copy of the current player state.
func (e *Engine) Player() *players.Player {
	return e.player.Clone()
}
