package events

// Type names a change the engine reports to its presentation adapter.
type Type string

const (
	TypeClick          = Type("click")
	TypeAutoAccrued    = Type("auto_accrued")
	TypePurchased      = Type("purchased")
	TypeStageChanged   = Type("stage_changed")
	TypeTargetSpawned  = Type("target_spawned")
	TypeTargetHit      = Type("target_hit")
	TypeTargetRemoved  = Type("target_removed")
	TypeGameWon        = Type("game_won")
	TypeScoreSubmitted = Type("score_submitted")
	TypeReset          = Type("reset")
	TypeSaved          = Type("saved")
)

type Event struct {
	Type      Type    `json:"type"`
	Amount    int64   `json:"amount,omitempty"`
	UpgradeID string  `json:"upgradeId,omitempty"`
	Level     int     `json:"level,omitempty"`
	TargetID  int     `json:"targetId,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Elapsed   float64 `json:"elapsed,omitempty"` // engine seconds since the run started
	Name      string  `json:"name,omitempty"`
}

// Notifier receives engine events. Implementations must not block.
type Notifier interface {
	Notify(ev Event)
}

type NotifierFunc func(ev Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}

type nop struct{}

func (nop) Notify(Event) {}

// Nop discards every event.
var Nop Notifier = nop{}

// Bus buffers events for a consumer goroutine. Events are dropped when the
// buffer is full so the engine never waits on a slow reader.
type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{
		Events: make(chan Event, 64),
	}
}

func (b *Bus) Notify(ev Event) {
	select {
	case b.Events <- ev:
	default:
	}
}
