package wshub

import (
	"errors"
	"fmt"
	"strconv"

	"mulletclicker/internal/game"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrRejected       = errors.New("action rejected")
)

// Apply performs a client message against the engine. It must run on the
// goroutine that owns e.
func Apply(e *game.Engine, msg ClientMessage) error {
	switch msg.Type {
	case "click":
		if e.Won() {
			return ErrRejected
		}
		e.Click()
	case "buy":
		if !e.Purchase(msg.ID) {
			return fmt.Errorf("buying %q: %w", msg.ID, ErrRejected)
		}
	case "hit":
		if msg.ID == "" {
			if _, ok := e.HitOldestTarget(); !ok {
				return ErrRejected
			}
			return nil
		}
		id, err := strconv.Atoi(msg.ID)
		if err != nil {
			return fmt.Errorf("parsing target id %q: %w", msg.ID, err)
		}
		if _, ok := e.HitTarget(id); !ok {
			return fmt.Errorf("hitting target %d: %w", id, ErrRejected)
		}
	case "submit":
		if _, err := e.SubmitScore(msg.Name); err != nil {
			return err
		}
	case "reset":
		e.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}
