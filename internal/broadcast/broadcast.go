package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"mulletclicker/internal/events"
)

// Message is one server-sent event: an event name and a JSON data line.
type Message struct {
	Event string
	Data  string
}

// Broadcaster fans messages out to SSE subscribers of one session.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan Message]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Message]bool),
	}
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	if b.clients[ch] {
		delete(b.clients, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Broadcaster) Broadcast(event, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}

// Publish encodes payload as JSON and broadcasts it under event.
func (b *Broadcaster) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Broadcast] Marshal error: %v\n", err)
		return
	}
	b.Broadcast(event, string(data))
}

// Forward relays engine events from bus until ctx is done, each under its
// own type name.
func (b *Broadcaster) Forward(ctx context.Context, bus *events.Bus) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-bus.Events:
			b.Publish(string(ev.Type), ev)
		}
	}
}
