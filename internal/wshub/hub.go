package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"mulletclicker/internal/events"
	"mulletclicker/internal/game"

	"github.com/coder/websocket"
)

// ClientMessage is the JSON structure received from clients.
//
//	{"t":"click"}
//	{"t":"buy","id":"auto_clicker"}
//	{"t":"hit","id":"3"}       (empty id hits the oldest live target)
//	{"t":"submit","n":"Levi"}
//	{"t":"reset"}
type ClientMessage struct {
	Type string `json:"t"`
	ID   string `json:"id,omitempty"`
	Name string `json:"n,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type  string        `json:"t"` // state, event or error
	View  *game.View    `json:"v,omitempty"`
	Event *events.Event `json:"e,omitempty"`
	Error string        `json:"err,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub manages the WebSocket connections watching one session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client. Non-blocking: drops if a channel is full.
func (h *Hub) Broadcast(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// SendTo delivers a message to one client, dropping it if the channel is full.
func (h *Hub) SendTo(id string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[id]; ok {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Notify implements events.Notifier by pushing engine events to every client.
func (h *Hub) Notify(ev events.Event) {
	h.Broadcast(ServerMessage{Type: "event", Event: &ev})
}

// PushState sends the current view to every client.
func (h *Hub) PushState(v game.View) {
	h.Broadcast(ServerMessage{Type: "state", View: &v})
}
