// Package realtime delivers notifications to connected clients over
// WebSocket. The hub implements the NotificationSink consumed by the
// domain event handlers; delivery failures never propagate back to the
// operation that raised the event.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients keyed by user ID and pushes
// payloads to them.
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and departures.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug().Int64("userID", client.userID).Msg("WebSocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug().Int64("userID", client.userID).Msg("WebSocket client unregistered")
		}
	}
}

// Push delivers a payload to every open connection of a user. A user
// with no connections is not an error; the persisted notification row is
// the durable copy.
func (h *Hub) Push(userID int64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop the connection rather than block the hub.
			h.unregister <- client
		}
	}

	return nil
}
