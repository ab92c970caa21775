// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"jobmatch-service/internal/domain/notification"

	"go.uber.org/zap"
)

// Event is the wire frame pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans notification events out to each user's open connections.
type Hub struct {
	clients map[string]map[*Client]bool // user id -> connections
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run owns the client registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.String("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Push delivers a notification to every open connection of the user.
// Slow clients are skipped rather than blocking delivery to others.
func (h *Hub) Push(userID string, n *notification.Notification) {
	data, err := json.Marshal(Event{Type: "notification", Payload: n})
	if err != nil {
		h.logger.Error("failed to marshal notification event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("dropping event for slow websocket client",
				zap.String("user_id", userID),
			)
		}
	}
}

// ConnectedUsers reports how many distinct users hold open connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
