// handlers/feed.go - Live activity feed over websocket
package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedEvent is one activity feed item pushed to connected clients.
type FeedEvent struct {
	Type      string      `json:"type"` // climb_logged, badge_earned
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type feedHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

var hub = &feedHub{
	clients: make(map[*websocket.Conn]bool),
}

func (h *feedHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *feedHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *feedHub) broadcast(event FeedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("feed: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
			_ = conn.Close()
		}
	}
}

// BroadcastFeedEvent pushes an event to all connected feed clients.
func BroadcastFeedEvent(event FeedEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	hub.broadcast(event)
}

// FeedUpgradeRequired rejects non-websocket requests to the feed route
func FeedUpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedHandler keeps a feed connection open and discards client messages.
// The feed is one-way; clients only listen.
var FeedHandler = websocket.New(func(conn *websocket.Conn) {
	hub.add(conn)
	defer func() {
		hub.remove(conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
})
