package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/service"
)

// Event types sent over WebSocket.
const (
	EventConnected   = "connected"
	EventGameUpdated = "game_updated"
	EventDiceRolled  = "dice_rolled"
	EventGameOver    = "game_over"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Data   any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	GameID string `json:"game_id"`
}

// WSConn wraps a WebSocket connection. A connection opened with a seat
// token holds that seat in the token's game and watches every other game
// as a spectator.
type WSConn struct {
	conn   *websocket.Conn
	id     string
	gameID string
	seat   int
	send   chan []byte
}

// seatIn returns the seat c plays in gameID, or service.Spectator.
func (c *WSConn) seatIn(gameID string) int {
	if c.gameID == "" || c.gameID != gameID {
		return service.Spectator
	}
	return c.seat
}

// Hub tracks connections and which games each one watches.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	watchers    map[string]map[*WSConn]bool // gameID -> watching connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		watchers:    make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection and subscribes it to its seat's game.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if c.gameID != "" {
		h.watch(c, c.gameID)
	}
}

// Unregister removes a connection from the hub and all its subscriptions.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	for gameID := range h.watchers {
		h.unwatch(c, gameID)
	}
	close(c.send)
}

// Subscribe starts sending a game's events to a registered connection.
func (h *Hub) Subscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		h.watch(c, gameID)
	}
}

// Unsubscribe stops sending a game's events to a connection.
func (h *Hub) Unsubscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unwatch(c, gameID)
}

func (h *Hub) watch(c *WSConn, gameID string) {
	if h.watchers[gameID] == nil {
		h.watchers[gameID] = make(map[*WSConn]bool)
	}
	h.watchers[gameID][c] = true
}

func (h *Hub) unwatch(c *WSConn, gameID string) {
	conns, ok := h.watchers[gameID]
	if !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.watchers, gameID)
	}
}

// BroadcastToGame sends the same event to every connection watching a game.
func (h *Hub) BroadcastToGame(gameID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.watchers[gameID] {
		h.deliver(c, gameID, data)
	}
}

// BroadcastSeats sends every connection watching a game the event payload
// built for its seat. payload runs at most once per seat.
func (h *Hub) BroadcastSeats(gameID, eventType string, payload func(seat int) any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	encoded := make(map[int][]byte)
	for c := range h.watchers[gameID] {
		seat := c.seatIn(gameID)
		data, ok := encoded[seat]
		if !ok {
			var err error
			data, err = json.Marshal(WSEvent{Type: eventType, GameID: gameID, Data: payload(seat)})
			if err != nil {
				log.Error().Err(err).Str("gameId", gameID).Int("seat", seat).Msg("Failed to marshal WebSocket event")
				return
			}
			encoded[seat] = data
		}
		h.deliver(c, gameID, data)
	}
}

// deliver queues data without blocking. Slow consumers drop messages
// rather than stall the game.
func (h *Hub) deliver(c *WSConn, gameID string, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("connId", c.id).Str("gameId", gameID).Msg("Dropping WebSocket message, buffer full")
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// GameSubscriberCount returns the number of connections watching a game.
func (h *Hub) GameSubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[gameID])
}
