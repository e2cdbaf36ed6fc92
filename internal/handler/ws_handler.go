package handler

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/service"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub      *Hub
	seats    *auth.SeatManager
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler accepting upgrades from the listed
// origins ("*" allows any).
func NewWSHandler(hub *Hub, seats *auth.SeatManager, allowedOrigins []string) *WSHandler {
	wildcard := slices.Contains(allowedOrigins, "*")
	return &WSHandler{
		hub:   hub,
		seats: seats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return wildcard || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWS handles GET /api/v1/ws. A ?token= seat token subscribes the
// connection to its game straight away and its game_updated events carry
// that seat's view. Other games are watched as a spectator by message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	seat, gameID := service.Spectator, ""
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		claims, err := h.seats.ValidateToken(tokenStr)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		seat, gameID = claims.Seat, claims.GameID
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:   conn,
		id:     uuid.NewString(),
		gameID: gameID,
		seat:   seat,
		send:   make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	welcome, _ := json.Marshal(WSEvent{
		Type:   EventConnected,
		GameID: gameID,
		Data:   map[string]any{"seat": seat},
	})
	client.send <- welcome

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("connId", client.id).Str("gameId", gameID).Int("seat", seat).
		Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads subscribe and unsubscribe messages until the connection
// drops.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("connId", c.id).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connId", c.id).Msg("WebSocket unexpected close")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.GameID == "" {
			continue
		}
		switch msg.Action {
		case "subscribe":
			h.hub.Subscribe(c, msg.GameID)
		case "unsubscribe":
			h.hub.Unsubscribe(c, msg.GameID)
		}
	}
}

// writePump writes queued events and keeps the connection alive with pings.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for range n {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
