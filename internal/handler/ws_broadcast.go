package handler

import "github.com/freeeve/hexsettlers/internal/service"

var _ service.Broadcaster = (*Hub)(nil)

// BroadcastGameEvent sends one payload to every watcher of a game.
func (h *Hub) BroadcastGameEvent(gameID string, eventType string, data any) {
	h.BroadcastToGame(gameID, WSEvent{
		Type:   eventType,
		GameID: gameID,
		Data:   data,
	})
}

// BroadcastGameView sends seated watchers their own view and everyone
// else the spectator view.
func (h *Hub) BroadcastGameView(gameID string, eventType string, view func(seat int) any) {
	h.BroadcastSeats(gameID, eventType, view)
}
