package service

// Broadcaster sends real-time events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data any)
	// BroadcastGameView sends each subscriber the payload view returns for
	// its seat. view is only called before BroadcastGameView returns.
	BroadcastGameView(gameID string, eventType string, view func(seat int) any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}

func (NoopBroadcaster) BroadcastGameView(string, string, func(int) any) {}
