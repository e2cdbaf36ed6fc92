package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/pkg/catan"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type   string         `json:"type"`
	GameID string         `json:"game_id"`
	Data   map[string]any `json:"data"`
}

// RemoteView is the part of a seat's game view a remote player acts on.
type RemoteView struct {
	Seat   int            `json:"seat"`
	Phase  catan.Phase    `json:"phase"`
	Actor  int            `json:"actor"`
	Winner *int           `json:"winner"`
	Legal  []catan.Action `json:"legal"`
}

// Client is an HTTP+WebSocket client for one seat of a hosted game.
type Client struct {
	name     string
	baseURL  string
	gameID   string
	seat     int
	token    string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a new client targeting the given server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the player name.
func (c *Client) Name() string { return c.name }

// GameID returns the game the client plays in.
func (c *Client) GameID() string { return c.gameID }

// Seat returns the seat the client plays.
func (c *Client) Seat() int { return c.seat }

// UseSeat sets an existing game, seat and seat token.
func (c *Client) UseSeat(gameID string, seat int, token string) {
	c.gameID, c.seat, c.token = gameID, seat, token
}

// CreateGame creates a game with this client in seat 0 and bots playing
// the named strategies in the other seats. The first seat token returned
// becomes the client's.
func (c *Client) CreateGame(name string, opponents [catan.NumPlayers - 1]string, seed int64) error {
	seats := []map[string]any{{"name": c.name}}
	for _, s := range opponents {
		seats = append(seats, map[string]any{"bot": true, "strategy": s})
	}
	var created struct {
		Game struct {
			ID string `json:"id"`
		} `json:"game"`
		Tokens map[int]string `json:"tokens"`
	}
	payload := map[string]any{"name": name, "seats": seats, "seed": seed}
	if err := c.do(http.MethodPost, "/api/v1/games", payload, &created); err != nil {
		return err
	}
	for seat, tok := range created.Tokens {
		c.UseSeat(created.Game.ID, seat, tok)
		return nil
	}
	return fmt.Errorf("game %s has no client seat", created.Game.ID)
}

// View fetches the game from this client's seat.
func (c *Client) View() (*RemoteView, error) {
	var v RemoteView
	if err := c.do(http.MethodGet, "/api/v1/games/"+c.gameID+"/view", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Act submits an action and returns the view after bots have replied.
func (c *Client) Act(a catan.Action) (*RemoteView, error) {
	var v RemoteView
	if err := c.do(http.MethodPost, "/api/v1/games/"+c.gameID+"/actions", a, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ConnectWS opens a WebSocket connection subscribed to the client's game.
func (c *Client) ConnectWS() error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("player", c.name).Msg("WS read error")
			}
			return
		}
		// The server may batch several events into one frame.
		for _, line := range bytes.Split(msg, []byte("\n")) {
			var event WSEvent
			if err := json.Unmarshal(line, &event); err != nil {
				continue
			}
			select {
			case c.events <- event:
			default:
			}
		}
	}
}

// do sends a request with the seat token and decodes the JSON response
// into out.
func (c *Client) do(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
