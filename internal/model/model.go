package model

import (
	"encoding/json"
	"time"

	"github.com/freeeve/hexsettlers/pkg/catan"
)

// Game status values.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Game is a hosted game. State holds the latest engine snapshot so a game
// survives a restart even when the cache is empty. Seed drives the engine's
// dice and draws and is never sent to clients.
type Game struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Seed       int64           `json:"-"`
	Config     catan.Config    `json:"config"`
	Seats      []Seat          `json:"seats"`
	Winner     *int            `json:"winner,omitempty"`
	State      json.RawMessage `json:"-"`
	MoveCount  int             `json:"move_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Seat describes who plays one of the four places at the table.
type Seat struct {
	Index    int              `json:"index"`
	Name     string           `json:"name"`
	Color    catan.Color      `json:"color"`
	Kind     catan.PlayerKind `json:"kind"`
	Strategy string           `json:"strategy,omitempty"`
}

// Move is one accepted action, in the order the engine applied it.
type Move struct {
	ID        int64        `json:"id"`
	GameID    string       `json:"game_id"`
	Seq       int          `json:"seq"`
	Player    int          `json:"player"`
	Action    catan.Action `json:"action"`
	Phase     catan.Phase  `json:"phase"`
	Roll      int          `json:"roll,omitempty"`
	Bot       bool         `json:"bot"`
	CreatedAt time.Time    `json:"created_at"`
}

// Result is the outcome of one finished arena or hosted game.
type Result struct {
	ID         string                   `json:"id"`
	GameID     string                   `json:"game_id"`
	Seed       int64                    `json:"seed"`
	Strategies [catan.NumPlayers]string `json:"strategies"`
	Points     [catan.NumPlayers]int    `json:"points"`
	Winner     int                      `json:"winner"`
	Turns      int                      `json:"turns"`
	Steps      int                      `json:"steps"`
	Fallbacks  int                      `json:"fallbacks"`
	Duration   time.Duration            `json:"duration"`
	FinishedAt time.Time                `json:"finished_at"`
}

// StrategyStats aggregates results for one strategy.
type StrategyStats struct {
	Strategy  string  `json:"strategy" db:"strategy"`
	Games     int     `json:"games" db:"games"`
	Wins      int     `json:"wins" db:"wins"`
	AvgPoints float64 `json:"avg_points" db:"avg_points"`
}
