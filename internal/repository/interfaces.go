package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freeeve/hexsettlers/internal/model"
)

// GameRepository stores hosted games. Finders return nil, nil when nothing
// matches.
type GameRepository interface {
	Create(ctx context.Context, g *model.Game) error
	FindByID(ctx context.Context, id string) (*model.Game, error)
	List(ctx context.Context, status string, limit int) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	SaveState(ctx context.Context, id string, state json.RawMessage, moveCount int) error
	SetFinished(ctx context.Context, id string, winner int) error
}

// MoveRepository appends and reads the action history of a game.
type MoveRepository interface {
	Append(ctx context.Context, m *model.Move) error
	ListByGame(ctx context.Context, gameID string) ([]model.Move, error)
}

// ResultRepository records finished games for strategy comparison.
type ResultRepository interface {
	SaveResult(ctx context.Context, r *model.Result) error
	ListResults(ctx context.Context, limit int) ([]model.Result, error)
	StrategyStats(ctx context.Context) ([]model.StrategyStats, error)
}

// GameCache holds live game state (Redis).
type GameCache interface {
	SetSnapshot(ctx context.Context, gameID string, snap json.RawMessage) error
	GetSnapshot(ctx context.Context, gameID string) (json.RawMessage, error)
	NextMoveSeq(ctx context.Context, gameID string) (int64, error)
	SetMoveSeq(ctx context.Context, gameID string, seq int64) error
	AcquireLock(ctx context.Context, gameID, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, gameID, owner string) error
	DeleteGameData(ctx context.Context, gameID string) error
}
