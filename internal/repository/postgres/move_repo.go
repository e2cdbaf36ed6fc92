package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/freeeve/hexsettlers/internal/model"
)

// MoveRepo handles the per-game action history.
type MoveRepo struct {
	db *sql.DB
}

// NewMoveRepo creates a MoveRepo.
func NewMoveRepo(db *sql.DB) *MoveRepo {
	return &MoveRepo{db: db}
}

// Append stores one applied action and fills in its ID and timestamp.
func (r *MoveRepo) Append(ctx context.Context, m *model.Move) error {
	action, err := json.Marshal(m.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO moves (game_id, seq, player, action, phase, roll, bot)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		m.GameID, m.Seq, m.Player, action, string(m.Phase), m.Roll, m.Bot,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	return nil
}

// ListByGame returns a game's moves in the order they were applied.
func (r *MoveRepo) ListByGame(ctx context.Context, gameID string) ([]model.Move, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, seq, player, action, phase, roll, bot, created_at
		 FROM moves WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []model.Move
	for rows.Next() {
		var m model.Move
		var action []byte
		if err := rows.Scan(&m.ID, &m.GameID, &m.Seq, &m.Player, &action, &m.Phase, &m.Roll, &m.Bot, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if err := json.Unmarshal(action, &m.Action); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
