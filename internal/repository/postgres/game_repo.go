package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/freeeve/hexsettlers/internal/model"
)

// GameRepo handles game database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

const gameColumns = `id, name, status, seed, config, seats, winner, state, move_count, created_at, updated_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*model.Game, error) {
	var (
		g          model.Game
		cfg, seats []byte
		state      []byte
		winner     sql.NullInt64
	)
	err := row.Scan(&g.ID, &g.Name, &g.Status, &g.Seed, &cfg, &seats, &winner, &state,
		&g.MoveCount, &g.CreatedAt, &g.UpdatedAt, &g.FinishedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cfg, &g.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := json.Unmarshal(seats, &g.Seats); err != nil {
		return nil, fmt.Errorf("decode seats: %w", err)
	}
	if winner.Valid {
		w := int(winner.Int64)
		g.Winner = &w
	}
	if len(state) > 0 {
		g.State = json.RawMessage(state)
	}
	return &g, nil
}

// Create inserts a new game. CreatedAt and UpdatedAt are filled in.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) error {
	cfg, err := json.Marshal(g.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	seats, err := json.Marshal(g.Seats)
	if err != nil {
		return fmt.Errorf("encode seats: %w", err)
	}
	var state any
	if len(g.State) > 0 {
		state = []byte(g.State)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO games (id, name, status, seed, config, seats, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		g.ID, g.Name, g.Status, g.Seed, cfg, seats, state,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// FindByID returns a game by ID.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	return g, nil
}

// List returns games with the given status, newest first. An empty status
// lists every game.
func (r *GameRepo) List(ctx context.Context, status string, limit int) ([]model.Game, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, "list games",
		`SELECT `+gameColumns+` FROM games
		 WHERE $1 = '' OR status = $1
		 ORDER BY created_at DESC LIMIT $2`, status, limit)
}

// ListActive returns every unfinished game, oldest first.
func (r *GameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	return r.query(ctx, "list active games",
		`SELECT `+gameColumns+` FROM games WHERE status = 'active' ORDER BY created_at`)
}

func (r *GameRepo) query(ctx context.Context, op, q string, args ...any) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// SaveState stores the latest engine snapshot.
func (r *GameRepo) SaveState(ctx context.Context, id string, state json.RawMessage, moveCount int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET state = $2, move_count = $3, updated_at = now() WHERE id = $1`,
		id, []byte(state), moveCount)
	if err != nil {
		return fmt.Errorf("save game state: %w", err)
	}
	return nil
}

// SetFinished marks a game as finished with a winner.
func (r *GameRepo) SetFinished(ctx context.Context, id string, winner int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = $2, finished_at = now(), updated_at = now()
		 WHERE id = $1`, id, winner)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}
