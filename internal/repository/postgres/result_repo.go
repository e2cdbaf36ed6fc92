package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freeeve/hexsettlers/internal/model"
)

// ResultRepo stores finished game outcomes.
type ResultRepo struct {
	db *sql.DB
}

// NewResultRepo creates a ResultRepo.
func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveResult inserts a result and one row per seat for aggregation.
func (r *ResultRepo) SaveResult(ctx context.Context, res *model.Result) error {
	strategies, err := json.Marshal(res.Strategies)
	if err != nil {
		return fmt.Errorf("encode strategies: %w", err)
	}
	points, err := json.Marshal(res.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, game_id, seed, strategies, points, winner, turns, steps, fallbacks, duration_ms, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.ID, res.GameID, res.Seed, strategies, points, res.Winner, res.Turns, res.Steps,
		res.Fallbacks, res.Duration.Milliseconds(), res.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	for seat, strategy := range res.Strategies {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO result_seats (result_id, seat, strategy, points, won) VALUES ($1, $2, $3, $4, $5)`,
			res.ID, seat, strategy, res.Points[seat], res.Winner == seat)
		if err != nil {
			return fmt.Errorf("insert result seat %d: %w", seat, err)
		}
	}
	return tx.Commit()
}

// ListResults returns the most recent results.
func (r *ResultRepo) ListResults(ctx context.Context, limit int) ([]model.Result, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, seed, strategies, points, winner, turns, steps, fallbacks, duration_ms, finished_at
		 FROM results ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []model.Result
	for rows.Next() {
		var (
			res                model.Result
			strategies, points []byte
			ms                 int64
		)
		if err := rows.Scan(&res.ID, &res.GameID, &res.Seed, &strategies, &points, &res.Winner,
			&res.Turns, &res.Steps, &res.Fallbacks, &ms, &res.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(strategies, &res.Strategies); err != nil {
			return nil, fmt.Errorf("decode strategies: %w", err)
		}
		if err := json.Unmarshal(points, &res.Points); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		res.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, res)
	}
	return out, rows.Err()
}

// StrategyStats aggregates games, wins and average points per strategy.
func (r *ResultRepo) StrategyStats(ctx context.Context) ([]model.StrategyStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT strategy, COUNT(*), COUNT(*) FILTER (WHERE won), AVG(points)::float8
		 FROM result_seats GROUP BY strategy ORDER BY strategy`)
	if err != nil {
		return nil, fmt.Errorf("strategy stats: %w", err)
	}
	defer rows.Close()

	var out []model.StrategyStats
	for rows.Next() {
		var s model.StrategyStats
		if err := rows.Scan(&s.Strategy, &s.Games, &s.Wins, &s.AvgPoints); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
