// Package sqlite stores arena results and move logs in a local SQLite file,
// for bot matches run without a database server.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// timeFormat has fixed width so text columns sort chronologically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; arena workers share the handle.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		strategies_json TEXT NOT NULL,
		points_json TEXT NOT NULL,
		winner INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		fallbacks INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS result_seats (
		result_id TEXT NOT NULL,
		seat INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		points INTEGER NOT NULL,
		won INTEGER NOT NULL,
		PRIMARY KEY (result_id, seat)
	);

	CREATE TABLE IF NOT EXISTS moves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		player INTEGER NOT NULL,
		action_json TEXT NOT NULL,
		phase TEXT NOT NULL,
		roll INTEGER NOT NULL,
		bot INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (game_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_results_finished ON results(finished_at);
	CREATE INDEX IF NOT EXISTS idx_result_seats_strategy ON result_seats(strategy);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type resultRow struct {
	ID         string `db:"id"`
	GameID     string `db:"game_id"`
	Seed       int64  `db:"seed"`
	Strategies string `db:"strategies_json"`
	Points     string `db:"points_json"`
	Winner     int    `db:"winner"`
	Turns      int    `db:"turns"`
	Steps      int    `db:"steps"`
	Fallbacks  int    `db:"fallbacks"`
	DurationMS int64  `db:"duration_ms"`
	FinishedAt string `db:"finished_at"`
}

type seatRow struct {
	ResultID string `db:"result_id"`
	Seat     int    `db:"seat"`
	Strategy string `db:"strategy"`
	Points   int    `db:"points"`
	Won      bool   `db:"won"`
}

// SaveResult inserts a result and its per-seat rows.
func (db *DB) SaveResult(ctx context.Context, r *model.Result) error {
	strategies, _ := json.Marshal(r.Strategies)
	points, _ := json.Marshal(r.Points)

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := resultRow{
		ID:         r.ID,
		GameID:     r.GameID,
		Seed:       r.Seed,
		Strategies: string(strategies),
		Points:     string(points),
		Winner:     r.Winner,
		Turns:      r.Turns,
		Steps:      r.Steps,
		Fallbacks:  r.Fallbacks,
		DurationMS: r.Duration.Milliseconds(),
		FinishedAt: r.FinishedAt.UTC().Format(timeFormat),
	}
	_, err = tx.NamedExecContext(ctx, `INSERT INTO results
		(id, game_id, seed, strategies_json, points_json, winner, turns, steps, fallbacks, duration_ms, finished_at)
		VALUES (:id, :game_id, :seed, :strategies_json, :points_json, :winner, :turns, :steps, :fallbacks, :duration_ms, :finished_at)`,
		row)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.ID, err)
	}

	seats := make([]seatRow, len(r.Strategies))
	for i, s := range r.Strategies {
		seats[i] = seatRow{ResultID: r.ID, Seat: i, Strategy: s, Points: r.Points[i], Won: r.Winner == i}
	}
	_, err = tx.NamedExecContext(ctx, `INSERT INTO result_seats (result_id, seat, strategy, points, won)
		VALUES (:result_id, :seat, :strategy, :points, :won)`, seats)
	if err != nil {
		return fmt.Errorf("insert result seats %s: %w", r.ID, err)
	}
	return tx.Commit()
}

// ListResults returns the most recent results.
func (db *DB) ListResults(ctx context.Context, limit int) ([]model.Result, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []resultRow
	if err := db.conn.SelectContext(ctx, &rows,
		`SELECT * FROM results ORDER BY finished_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]model.Result, 0, len(rows))
	for _, row := range rows {
		r := model.Result{
			ID:        row.ID,
			GameID:    row.GameID,
			Seed:      row.Seed,
			Winner:    row.Winner,
			Turns:     row.Turns,
			Steps:     row.Steps,
			Fallbacks: row.Fallbacks,
			Duration:  time.Duration(row.DurationMS) * time.Millisecond,
		}
		if err := json.Unmarshal([]byte(row.Strategies), &r.Strategies); err != nil {
			return nil, fmt.Errorf("decode strategies: %w", err)
		}
		if err := json.Unmarshal([]byte(row.Points), &r.Points); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		r.FinishedAt, _ = time.Parse(timeFormat, row.FinishedAt)
		out = append(out, r)
	}
	return out, nil
}

// StrategyStats aggregates games, wins and average points per strategy.
func (db *DB) StrategyStats(ctx context.Context) ([]model.StrategyStats, error) {
	var out []model.StrategyStats
	err := db.conn.SelectContext(ctx, &out,
		`SELECT strategy, COUNT(*) AS games, SUM(won) AS wins, AVG(points) AS avg_points
		 FROM result_seats GROUP BY strategy ORDER BY strategy`)
	if err != nil {
		return nil, fmt.Errorf("strategy stats: %w", err)
	}
	return out, nil
}

type moveRow struct {
	ID        int64  `db:"id"`
	GameID    string `db:"game_id"`
	Seq       int    `db:"seq"`
	Player    int    `db:"player"`
	Action    string `db:"action_json"`
	Phase     string `db:"phase"`
	Roll      int    `db:"roll"`
	Bot       bool   `db:"bot"`
	CreatedAt string `db:"created_at"`
}

// Append stores one applied action.
func (db *DB) Append(ctx context.Context, m *model.Move) error {
	action, err := json.Marshal(m.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := db.conn.ExecContext(ctx, `INSERT INTO moves
		(game_id, seq, player, action_json, phase, roll, bot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.GameID, m.Seq, m.Player, string(action), string(m.Phase), m.Roll, m.Bot,
		m.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

// ListByGame returns a game's moves in order.
func (db *DB) ListByGame(ctx context.Context, gameID string) ([]model.Move, error) {
	var rows []moveRow
	if err := db.conn.SelectContext(ctx, &rows,
		`SELECT * FROM moves WHERE game_id = ? ORDER BY seq`, gameID); err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	out := make([]model.Move, 0, len(rows))
	for _, row := range rows {
		m := model.Move{
			ID:     row.ID,
			GameID: row.GameID,
			Seq:    row.Seq,
			Player: row.Player,
			Roll:   row.Roll,
			Bot:    row.Bot,
			Phase:  catan.Phase(row.Phase),
		}
		if err := json.Unmarshal([]byte(row.Action), &m.Action); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		m.CreatedAt, _ = time.Parse(timeFormat, row.CreatedAt)
		out = append(out, m)
	}
	return out, nil
}
