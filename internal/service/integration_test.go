//go:build integration

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/internal/repository/postgres"
	redisrepo "github.com/freeeve/hexsettlers/internal/repository/redis"
	"github.com/freeeve/hexsettlers/internal/testutil"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// testEnv holds shared test infrastructure.
type testEnv struct {
	db      *sql.DB
	rdb     *goredis.Client
	games   *postgres.GameRepo
	moves   *postgres.MoveRepo
	results *postgres.ResultRepo
	cache   *redisrepo.Client
}

var env *testEnv

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	if env == nil {
		db := testutil.SetupDB(t)
		rdb := testutil.SetupRedis(t)
		env = &testEnv{
			db:      db,
			rdb:     rdb,
			games:   postgres.NewGameRepo(db),
			moves:   postgres.NewMoveRepo(db),
			results: postgres.NewResultRepo(db),
			cache:   redisrepo.NewClientFromPool(rdb),
		}
	}
	testutil.CleanupDB(t, env.db)
	testutil.CleanupRedis(t, env.rdb)
	return env
}

func (e *testEnv) service(opts Options) *SessionService {
	svc := NewSessionService(e.games, e.moves, e.cache, auth.NewSeatManager("integration", time.Hour), NoopBroadcaster{}, opts)
	svc.SetResultRepo(e.results)
	return svc
}

func TestIntegrationClientGameSurvivesRestart(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := e.service(Options{})

	created, err := svc.Create(ctx, CreateRequest{Name: "restart", Seed: 5, Seats: []SeatRequest{{Name: "alice"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID

	view, err := svc.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view, err = svc.Act(ctx, id, 0, view.Legal[0]); err != nil {
		t.Fatalf("place town: %v", err)
	}
	if _, err = svc.Act(ctx, id, 0, view.Legal[0]); err != nil {
		t.Fatalf("place road: %v", err)
	}

	fresh := e.service(Options{})
	view, err = fresh.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view after restart: %v", err)
	}
	if view.Phase != catan.PhaseSetupCity || view.Actor != 0 {
		t.Errorf("expected seat 0 in setup_city, got %s actor %d", view.Phase, view.Actor)
	}

	moves, err := fresh.Moves(ctx, id)
	if err != nil {
		t.Fatalf("moves: %v", err)
	}
	if len(moves) != 14 {
		t.Fatalf("expected 14 moves, got %d", len(moves))
	}
	for i, mv := range moves {
		if mv.Seq != i+1 {
			t.Errorf("move %d: expected seq %d, got %d", i, i+1, mv.Seq)
		}
	}

	// Drop the cache: the state column alone must restore the game.
	testutil.CleanupRedis(t, e.rdb)
	again := e.service(Options{})
	view, err = again.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view from stored state: %v", err)
	}
	if view.Players[0].Towns != 1 || view.Phase != catan.PhaseSetupCity {
		t.Errorf("expected restored setup_city with one town, got %s with %d", view.Phase, view.Players[0].Towns)
	}
}

func TestIntegrationBotGameFinishes(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := e.service(Options{Rules: catan.Config{Radius: 2, VictoryPoints: 5}, MaxBotSteps: 20000})

	created, err := svc.Create(ctx, CreateRequest{Seed: 21})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Game.Status != model.StatusFinished {
		t.Fatalf("expected finished game, got %s", created.Game.Status)
	}

	stored, err := e.games.FindByID(ctx, created.Game.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Status != model.StatusFinished || stored.Winner == nil {
		t.Errorf("expected stored winner, got %s", stored.Status)
	}

	results, err := e.results.ListResults(ctx, 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 || results[0].GameID != created.Game.ID {
		t.Fatalf("expected one result for the game, got %d", len(results))
	}
	if snap, _ := e.cache.GetSnapshot(ctx, created.Game.ID); snap != nil {
		t.Error("expected cached state cleared")
	}
}

func TestIntegrationLockHeldElsewhere(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := e.service(Options{})

	created, err := svc.Create(ctx, CreateRequest{Seed: 8, Seats: []SeatRequest{{Name: "alice"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err := e.cache.AcquireLock(ctx, created.Game.ID, "elsewhere", time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire lock: %v %v", ok, err)
	}
	view, _ := svc.View(ctx, created.Game.ID, 0)
	if _, err := svc.Act(ctx, created.Game.ID, 0, view.Legal[0]); !errors.Is(err, ErrGameBusy) {
		t.Errorf("expected ErrGameBusy, got %v", err)
	}
}
