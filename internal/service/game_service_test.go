package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

type fixture struct {
	games   *mockGameRepo
	moves   *mockMoveRepo
	results *mockResultRepo
	cache   *mockCache
	events  *recordingBroadcaster
	seats   *auth.SeatManager
	svc     *SessionService
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		games:   newMockGameRepo(),
		moves:   &mockMoveRepo{},
		results: &mockResultRepo{},
		cache:   newMockCache(),
		events:  &recordingBroadcaster{},
		seats:   auth.NewSeatManager("test-secret", time.Hour),
	}
	f.svc = NewSessionService(f.games, f.moves, f.cache, f.seats, f.events, opts)
	f.svc.SetResultRepo(f.results)
	return f
}

// restart simulates a new process sharing the same storage.
func (f *fixture) restart(cache *mockCache, opts Options) *SessionService {
	var c *SessionService
	if cache == nil {
		c = NewSessionService(f.games, f.moves, nil, f.seats, f.events, opts)
	} else {
		c = NewSessionService(f.games, f.moves, cache, f.seats, f.events, opts)
	}
	c.SetResultRepo(f.results)
	return c
}

func clientSeat0() CreateRequest {
	return CreateRequest{
		Name:  "table",
		Seed:  42,
		Seats: []SeatRequest{{Name: "alice"}},
	}
}

func TestCreateAllBots(t *testing.T) {
	f := newFixture(t, Options{MaxBotSteps: 10})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateRequest{Seed: 7})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Tokens) != 0 {
		t.Errorf("expected no seat tokens, got %d", len(created.Tokens))
	}
	if created.Game.Status != model.StatusActive {
		t.Errorf("expected active game, got %s", created.Game.Status)
	}
	for _, seat := range created.Game.Seats {
		if seat.Kind != catan.KindBot || seat.Strategy == "" {
			t.Errorf("seat %d: expected bot with strategy, got %s %q", seat.Index, seat.Kind, seat.Strategy)
		}
	}

	moves, err := f.svc.Moves(ctx, created.Game.ID)
	if err != nil {
		t.Fatalf("moves: %v", err)
	}
	if len(moves) < 10 {
		t.Fatalf("expected at least 10 bot moves, got %d", len(moves))
	}
	for i, mv := range moves {
		if mv.Seq != i+1 {
			t.Errorf("move %d: expected seq %d, got %d", i, i+1, mv.Seq)
		}
		if !mv.Bot {
			t.Errorf("move %d: expected bot move", i)
		}
	}

	stored, _ := f.games.FindByID(ctx, created.Game.ID)
	if stored.MoveCount != len(moves) {
		t.Errorf("expected stored move count %d, got %d", len(moves), stored.MoveCount)
	}
	if len(stored.State) == 0 {
		t.Error("expected stored state")
	}
	if snap, _ := f.cache.GetSnapshot(ctx, created.Game.ID); snap == nil {
		t.Error("expected cached snapshot")
	}
	if f.events.count("game_updated") == 0 {
		t.Error("expected a game_updated event")
	}
}

func TestCreateClientSeatWaits(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Tokens) != 1 || created.Tokens[0] == "" {
		t.Fatalf("expected one token for seat 0, got %v", created.Tokens)
	}
	claims, err := f.seats.ValidateToken(created.Tokens[0])
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.GameID != created.Game.ID || claims.Seat != 0 {
		t.Errorf("expected %s seat 0, got %s seat %d", created.Game.ID, claims.GameID, claims.Seat)
	}
	if created.Game.Seats[0].Kind != catan.KindRemote {
		t.Errorf("expected remote seat 0, got %s", created.Game.Seats[0].Kind)
	}
	if created.Game.Name != "table" {
		t.Errorf("expected name table, got %s", created.Game.Name)
	}

	moves, _ := f.svc.Moves(ctx, created.Game.ID)
	if len(moves) != 0 {
		t.Errorf("expected no moves before seat 0 acts, got %d", len(moves))
	}
}

func TestCreateRejectsBadSettings(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"too many seats", CreateRequest{Seats: make([]SeatRequest, 5)}},
		{"unknown strategy", CreateRequest{Seats: []SeatRequest{{Bot: true, Strategy: "oracle"}}}},
		{"bad radius", CreateRequest{Rules: &catan.Config{Radius: 9, VictoryPoints: 10}}},
		{"low target", CreateRequest{Rules: &catan.Config{Radius: 2, VictoryPoints: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			if !errors.Is(err, ErrInvalidGame) {
				t.Errorf("expected ErrInvalidGame, got %v", err)
			}
		})
	}
}

func TestActSetupFlow(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID

	view, err := f.svc.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Phase != catan.PhaseSetupSettlement || view.Actor != 0 {
		t.Fatalf("expected seat 0 in setup_settlement, got %s actor %d", view.Phase, view.Actor)
	}
	if len(view.Legal) == 0 || view.Legal[0].Kind != catan.ActBuildTown {
		t.Fatalf("expected town placements, got %v", view.Legal)
	}

	view, err = f.svc.Act(ctx, id, 0, view.Legal[0])
	if err != nil {
		t.Fatalf("place town: %v", err)
	}
	if view.Phase != catan.PhaseSetupFirstRoad {
		t.Fatalf("expected setup_first_road, got %s", view.Phase)
	}
	if len(view.Legal) == 0 || view.Legal[0].Kind != catan.ActBuildRoad {
		t.Fatalf("expected road placements, got %v", view.Legal)
	}

	view, err = f.svc.Act(ctx, id, 0, view.Legal[0])
	if err != nil {
		t.Fatalf("place road: %v", err)
	}
	// Seats 1-3 place both rounds before seat 0 places its second town.
	if view.Phase != catan.PhaseSetupCity || view.Actor != 0 {
		t.Errorf("expected seat 0 in setup_city, got %s actor %d", view.Phase, view.Actor)
	}
	moves, _ := f.svc.Moves(ctx, id)
	if len(moves) != 14 {
		t.Fatalf("expected 14 moves, got %d", len(moves))
	}
	if moves[0].Bot || moves[1].Bot || !moves[2].Bot {
		t.Error("expected the first two moves from the client and the rest from bots")
	}
	if moves[0].Phase != catan.PhaseSetupSettlement {
		t.Errorf("expected first move in setup_settlement, got %s", moves[0].Phase)
	}
	if view.Players[0].Towns != 1 || view.Players[0].Roads != 1 {
		t.Errorf("expected 1 town and 1 road for seat 0, got %d and %d", view.Players[0].Towns, view.Players[0].Roads)
	}
}

func TestActRejections(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID

	if _, err := f.svc.Act(ctx, id, 1, catan.Action{Kind: catan.ActRoll}); !errors.Is(err, ErrNotSeated) {
		t.Errorf("bot seat: expected ErrNotSeated, got %v", err)
	}
	if _, err := f.svc.Act(ctx, id, 7, catan.Action{Kind: catan.ActRoll}); !errors.Is(err, ErrNotSeated) {
		t.Errorf("out of range seat: expected ErrNotSeated, got %v", err)
	}

	_, err = f.svc.Act(ctx, id, 0, catan.Action{Kind: catan.ActRoll})
	var ae *catan.ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("roll during setup: expected ActionError, got %v", err)
	}
	if ae.Player != 0 {
		t.Errorf("expected player 0 in error, got %d", ae.Player)
	}

	if _, err := f.svc.Act(ctx, "missing", 0, catan.Action{Kind: catan.ActRoll}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}

	moves, _ := f.svc.Moves(ctx, id)
	if len(moves) != 0 {
		t.Errorf("expected rejected actions to leave no moves, got %d", len(moves))
	}
}

func TestActBusyWhenLockedElsewhere(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, _ := f.cache.AcquireLock(ctx, created.Game.ID, "other-instance", time.Minute)
	if !ok {
		t.Fatal("expected to take the lock")
	}

	view, _ := f.svc.View(ctx, created.Game.ID, 0)
	if _, err := f.svc.Act(ctx, created.Game.ID, 0, view.Legal[0]); !errors.Is(err, ErrGameBusy) {
		t.Errorf("expected ErrGameBusy, got %v", err)
	}
}

func TestLoadFromStoredState(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	view, _ := f.svc.View(ctx, id, 0)
	if _, err := f.svc.Act(ctx, id, 0, view.Legal[0]); err != nil {
		t.Fatalf("place town: %v", err)
	}
	before, _ := f.svc.View(ctx, id, 0)

	// No cache: the engine comes back from the state column.
	fresh := f.restart(nil, Options{})
	after, err := fresh.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view after restart: %v", err)
	}
	if after.Phase != before.Phase || after.Actor != before.Actor {
		t.Errorf("expected %s actor %d, got %s actor %d", before.Phase, before.Actor, after.Phase, after.Actor)
	}
	if after.Players[0].Towns != 1 {
		t.Errorf("expected seat 0 town to survive, got %d", after.Players[0].Towns)
	}
	if after.Game.Seats[1].Strategy != before.Game.Seats[1].Strategy {
		t.Errorf("expected seat strategy %q, got %q", before.Game.Seats[1].Strategy, after.Game.Seats[1].Strategy)
	}

	if _, err := fresh.Act(ctx, id, 0, after.Legal[0]); err != nil {
		t.Fatalf("place road after restart: %v", err)
	}
	moves, _ := fresh.Moves(ctx, id)
	for i, mv := range moves {
		if mv.Seq != i+1 {
			t.Fatalf("move %d: expected seq %d after restart, got %d", i, i+1, mv.Seq)
		}
	}
}

func TestLoadWarmsEmptyCache(t *testing.T) {
	f := newFixture(t, Options{MaxBotSteps: 6})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, CreateRequest{Seed: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	stored, _ := f.games.FindByID(ctx, id)

	cache := newMockCache()
	fresh := f.restart(cache, Options{MaxBotSteps: 6})
	if _, err := fresh.Get(ctx, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	snap, _ := cache.GetSnapshot(ctx, id)
	if snap == nil {
		t.Fatal("expected snapshot cached on load")
	}
	var s catan.Snapshot
	if err := json.Unmarshal(snap, &s); err != nil {
		t.Fatalf("unmarshal cached snapshot: %v", err)
	}
	if cache.seqs[id] != int64(stored.MoveCount) {
		t.Errorf("expected move seq %d, got %d", stored.MoveCount, cache.seqs[id])
	}
}

func TestRecoverActiveGames(t *testing.T) {
	f := newFixture(t, Options{MaxBotSteps: 5})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, CreateRequest{Seed: 11})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	before, _ := f.games.FindByID(ctx, id)

	fresh := f.restart(newMockCache(), Options{MaxBotSteps: 5})
	if err := fresh.RecoverActiveGames(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}
	after, _ := f.games.FindByID(ctx, id)
	if after.MoveCount <= before.MoveCount {
		t.Errorf("expected bots to continue after recovery, move count %d -> %d", before.MoveCount, after.MoveCount)
	}
	moves, _ := fresh.Moves(ctx, id)
	for i, mv := range moves {
		if mv.Seq != i+1 {
			t.Fatalf("move %d: expected seq %d, got %d", i, i+1, mv.Seq)
		}
	}
}

func TestAllBotGameFinishes(t *testing.T) {
	f := newFixture(t, Options{
		Rules:       catan.Config{Radius: 2, VictoryPoints: 5},
		MaxBotSteps: 20000,
	})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, CreateRequest{Seed: 99})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Game.Status != model.StatusFinished || created.Game.Winner == nil {
		t.Fatalf("expected a finished game, got %s", created.Game.Status)
	}
	if f.games.finished[created.Game.ID] != *created.Game.Winner {
		t.Errorf("expected stored winner %d", *created.Game.Winner)
	}
	if len(f.results.results) != 1 {
		t.Fatalf("expected one result, got %d", len(f.results.results))
	}
	res := f.results.results[0]
	if res.GameID != created.Game.ID || res.Points[res.Winner] < 5 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Strategies[0] == "" {
		t.Error("expected strategy names in result")
	}
	if snap, _ := f.cache.GetSnapshot(ctx, created.Game.ID); snap != nil {
		t.Error("expected cache cleared for finished game")
	}
	if f.events.count("game_over") != 1 {
		t.Errorf("expected one game_over event, got %d", f.events.count("game_over"))
	}

	if _, err := f.svc.Act(ctx, created.Game.ID, 0, catan.Action{Kind: catan.ActRoll}); !errors.Is(err, ErrGameFinished) {
		t.Errorf("expected ErrGameFinished, got %v", err)
	}
}

func TestViewHidesOtherHands(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID

	view, err := f.svc.View(ctx, id, 0)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Seat != 0 || len(view.Players) != catan.NumPlayers {
		t.Fatalf("expected seat 0 with 4 players, got seat %d with %d", view.Seat, len(view.Players))
	}
	if view.Players[0].Hand == nil || view.Players[0].Cards == nil {
		t.Error("expected own hand and cards")
	}
	for i := 1; i < catan.NumPlayers; i++ {
		if view.Players[i].Hand != nil || view.Players[i].Cards != nil || view.Players[i].Log != nil {
			t.Errorf("seat %d: expected hidden hand", i)
		}
		if view.Players[i].Strategy == "" {
			t.Errorf("seat %d: expected bot strategy", i)
		}
	}

	watcher, err := f.svc.View(ctx, id, 9)
	if err != nil {
		t.Fatalf("spectator view: %v", err)
	}
	if watcher.Seat != Spectator || watcher.Legal != nil {
		t.Errorf("expected spectator without legal actions, got seat %d and %d actions", watcher.Seat, len(watcher.Legal))
	}
	for _, p := range watcher.Players {
		if p.Hand != nil {
			t.Errorf("seat %d: spectator sees hand", p.Index)
		}
	}
}

func TestGameUpdatedCarriesSeatViews(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	legal, err := f.svc.Legal(ctx, id, 0)
	if err != nil || len(legal) == 0 {
		t.Fatalf("legal: %v %v", legal, err)
	}
	if _, err := f.svc.Act(ctx, id, 0, legal[0]); err != nil {
		t.Fatalf("act: %v", err)
	}

	ev, ok := f.events.last("game_updated")
	if !ok || ev.gameID != id {
		t.Fatalf("no game_updated for %s: %+v", id, ev)
	}
	views := ev.data.(map[int]any)
	for seat := Spectator; seat < catan.NumPlayers; seat++ {
		v := views[seat].(*GameView)
		if v.Seat != seat || v.Game.ID != id {
			t.Errorf("view for seat %d: seat %d game %s", seat, v.Seat, v.Game.ID)
		}
		for _, p := range v.Players {
			if visible := p.Hand != nil; visible != (p.Index == seat) {
				t.Errorf("seat %d view: hand of seat %d visible=%v", seat, p.Index, visible)
			}
		}
		if seat == Spectator && v.Legal != nil {
			t.Errorf("spectator view carries legal actions")
		}
	}
}

func TestBoardAndNotFound(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	board, err := f.svc.Board(ctx, created.Game.ID)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if board.Radius != 2 || len(board.Hexes) != 19 {
		t.Errorf("expected radius 2 with 19 hexes, got %d with %d", board.Radius, len(board.Hexes))
	}

	if _, err := f.svc.Get(ctx, "nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("get: expected ErrGameNotFound, got %v", err)
	}
	if _, err := f.svc.Moves(ctx, "nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("moves: expected ErrGameNotFound, got %v", err)
	}
	if _, err := f.svc.View(ctx, "nope", 0); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("view: expected ErrGameNotFound, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	for range 3 {
		if _, err := f.svc.Create(ctx, clientSeat0()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	active, err := f.svc.List(ctx, model.StatusActive, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 3 {
		t.Errorf("expected 3 active games, got %d", len(active))
	}
	finished, _ := f.svc.List(ctx, model.StatusFinished, 10)
	if len(finished) != 0 {
		t.Errorf("expected no finished games, got %d", len(finished))
	}
}

// assertStoredMatchesLive checks that the live engine holds exactly the
// state last written to the game record.
func assertStoredMatchesLive(t *testing.T, f *fixture, id string) {
	t.Helper()
	ctx := context.Background()
	sess, err := f.svc.load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	stored, _ := f.games.FindByID(ctx, id)
	var snap catan.Snapshot
	if err := json.Unmarshal(stored.State, &snap); err != nil {
		t.Fatalf("stored state: %v", err)
	}
	live := sess.game.Snapshot()
	if live.Phase != snap.Phase || live.Turn != snap.Turn || live.RandSteps != snap.RandSteps {
		t.Errorf("live %s/%d/%d, stored %s/%d/%d", live.Phase, live.Turn, live.RandSteps, snap.Phase, snap.Turn, snap.RandSteps)
	}
	if !reflect.DeepEqual(live.Buildings, snap.Buildings) || !reflect.DeepEqual(live.EdgeOwners, snap.EdgeOwners) {
		t.Error("live board differs from stored board")
	}
	for i := range catan.NumPlayers {
		if live.Players[i].Hand != snap.Players[i].Hand {
			t.Errorf("seat %d: live hand %v, stored %v", i, live.Players[i].Hand, snap.Players[i].Hand)
		}
	}
	if stored.MoveCount != sess.seq {
		t.Errorf("stored move count %d, live %d", stored.MoveCount, sess.seq)
	}
}

func assertContiguous(t *testing.T, moves []model.Move) {
	t.Helper()
	for i, mv := range moves {
		if mv.Seq != i+1 {
			t.Fatalf("move %d has seq %d", i, mv.Seq)
		}
	}
}

func TestActRevertsWhenMoveLogFails(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	view, _ := f.svc.View(ctx, id, 0)

	f.moves.failFrom(1)
	if _, err := f.svc.Act(ctx, id, 0, view.Legal[0]); !errors.Is(err, errMoveLogDown) {
		t.Fatalf("expected move log error, got %v", err)
	}
	after, _ := f.svc.View(ctx, id, 0)
	if after.Phase != catan.PhaseSetupSettlement || after.Actor != 0 {
		t.Errorf("expected the town to be undone, got %s actor %d", after.Phase, after.Actor)
	}
	assertStoredMatchesLive(t, f, id)

	f.moves.failFrom(0)
	next, err := f.svc.Act(ctx, id, 0, view.Legal[0])
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if next.Phase != catan.PhaseSetupFirstRoad {
		t.Errorf("expected setup_first_road, got %s", next.Phase)
	}
	moves, _ := f.svc.Moves(ctx, id)
	if len(moves) != 1 {
		t.Fatalf("expected one move, got %d", len(moves))
	}
	assertContiguous(t, moves)
}

func TestBotMoveLogFailureKeepsStoredState(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Game.ID
	view, _ := f.svc.View(ctx, id, 0)
	if view, err = f.svc.Act(ctx, id, 0, view.Legal[0]); err != nil {
		t.Fatalf("town: %v", err)
	}

	// The road and two bot moves are stored, the third bot move is not.
	f.moves.failFrom(4)
	if _, err := f.svc.Act(ctx, id, 0, view.Legal[0]); !errors.Is(err, errMoveLogDown) {
		t.Fatalf("expected move log error, got %v", err)
	}
	moves, _ := f.svc.Moves(ctx, id)
	if len(moves) != 4 {
		t.Fatalf("expected 4 stored moves, got %d", len(moves))
	}
	assertStoredMatchesLive(t, f, id)

	f.moves.failFrom(0)
	if err := f.svc.RecoverActiveGames(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}
	view, _ = f.svc.View(ctx, id, 0)
	if view.Phase != catan.PhaseSetupCity || view.Actor != 0 {
		t.Errorf("expected seat 0 in setup_city, got %s actor %d", view.Phase, view.Actor)
	}
	moves, _ = f.svc.Moves(ctx, id)
	if len(moves) != 14 {
		t.Fatalf("expected 14 moves, got %d", len(moves))
	}
	assertContiguous(t, moves)
	assertStoredMatchesLive(t, f, id)
}

func TestCreateKeepsSeedPrivate(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, Options{})
	created, err := f.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _ := f.games.FindByID(ctx, created.Game.ID)
	if stored.Seed == 0 || stored.Seed == clientSeat0().Seed {
		t.Errorf("expected a server-drawn seed, got %d", stored.Seed)
	}
	raw, _ := json.Marshal(created)
	if strings.Contains(string(raw), `"seed"`) {
		t.Errorf("created game exposes its seed: %s", raw)
	}

	dev := newFixture(t, Options{AllowClientSeed: true})
	created, err = dev.svc.Create(ctx, clientSeat0())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stored, _ := dev.games.FindByID(ctx, created.Game.ID); stored.Seed != clientSeat0().Seed {
		t.Errorf("expected the requested seed, got %d", stored.Seed)
	}
}

func TestRecoveredGameReplaysIdentically(t *testing.T) {
	ctx := context.Background()
	opts := Options{AllowClientSeed: true, MaxBotSteps: 40}
	run := func() (json.RawMessage, []catan.Action) {
		f := newFixture(t, opts)
		created, err := f.svc.Create(ctx, CreateRequest{Seed: 7})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := f.restart(nil, opts).RecoverActiveGames(ctx); err != nil {
			t.Fatalf("recover: %v", err)
		}
		stored, _ := f.games.FindByID(ctx, created.Game.ID)
		moves, _ := f.moves.ListByGame(ctx, created.Game.ID)
		var actions []catan.Action
		for _, mv := range moves {
			actions = append(actions, mv.Action)
		}
		return stored.State, actions
	}

	stateA, movesA := run()
	stateB, movesB := run()
	if len(movesA) <= 40 {
		t.Fatalf("expected play past the restart, got %d moves", len(movesA))
	}
	if !reflect.DeepEqual(movesA, movesB) {
		t.Error("move logs diverged")
	}
	if string(stateA) != string(stateB) {
		t.Error("stored states diverged")
	}
}
