package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestResults(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, winner := range []int{0, 2} {
		r := &model.Result{
			ID:         []string{"r-1", "r-2"}[i],
			GameID:     "arena",
			Seed:       int64(i),
			Strategies: [catan.NumPlayers]string{"balanced", "random", "balanced", "random"},
			Points:     [catan.NumPlayers]int{10, 2, 4, 6},
			Winner:     winner,
			Turns:      50 + i,
			Steps:      700,
			Duration:   2 * time.Second,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if winner == 2 {
			r.Points = [catan.NumPlayers]int{6, 2, 10, 4}
		}
		if err := db.SaveResult(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	list, err := db.ListResults(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "r-2" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Winner != 2 || list[0].Points[2] != 10 || list[0].Duration != 2*time.Second {
		t.Errorf("decoded result %+v", list[0])
	}
	if !list[1].FinishedAt.Equal(base) {
		t.Errorf("finished at %v, want %v", list[1].FinishedAt, base)
	}

	stats, err := db.StrategyStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats %+v", stats)
	}
	// balanced seats scored 10, 4, 6, 10; random seats 2, 6, 2, 4
	if stats[0].Strategy != "balanced" || stats[0].Games != 4 || stats[0].Wins != 2 || stats[0].AvgPoints != 7.5 {
		t.Errorf("balanced %+v", stats[0])
	}
	if stats[1].Strategy != "random" || stats[1].Wins != 0 || stats[1].AvgPoints != 3.5 {
		t.Errorf("random %+v", stats[1])
	}
}

func TestMoves(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	in := []model.Move{
		{GameID: "g", Seq: 1, Player: 2, Action: catan.Action{Kind: catan.ActRoll}, Phase: catan.PhaseProduction, Roll: 8, Bot: true},
		{GameID: "g", Seq: 2, Player: 2, Action: catan.Action{Kind: catan.ActTrade, Resource: catan.Ore, Offer: catan.Single(catan.Lumber, 4)}, Phase: catan.PhaseBuild},
		{GameID: "other", Seq: 1, Action: catan.Action{Kind: catan.ActPass}, Phase: catan.PhaseRobber},
	}
	for i := range in {
		if err := db.Append(ctx, &in[i]); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if in[1].ID == 0 {
		t.Error("expected id to be assigned")
	}
	if err := db.Append(ctx, &model.Move{GameID: "g", Seq: 1, Phase: catan.PhaseBuild}); err == nil {
		t.Error("duplicate seq should fail")
	}

	got, err := db.ListByGame(ctx, "g")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d moves", len(got))
	}
	if got[0].Roll != 8 || !got[0].Bot || got[0].Phase != catan.PhaseProduction {
		t.Errorf("first move %+v", got[0])
	}
	if got[1].Action.Offer != catan.Single(catan.Lumber, 4) || got[1].Action.Resource != catan.Ore {
		t.Errorf("second move action %+v", got[1].Action)
	}
}
