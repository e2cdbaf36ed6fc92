package catan

import (
	"math/rand"
	"testing"
)

// scriptedRand returns queued values from Intn before falling back to a
// seeded source. Queued values are reduced modulo n.
type scriptedRand struct {
	*rand.Rand
	script []int
}

func newScriptedRand(seed int64, script ...int) *scriptedRand {
	return &scriptedRand{Rand: rand.New(rand.NewSource(seed)), script: script}
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.script) > 0 {
		v := s.script[0]
		s.script = s.script[1:]
		return v % n
	}
	return s.Rand.Intn(n)
}

// queueRoll makes the next Roll produce sum.
func (s *scriptedRand) queueRoll(sum int) {
	a := min(6, sum-1)
	s.script = append(s.script, a-1, sum-a-1)
}

func newTestGame(t *testing.T, rng Rand, mutate func(*Config)) *Game {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	if rng == nil {
		rng = NewRand(42)
	}
	g, err := NewGame(cfg, [NumPlayers]Seat{}, rng)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

// put places a building directly, bypassing the rules.
func put(g *Game, player, v int, b Building) {
	g.board.vertices[v].Owner = player
	g.board.vertices[v].Building = b
	if b == City {
		g.players[player].Cities++
	} else {
		g.players[player].Towns++
	}
}

// putRoad places a road directly, bypassing the rules.
func putRoad(g *Game, player, e int) {
	g.board.edges[e].Owner = player
	g.players[player].Roads++
}

// toBuild jumps straight into player's build phase.
func toBuild(g *Game, player int) {
	g.phase = PhaseBuild
	g.turn = player
}

func centerHex(t *testing.T, g *Game) Hexagon {
	t.Helper()
	id, ok := g.board.HexAt(Coord{0, 0})
	if !ok {
		t.Fatal("no center hex")
	}
	return g.board.hexes[id]
}

// hexWithToken finds a producing hex carrying a number other than 6 or 8.
func hexWithToken(t *testing.T, g *Game) Hexagon {
	t.Helper()
	for _, h := range g.board.hexes {
		if h.Terrain.Produces() && h.Terrain != GoldField && h.Token != 0 && h.Token != 7 {
			return h
		}
	}
	t.Fatal("no producing hex")
	return Hexagon{}
}

// finishSetup plays every setup placement with DefaultAction.
func finishSetup(t *testing.T, g *Game) {
	t.Helper()
	for g.phase.IsSetup() {
		a, ok := g.DefaultAction(g.Actor())
		if !ok {
			t.Fatalf("no default action in %s", g.phase)
		}
		if err := g.Apply(g.Actor(), a); err != nil {
			t.Fatalf("setup %s: %v", a.Describe(), err)
		}
	}
}

// testPolicy builds whenever it can and otherwise takes the first legal
// action. Discards come off the largest pile first.
type testPolicy struct {
	discarded int
}

func (p *testPolicy) Name() string { return "test" }

func (p *testPolicy) Decide(g *Game, player int) Action {
	legal := g.LegalActions(player)
	if len(legal) == 0 {
		a, _ := g.DefaultAction(player)
		return a
	}
	if g.Phase() == PhaseBuild {
		for _, kind := range []ActionKind{ActBuildCity, ActBuildTown, ActBuildRoad, ActBuyCard} {
			for _, a := range legal {
				if a.Kind == kind {
					return a
				}
			}
		}
		return Action{Kind: ActEndTurn}
	}
	return legal[0]
}

func (p *testPolicy) Discard(g *Game, player, count int) Hand {
	p.discarded += count
	pl, _ := g.Player(player)
	var out Hand
	for range count {
		best := Lumber
		for _, r := range Resources() {
			if pl.Hand[r]-out[r] > pl.Hand[best]-out[best] {
				best = r
			}
		}
		out[best]++
	}
	return out
}
