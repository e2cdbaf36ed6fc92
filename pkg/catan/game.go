package catan

import (
	"fmt"
)

// Game is the aggregate root: board, players and the turn machine. It is not
// safe for concurrent use; callers serialize every call.
type Game struct {
	cfg     Config
	board   *Board
	players [NumPlayers]*Player
	ctrls   [NumPlayers]Controller
	rng     Rand

	turn        int
	turnNumber  int
	phase       Phase
	returnPhase Phase
	prevRobber  int
	robberMoved bool
	lastRoll    int
	deck        CardCounts

	longestRoadOwner int
	longestRoad      int
	largestArmyOwner int
	largestArmy      int

	winner   int
	discards []PendingDiscard
	lastTown [NumPlayers]int
}

// PendingDiscard is a player still owing cards after a seven.
type PendingDiscard struct {
	Player int `json:"player"`
	Count  int `json:"count"`
}

// NewGame builds and randomizes a board and seats four players. Seats
// without a controller are human.
func NewGame(cfg Config, seats [NumPlayers]Seat, rng Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(cfg.Radius, rng)
	if err != nil {
		return nil, fmt.Errorf("build board: %w", err)
	}
	if cfg.ShuffleSeats {
		rng.Shuffle(NumPlayers, func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	}

	g := &Game{
		cfg:              cfg,
		board:            board,
		rng:              rng,
		turnNumber:       1,
		phase:            PhaseSetupSettlement,
		returnPhase:      PhaseSetupSettlement,
		prevRobber:       board.robber,
		deck:             standardDeck,
		longestRoadOwner: NoPlayer,
		longestRoad:      longestRoadThreshold,
		largestArmyOwner: NoPlayer,
		largestArmy:      largestArmyThreshold,
		winner:           NoPlayer,
	}
	for i := range NumPlayers {
		g.players[i] = newPlayer(i, seats[i])
		g.ctrls[i] = seats[i].Controller
		if g.ctrls[i] == nil {
			g.ctrls[i] = Human{}
		}
		g.lastTown[i] = None
	}
	return g, nil
}

// Config returns the rule toggles the game was created with.
func (g *Game) Config() Config { return g.cfg }

// Board exposes the read-only board queries.
func (g *Game) Board() *Board { return g.board }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// ReturnPhase is the phase a robber or progress sub-phase returns to.
func (g *Game) ReturnPhase() Phase { return g.returnPhase }

func (g *Game) IsSetup() bool         { return g.phase.IsSetup() }
func (g *Game) IsProduction() bool    { return g.phase == PhaseProduction }
func (g *Game) IsBuild() bool         { return g.phase == PhaseBuild }
func (g *Game) IsRobberPhase() bool   { return g.phase == PhaseRobber }
func (g *Game) IsProgressPhase() bool { return g.phase == PhaseProgress1 || g.phase == PhaseProgress2 }
func (g *Game) IsDone() bool          { return g.phase == PhaseDone }

// CurrentPlayer returns the index of the player whose turn it is.
func (g *Game) CurrentPlayer() int { return g.turn }

// TurnNumber counts full rounds, starting at 1.
func (g *Game) TurnNumber() int { return g.turnNumber }

// LastRoll returns the dice sum rolled this turn, 0 before rolling.
func (g *Game) LastRoll() int { return g.lastRoll }

// Player returns a copy of a player's ledger.
func (g *Game) Player(i int) (Player, bool) {
	if i < 0 || i >= NumPlayers {
		return Player{}, false
	}
	p := *g.players[i]
	p.Log = append([]string(nil), p.Log...)
	return p, true
}

// Controller returns the controller seated at i.
func (g *Game) Controller(i int) Controller { return g.ctrls[i] }

// Hexagon, Vertex, Edge and Harbor look up board entities by id.
func (g *Game) Hexagon(id int) (Hexagon, bool) { return g.board.Hexagon(id) }
func (g *Game) Vertex(id int) (Vertex, bool)   { return g.board.Vertex(id) }
func (g *Game) Edge(id int) (Edge, bool)       { return g.board.Edge(id) }
func (g *Game) Harbor(id int) (Harbor, bool)   { return g.board.Harbor(id) }

// LongestRoad returns the title length, or the threshold while unclaimed.
func (g *Game) LongestRoad() int { return g.longestRoad }

// LongestRoadOwner returns the title holder or NoPlayer.
func (g *Game) LongestRoadOwner() int { return g.longestRoadOwner }

// LargestArmy returns the title army size, or the threshold while unclaimed.
func (g *Game) LargestArmy() int { return g.largestArmy }

// LargestArmyOwner returns the title holder or NoPlayer.
func (g *Game) LargestArmyOwner() int { return g.largestArmyOwner }

// DeckRemaining returns the number of development cards left to buy.
func (g *Game) DeckRemaining() int { return g.deck.Total() }

// PendingDiscards returns the queued discards in order.
func (g *Game) PendingDiscards() []PendingDiscard {
	return append([]PendingDiscard(nil), g.discards...)
}

// RobberMoved reports whether the robber was placed in the current robber
// phase and a steal is awaited.
func (g *Game) RobberMoved() bool { return g.robberMoved }

// PublicPoints counts buildings and titles.
func (g *Game) PublicPoints(player int) int {
	p := g.players[player]
	n := p.Towns + 2*p.Cities
	if g.longestRoadOwner == player {
		n += 2
	}
	if g.largestArmyOwner == player {
		n += 2
	}
	return n
}

// TotalPoints adds victory cards to the public score.
func (g *Game) TotalPoints(player int) int {
	return g.PublicPoints(player) + g.players[player].HiddenPoints
}

// Winner returns the winning player. The check runs lazily: the first query
// after someone reaches the target freezes the game and the result never
// changes afterwards.
func (g *Game) Winner() (int, bool) {
	if g.winner != NoPlayer {
		return g.winner, true
	}
	if g.phase.IsSetup() {
		return NoPlayer, false
	}
	order := []int{g.turn}
	for i := range NumPlayers {
		if i != g.turn {
			order = append(order, i)
		}
	}
	for _, i := range order {
		if g.TotalPoints(i) >= g.cfg.VictoryPoints {
			g.winner = i
			g.fire(EventWon)
			g.logf(i, "won with %d points", g.TotalPoints(i))
			return i, true
		}
	}
	return NoPlayer, false
}

// Actor returns the player whose input the game is waiting for: the head
// of the discard queue, otherwise the current player.
func (g *Game) Actor() int {
	if len(g.discards) > 0 {
		return g.discards[0].Player
	}
	return g.turn
}

// logf records a line in the player's per-turn log. Setup is not logged.
func (g *Game) logf(player int, format string, args ...any) {
	if g.phase.IsSetup() || player < 0 || player >= NumPlayers {
		return
	}
	p := g.players[player]
	p.Log = append(p.Log, fmt.Sprintf(format, args...))
}

// ActionLog returns the player's log for the current turn.
func (g *Game) ActionLog(player int) []string {
	return append([]string(nil), g.players[player].Log...)
}
