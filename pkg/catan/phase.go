package catan

// Phase is a state of the turn machine.
type Phase string

const (
	PhaseSetupSettlement Phase = "setup_settlement"
	PhaseSetupFirstRoad  Phase = "setup_first_road"
	PhaseSetupCity       Phase = "setup_city"
	PhaseSetupSecondRoad Phase = "setup_second_road"
	PhaseProduction      Phase = "production"
	PhaseBuild           Phase = "build"
	PhaseProgress1       Phase = "progress_1"
	PhaseProgress2       Phase = "progress_2"
	PhaseRobber          Phase = "robber"
	PhaseDone            Phase = "done"
)

// IsSetup reports whether p is one of the four placement phases.
func (p Phase) IsSetup() bool {
	switch p {
	case PhaseSetupSettlement, PhaseSetupFirstRoad, PhaseSetupCity, PhaseSetupSecondRoad:
		return true
	}
	return false
}

// Event is something that happened which may move the machine.
type Event string

const (
	EventTownPlaced      Event = "town_placed"
	EventRoadPlaced      Event = "road_placed"
	EventRolled          Event = "rolled"
	EventRolledSeven     Event = "rolled_seven"
	EventEndTurn         Event = "end_turn"
	EventSoldier         Event = "soldier"
	EventProgress        Event = "progress"
	EventRobberDone      Event = "robber_done"
	EventProgressRoad    Event = "progress_road"
	EventProgressForfeit Event = "progress_forfeit"
	EventWon             Event = "won"
)

// transition applies the side effect of an event and returns the next phase.
type transition func(g *Game) Phase

func goTo(p Phase) transition {
	return func(*Game) Phase { return p }
}

// transitions is the complete turn machine: phase x event -> effect + next
// phase. Pairs that are absent are illegal.
var transitions = map[Phase]map[Event]transition{
	PhaseSetupSettlement: {
		EventTownPlaced: goTo(PhaseSetupFirstRoad),
	},
	PhaseSetupFirstRoad: {
		EventRoadPlaced: (*Game).afterFirstSetupRoad,
	},
	PhaseSetupCity: {
		EventTownPlaced: goTo(PhaseSetupSecondRoad),
	},
	PhaseSetupSecondRoad: {
		EventRoadPlaced: (*Game).afterSecondSetupRoad,
	},
	PhaseProduction: {
		EventRolled:      goTo(PhaseBuild),
		EventRolledSeven: (*Game).enterRobberAfterSeven,
		EventSoldier:     (*Game).enterRobber,
		EventProgress:    (*Game).enterProgress,
	},
	PhaseBuild: {
		EventEndTurn:  (*Game).advanceTurn,
		EventSoldier:  (*Game).enterRobber,
		EventProgress: (*Game).enterProgress,
	},
	PhaseProgress1: {
		EventProgressRoad:    (*Game).afterFirstProgressRoad,
		EventProgressForfeit: (*Game).forfeitFirstProgressRoad,
	},
	PhaseProgress2: {
		EventProgressRoad:    (*Game).leaveSubPhase,
		EventProgressForfeit: (*Game).leaveSubPhase,
	},
	PhaseRobber: {
		EventRobberDone: (*Game).leaveSubPhase,
	},
}

// canFire reports whether ev is legal in the current phase.
func (g *Game) canFire(ev Event) bool {
	if ev == EventWon {
		return g.phase != PhaseDone
	}
	_, ok := transitions[g.phase][ev]
	return ok
}

// fire runs the transition for ev. Callers check canFire before mutating
// anything else so a rejected event leaves the game untouched.
func (g *Game) fire(ev Event) {
	if ev == EventWon {
		g.phase = PhaseDone
		return
	}
	t, ok := transitions[g.phase][ev]
	if !ok {
		return
	}
	g.phase = t(g)
}

// Snake order: 0,1,2,3 place first towns, then 3,2,1,0 place second towns.
func (g *Game) afterFirstSetupRoad() Phase {
	if g.turn < NumPlayers-1 {
		g.turn++
		return PhaseSetupSettlement
	}
	return PhaseSetupCity
}

func (g *Game) afterSecondSetupRoad() Phase {
	if g.turn > 0 {
		g.turn--
		return PhaseSetupCity
	}
	g.beginTurn()
	return PhaseProduction
}

func (g *Game) advanceTurn() Phase {
	if g.turn == NumPlayers-1 {
		g.turnNumber++
	}
	g.players[g.turn].endTurn()
	g.turn = (g.turn + 1) % NumPlayers
	g.beginTurn()
	return PhaseProduction
}

func (g *Game) beginTurn() {
	g.players[g.turn].Log = nil
	g.lastRoll = 0
}

// A seven resolves the robber and then continues with building.
func (g *Game) enterRobberAfterSeven() Phase {
	g.returnPhase = PhaseBuild
	g.prevRobber = g.board.robber
	g.robberMoved = false
	return PhaseRobber
}

func (g *Game) enterRobber() Phase {
	g.returnPhase = g.phase
	g.prevRobber = g.board.robber
	g.robberMoved = false
	return PhaseRobber
}

// enterProgress refunds the card when no road can be placed at all.
func (g *Game) enterProgress() Phase {
	g.returnPhase = g.phase
	if len(g.roadSites(g.turn)) == 0 {
		g.players[g.turn].refundCard(Progress)
		g.logf(g.turn, "could not place a free road, progress card returned")
		return g.returnPhase
	}
	return PhaseProgress1
}

func (g *Game) afterFirstProgressRoad() Phase {
	if len(g.roadSites(g.turn)) == 0 {
		return g.returnPhase
	}
	return PhaseProgress2
}

func (g *Game) forfeitFirstProgressRoad() Phase {
	g.players[g.turn].refundCard(Progress)
	return g.returnPhase
}

func (g *Game) leaveSubPhase() Phase {
	return g.returnPhase
}
