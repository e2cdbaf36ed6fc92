package catan

import (
	"errors"
	"fmt"
)

// Snapshot is the complete game state as flat arrays indexed by entity id.
// Geometry is not stored: it is rebuilt deterministically from the radius.
type Snapshot struct {
	Config Config `json:"config"`

	Terrain         []Terrain  `json:"terrain"`
	Tokens          []int      `json:"tokens"`
	HarborResources []Resource `json:"harbor_resources"`
	HarborEdges     []int      `json:"harbor_edges"`
	Buildings       []Building `json:"buildings"`
	VertexOwners    []int      `json:"vertex_owners"`
	EdgeOwners      []int      `json:"edge_owners"`
	Robber          int        `json:"robber"`

	Players []Player `json:"players"`

	Turn             int              `json:"turn"`
	TurnNumber       int              `json:"turn_number"`
	Phase            Phase            `json:"phase"`
	ReturnPhase      Phase            `json:"return_phase"`
	PrevRobber       int              `json:"prev_robber"`
	RobberMoved      bool             `json:"robber_moved"`
	LastRoll         int              `json:"last_roll"`
	Deck             CardCounts       `json:"deck"`
	LongestRoadOwner int              `json:"longest_road_owner"`
	LongestRoad      int              `json:"longest_road"`
	LargestArmyOwner int              `json:"largest_army_owner"`
	LargestArmy      int              `json:"largest_army"`
	Winner           int              `json:"winner"`
	Discards         []PendingDiscard `json:"discards"`
	LastTown         []int            `json:"last_town"`
	RandSteps        int64            `json:"rand_steps"`
}

// Snapshot captures the game state.
func (g *Game) Snapshot() *Snapshot {
	b := g.board
	s := &Snapshot{
		Config:           g.cfg,
		Terrain:          make([]Terrain, len(b.hexes)),
		Tokens:           make([]int, len(b.hexes)),
		HarborResources:  make([]Resource, len(b.harbors)),
		HarborEdges:      make([]int, len(b.harbors)),
		Buildings:        make([]Building, len(b.vertices)),
		VertexOwners:     make([]int, len(b.vertices)),
		EdgeOwners:       make([]int, len(b.edges)),
		Robber:           b.robber,
		Players:          make([]Player, NumPlayers),
		Turn:             g.turn,
		TurnNumber:       g.turnNumber,
		Phase:            g.phase,
		ReturnPhase:      g.returnPhase,
		PrevRobber:       g.prevRobber,
		RobberMoved:      g.robberMoved,
		LastRoll:         g.lastRoll,
		Deck:             g.deck,
		LongestRoadOwner: g.longestRoadOwner,
		LongestRoad:      g.longestRoad,
		LargestArmyOwner: g.largestArmyOwner,
		LargestArmy:      g.largestArmy,
		Winner:           g.winner,
		Discards:         append([]PendingDiscard(nil), g.discards...),
		LastTown:         append([]int(nil), g.lastTown[:]...),
		RandSteps:        randSteps(g.rng),
	}
	for i, h := range b.hexes {
		s.Terrain[i] = h.Terrain
		s.Tokens[i] = h.Token
	}
	for i, h := range b.harbors {
		s.HarborResources[i] = h.Resource
		s.HarborEdges[i] = h.Edge
	}
	for i, v := range b.vertices {
		s.Buildings[i] = v.Building
		s.VertexOwners[i] = v.Owner
	}
	for i, e := range b.edges {
		s.EdgeOwners[i] = e.Owner
	}
	for i := range NumPlayers {
		s.Players[i], _ = g.Player(i)
	}
	return s
}

// Restore rebuilds a game from a snapshot. Controllers default to Human.
// Pass ResumeRand(seed, s.RandSteps) to continue the original random stream.
func Restore(s *Snapshot, ctrls [NumPlayers]Controller, rng Rand) (*Game, error) {
	if s == nil {
		return nil, errors.New("nil snapshot")
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	b, err := BuildGeometry(s.Config.Radius)
	if err != nil {
		return nil, err
	}
	if err := s.check(b); err != nil {
		return nil, err
	}

	for i := range b.hexes {
		b.hexes[i].Terrain = s.Terrain[i]
		b.hexes[i].Token = s.Tokens[i]
	}
	for i, e := range s.HarborEdges {
		b.placeHarbor(e, s.HarborResources[i])
	}
	for i := range b.vertices {
		b.vertices[i].Building = s.Buildings[i]
		b.vertices[i].Owner = s.VertexOwners[i]
	}
	for i := range b.edges {
		b.edges[i].Owner = s.EdgeOwners[i]
	}
	b.robber = s.Robber

	g := &Game{
		cfg:              s.Config,
		board:            b,
		rng:              rng,
		turn:             s.Turn,
		turnNumber:       s.TurnNumber,
		phase:            s.Phase,
		returnPhase:      s.ReturnPhase,
		prevRobber:       s.PrevRobber,
		robberMoved:      s.RobberMoved,
		lastRoll:         s.LastRoll,
		deck:             s.Deck,
		longestRoadOwner: s.LongestRoadOwner,
		longestRoad:      s.LongestRoad,
		largestArmyOwner: s.LargestArmyOwner,
		largestArmy:      s.LargestArmy,
		winner:           s.Winner,
		discards:         append([]PendingDiscard(nil), s.Discards...),
	}
	for i := range NumPlayers {
		p := s.Players[i]
		p.Log = append([]string(nil), p.Log...)
		g.players[i] = &p
		g.ctrls[i] = ctrls[i]
		if g.ctrls[i] == nil {
			g.ctrls[i] = Human{}
		}
		g.lastTown[i] = s.LastTown[i]
	}
	return g, nil
}

func (s *Snapshot) check(b *Board) error {
	switch {
	case len(s.Terrain) != len(b.hexes) || len(s.Tokens) != len(b.hexes):
		return fmt.Errorf("snapshot has %d terrains for %d hexes", len(s.Terrain), len(b.hexes))
	case len(s.Buildings) != len(b.vertices) || len(s.VertexOwners) != len(b.vertices):
		return fmt.Errorf("snapshot has %d buildings for %d vertices", len(s.Buildings), len(b.vertices))
	case len(s.EdgeOwners) != len(b.edges):
		return fmt.Errorf("snapshot has %d edge owners for %d edges", len(s.EdgeOwners), len(b.edges))
	case len(s.HarborEdges) != len(s.HarborResources):
		return errors.New("snapshot harbor arrays differ in length")
	case len(s.Players) != NumPlayers || len(s.LastTown) != NumPlayers:
		return fmt.Errorf("snapshot has %d players", len(s.Players))
	case s.Robber < 0 || s.Robber >= len(b.hexes):
		return fmt.Errorf("snapshot robber %d out of range", s.Robber)
	}
	for _, e := range s.HarborEdges {
		if e < 0 || e >= len(b.edges) {
			return fmt.Errorf("snapshot harbor edge %d out of range", e)
		}
	}
	return nil
}
