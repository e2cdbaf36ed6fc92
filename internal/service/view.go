package service

import (
	"context"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// Spectator is the seat passed to View by clients without a seat token.
const Spectator = -1

// PlayerView is one seat as another seat sees it. Hand, cards, log and the
// hidden victory points are only filled in for the viewer's own seat.
type PlayerView struct {
	Index      int               `json:"index"`
	Name       string            `json:"name"`
	Color      catan.Color       `json:"color"`
	Kind       catan.PlayerKind  `json:"kind"`
	Strategy   string            `json:"strategy,omitempty"`
	Points     int               `json:"points"`
	HandSize   int               `json:"hand_size"`
	CardCount  int               `json:"card_count"`
	Towns      int               `json:"towns"`
	Cities     int               `json:"cities"`
	Roads      int               `json:"roads"`
	Soldiers   int               `json:"soldiers"`
	RoadLength int               `json:"road_length"`
	TradeRatio int               `json:"trade_ratio"`
	Hand       *catan.Hand       `json:"hand,omitempty"`
	Cards      *catan.CardCounts `json:"cards,omitempty"`
	NewCards   *catan.CardCounts `json:"new_cards,omitempty"`
	Log        []string          `json:"log,omitempty"`
}

// GameView is the state of a game from one seat's point of view.
type GameView struct {
	Game             model.Game             `json:"game"`
	Seat             int                    `json:"seat"`
	Phase            catan.Phase            `json:"phase"`
	Turn             int                    `json:"turn"`
	TurnNumber       int                    `json:"turn_number"`
	Actor            int                    `json:"actor"`
	LastRoll         int                    `json:"last_roll"`
	Robber           int                    `json:"robber"`
	DeckRemaining    int                    `json:"deck_remaining"`
	LongestRoadOwner int                    `json:"longest_road_owner"`
	LargestArmyOwner int                    `json:"largest_army_owner"`
	Winner           *int                   `json:"winner,omitempty"`
	PendingDiscards  []catan.PendingDiscard `json:"pending_discards,omitempty"`
	Players          []PlayerView           `json:"players"`
	Legal            []catan.Action         `json:"legal,omitempty"`
}

// BoardView is the full board layout.
type BoardView struct {
	Radius   int             `json:"radius"`
	Robber   int             `json:"robber"`
	Hexes    []catan.Hexagon `json:"hexes"`
	Vertices []catan.Vertex  `json:"vertices"`
	Edges    []catan.Edge    `json:"edges"`
	Harbors  []catan.Harbor  `json:"harbors"`
}

// View returns the game as seen from seat, or as a spectator for any seat
// outside 0-3.
func (s *SessionService) View(ctx context.Context, gameID string, seat int) (*GameView, error) {
	sess, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return viewOf(sess, seat), nil
}

// viewOf builds seat's view. The caller holds sess.mu.
func viewOf(sess *session, seat int) *GameView {
	g := sess.game
	if seat < 0 || seat >= catan.NumPlayers {
		seat = Spectator
	}
	v := &GameView{
		Game:             *sess.meta,
		Seat:             seat,
		Phase:            g.Phase(),
		Turn:             g.CurrentPlayer(),
		TurnNumber:       g.TurnNumber(),
		Actor:            g.Actor(),
		LastRoll:         g.LastRoll(),
		Robber:           g.Board().Robber(),
		DeckRemaining:    g.DeckRemaining(),
		LongestRoadOwner: g.LongestRoadOwner(),
		LargestArmyOwner: g.LargestArmyOwner(),
		PendingDiscards:  g.PendingDiscards(),
	}
	if w, ok := g.Winner(); ok {
		v.Winner = &w
	}
	for i := range catan.NumPlayers {
		p, _ := g.Player(i)
		pv := PlayerView{
			Index:      i,
			Name:       p.Name,
			Color:      p.Color,
			Kind:       p.Kind,
			Points:     g.PublicPoints(i),
			HandSize:   p.Hand.Total(),
			CardCount:  p.CardsHeld(),
			Towns:      p.Towns,
			Cities:     p.Cities,
			Roads:      p.Roads,
			Soldiers:   p.Soldiers,
			RoadLength: p.RoadLength,
			TradeRatio: p.TradeRatio,
		}
		if i < len(sess.meta.Seats) {
			pv.Strategy = sess.meta.Seats[i].Strategy
		}
		if i == seat || v.Winner != nil {
			pv.Points = g.TotalPoints(i)
		}
		if i == seat {
			pv.Hand = &p.Hand
			pv.Cards = &p.Cards
			pv.NewCards = &p.NewCards
			pv.Log = p.Log
		}
		v.Players = append(v.Players, pv)
	}
	if seat != Spectator {
		v.Legal = g.LegalActions(seat)
	}
	return v
}

// Board returns the board layout of a game.
func (s *SessionService) Board(ctx context.Context, gameID string) (*BoardView, error) {
	sess, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	b := sess.game.Board()
	return &BoardView{
		Radius:   b.Radius(),
		Robber:   b.Robber(),
		Hexes:    b.Hexes(),
		Vertices: b.Vertices(),
		Edges:    b.Edges(),
		Harbors:  b.Harbors(),
	}, nil
}

// Legal lists the actions seat may take right now.
func (s *SessionService) Legal(ctx context.Context, gameID string, seat int) ([]catan.Action, error) {
	sess, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.LegalActions(seat), nil
}
