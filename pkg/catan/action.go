package catan

import (
	"encoding/json"
	"fmt"
)

// ActionKind names a mutating operation.
type ActionKind string

const (
	ActRoll       ActionKind = "roll"
	ActBuildRoad  ActionKind = "build_road"
	ActBuildTown  ActionKind = "build_town"
	ActBuildCity  ActionKind = "build_city"
	ActBuyCard    ActionKind = "buy_card"
	ActPlayCard   ActionKind = "play_card"
	ActMonopoly   ActionKind = "monopoly"
	ActHarvest    ActionKind = "harvest"
	ActTrade      ActionKind = "trade"
	ActTradeWith  ActionKind = "trade_with"
	ActDiscard    ActionKind = "discard"
	ActMoveRobber ActionKind = "move_robber"
	ActSteal      ActionKind = "steal"
	ActPass       ActionKind = "pass"
	ActEndTurn    ActionKind = "end_turn"
)

// Action is a serializable request to mutate the game. Only the fields the
// kind needs are read.
//
// In JSON a missing resource decodes as ResourceNone and a missing card as
// NoCard, never as the zero value: a discard without a resource sheds a
// random card and every other kind rejects it.
type Action struct {
	Kind      ActionKind
	Vertex    int
	Edge      int
	Hex       int
	Target    int
	Card      Card
	Resource  Resource
	Resource2 Resource
	Offer     Hand
}

type actionJSON struct {
	Kind      ActionKind `json:"kind"`
	Vertex    int        `json:"vertex,omitempty"`
	Edge      int        `json:"edge,omitempty"`
	Hex       int        `json:"hex,omitempty"`
	Target    int        `json:"target,omitempty"`
	Card      *Card      `json:"card,omitempty"`
	Resource  *Resource  `json:"resource,omitempty"`
	Resource2 *Resource  `json:"resource2,omitempty"`
	Offer     Hand       `json:"offer,omitempty"`
}

// MarshalJSON writes the card and resource fields only for the kinds that
// read them, so Lumber and Soldier survive a round trip.
func (a Action) MarshalJSON() ([]byte, error) {
	w := actionJSON{
		Kind:   a.Kind,
		Vertex: a.Vertex,
		Edge:   a.Edge,
		Hex:    a.Hex,
		Target: a.Target,
		Offer:  a.Offer,
	}
	switch a.Kind {
	case ActPlayCard:
		w.Card = &a.Card
	case ActHarvest:
		w.Resource, w.Resource2 = &a.Resource, &a.Resource2
	case ActMonopoly, ActTrade, ActTradeWith, ActDiscard:
		w.Resource = &a.Resource
	}
	return json.Marshal(w)
}

func (a *Action) UnmarshalJSON(b []byte) error {
	var w actionJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*a = Action{
		Kind:      w.Kind,
		Vertex:    w.Vertex,
		Edge:      w.Edge,
		Hex:       w.Hex,
		Target:    w.Target,
		Card:      NoCard,
		Resource:  ResourceNone,
		Resource2: ResourceNone,
		Offer:     w.Offer,
	}
	if w.Card != nil {
		a.Card = *w.Card
	}
	if w.Resource != nil {
		a.Resource = *w.Resource
	}
	if w.Resource2 != nil {
		a.Resource2 = *w.Resource2
	}
	return nil
}

// Describe returns a short human-readable form of the action.
func (a Action) Describe() string {
	switch a.Kind {
	case ActBuildRoad:
		return fmt.Sprintf("build road on edge %d", a.Edge)
	case ActBuildTown:
		return fmt.Sprintf("build town on vertex %d", a.Vertex)
	case ActBuildCity:
		return fmt.Sprintf("build city on vertex %d", a.Vertex)
	case ActPlayCard:
		return fmt.Sprintf("play %s", a.Card)
	case ActMonopoly:
		return fmt.Sprintf("monopoly on %s", a.Resource)
	case ActHarvest:
		return fmt.Sprintf("harvest %s and %s", a.Resource, a.Resource2)
	case ActTrade:
		return fmt.Sprintf("trade %s for 1 %s", a.Offer, a.Resource)
	case ActTradeWith:
		return fmt.Sprintf("trade %s for 1 %s with player %d", a.Offer, a.Resource, a.Target)
	case ActDiscard:
		return fmt.Sprintf("discard %s", a.Resource)
	case ActMoveRobber:
		return fmt.Sprintf("move robber to hex %d", a.Hex)
	case ActSteal:
		return fmt.Sprintf("steal from player %d", a.Target)
	}
	return string(a.Kind)
}

// Apply dispatches an action for player. Every controller, human or bot,
// goes through the same validators.
func (g *Game) Apply(player int, a Action) error {
	switch a.Kind {
	case ActRoll:
		_, err := g.Roll(player)
		return err
	case ActBuildRoad:
		return g.BuildRoad(player, a.Edge)
	case ActBuildTown:
		return g.BuildTown(player, a.Vertex)
	case ActBuildCity:
		return g.BuildCity(player, a.Vertex)
	case ActBuyCard:
		_, err := g.BuyCard(player)
		return err
	case ActPlayCard:
		return g.UseCard(player, a.Card)
	case ActMonopoly:
		_, err := g.PlayMonopoly(player, a.Resource)
		return err
	case ActHarvest:
		return g.PlayHarvest(player, a.Resource, a.Resource2)
	case ActTrade:
		return g.Trade(player, a.Resource, a.Offer)
	case ActTradeWith:
		return g.TradeWith(player, a.Target, a.Resource, a.Offer)
	case ActDiscard:
		_, err := g.Discard(player, a.Resource)
		return err
	case ActMoveRobber:
		return g.SetRobber(player, a.Hex)
	case ActSteal:
		_, err := g.Steal(player, a.Target)
		return err
	case ActPass:
		return g.Pass(player)
	case ActEndTurn:
		return g.EndTurn(player)
	}
	return reject(a.Kind, player, ErrInvalidAction)
}
