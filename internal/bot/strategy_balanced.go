package bot

import (
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// BalancedStrategy settles high-yield, diverse sites, upgrades before it
// expands, and trades with the bank toward whatever it is saving for.
type BalancedStrategy struct {
	rng dice
}

func (*BalancedStrategy) Name() string { return NameBalanced }

func (s *BalancedStrategy) Decide(g *catan.Game, player int) catan.Action {
	switch g.Phase() {
	case catan.PhaseSetupSettlement, catan.PhaseSetupCity:
		if v, ok := s.bestSite(g, player, g.LegalTowns(player)); ok {
			return catan.Action{Kind: catan.ActBuildTown, Vertex: v}
		}
	case catan.PhaseSetupFirstRoad, catan.PhaseSetupSecondRoad, catan.PhaseProgress1, catan.PhaseProgress2:
		if e, ok := s.bestRoad(g, player, g.LegalRoads(player)); ok {
			return catan.Action{Kind: catan.ActBuildRoad, Edge: e}
		}
		return catan.Action{Kind: catan.ActPass}
	case catan.PhaseProduction:
		if s.wantSoldier(g, player) {
			return catan.Action{Kind: catan.ActPlayCard, Card: catan.Soldier}
		}
		return catan.Action{Kind: catan.ActRoll}
	case catan.PhaseBuild:
		return s.decideBuild(g, player)
	case catan.PhaseRobber:
		return s.decideRobber(g, player)
	}
	a, _ := g.DefaultAction(player)
	return a
}

// decideBuild works down the priority list: city, town, card plays, bank
// trades toward the current goal, development card, road, end of turn.
func (s *BalancedStrategy) decideBuild(g *catan.Game, player int) catan.Action {
	if cities := g.LegalCities(player); len(cities) > 0 {
		best, bestPips := cities[0], -1
		for _, v := range cities {
			if p := g.Board().VertexPips(v); p > bestPips {
				best, bestPips = v, p
			}
		}
		return catan.Action{Kind: catan.ActBuildCity, Vertex: best}
	}
	if v, ok := s.bestSite(g, player, g.LegalTowns(player)); ok {
		return catan.Action{Kind: catan.ActBuildTown, Vertex: v}
	}
	if a, ok := s.playCard(g, player); ok {
		return a
	}

	goal, goalCost := s.goal(g, player)
	if a, ok := s.tradeToward(g, player, goalCost); ok {
		return a
	}
	p, _ := g.Player(player)
	spare := func(cost catan.Hand) bool {
		return shortfall(p.Hand.Sub(cost), goalCost) == shortfall(p.Hand, goalCost)
	}
	if g.CanBuyCard(player) && (goal == catan.ActBuyCard || spare(catan.CardCost)) {
		return catan.Action{Kind: catan.ActBuyCard}
	}
	if goal == catan.ActBuildRoad || spare(catan.RoadCost) {
		if e, ok := s.bestRoad(g, player, g.LegalRoads(player)); ok {
			return catan.Action{Kind: catan.ActBuildRoad, Edge: e}
		}
	}
	return catan.Action{Kind: catan.ActEndTurn}
}

// goal picks what to save for next. Roads only become the goal when they
// lead somewhere worth settling and no town site is already reachable.
func (s *BalancedStrategy) goal(g *catan.Game, player int) (catan.ActionKind, catan.Hand) {
	p, _ := g.Player(player)
	if p.Cities < catan.MaxCities && p.Towns > 0 {
		return catan.ActBuildCity, catan.CityCost
	}
	if p.Towns < catan.MaxTowns && len(g.TownSites(player)) > 0 {
		return catan.ActBuildTown, catan.TownCost
	}
	if p.Roads < catan.MaxRoads && p.Towns < catan.MaxTowns {
		if _, ok := s.bestRoad(g, player, g.RoadSites(player)); ok {
			return catan.ActBuildRoad, catan.RoadCost
		}
	}
	if g.DeckRemaining() > 0 {
		return catan.ActBuyCard, catan.CardCost
	}
	return catan.ActEndTurn, catan.Hand{}
}

// tradeToward offers surplus cards to the bank for a missing resource.
// Only cards the goal does not need are offered, so every trade moves the
// hand strictly closer to the goal.
func (s *BalancedStrategy) tradeToward(g *catan.Game, player int, cost catan.Hand) (catan.Action, bool) {
	p, _ := g.Player(player)
	missing := shortfall(p.Hand, cost)
	if missing.Total() == 0 {
		return catan.Action{}, false
	}
	for _, want := range catan.Resources() {
		if missing[want] == 0 {
			continue
		}
		for _, offer := range g.FindTrades(player, want) {
			if spare := p.Hand.Sub(offer); !spare.Negative() && spare.Covers(cost.Sub(missing)) {
				return catan.Action{Kind: catan.ActTrade, Resource: want, Offer: offer}, true
			}
		}
	}
	return catan.Action{}, false
}

// playCard uses a held Harvest or Monopoly when it pays off.
func (s *BalancedStrategy) playCard(g *catan.Game, player int) (catan.Action, bool) {
	p, _ := g.Player(player)
	if p.UsedCard {
		return catan.Action{}, false
	}
	if p.HasCard(catan.Harvest) {
		_, cost := s.goal(g, player)
		missing := shortfall(p.Hand, cost)
		r1, r2 := catan.Ore, catan.Grain
		var picked []catan.Resource
		for _, r := range catan.Resources() {
			for range missing[r] {
				picked = append(picked, r)
			}
		}
		if len(picked) > 0 {
			r1 = picked[0]
			r2 = r1
			if len(picked) > 1 {
				r2 = picked[1]
			}
		}
		return catan.Action{Kind: catan.ActHarvest, Resource: r1, Resource2: r2}, true
	}
	if p.HasCard(catan.Monopoly) {
		var held catan.Hand
		for i := range catan.NumPlayers {
			if i == player {
				continue
			}
			op, _ := g.Player(i)
			held = held.Add(op.Hand)
		}
		best, n := catan.ResourceNone, 2
		for _, r := range catan.Resources() {
			if held[r] > n {
				best, n = r, held[r]
			}
		}
		if best != catan.ResourceNone {
			return catan.Action{Kind: catan.ActMonopoly, Resource: best}, true
		}
	}
	if p.HasCard(catan.Progress) && p.Roads+2 <= catan.MaxRoads {
		if _, ok := s.bestRoad(g, player, g.RoadSites(player)); ok {
			return catan.Action{Kind: catan.ActPlayCard, Card: catan.Progress}, true
		}
	}
	if s.wantSoldier(g, player) {
		return catan.Action{Kind: catan.ActPlayCard, Card: catan.Soldier}, true
	}
	return catan.Action{}, false
}

// wantSoldier plays a soldier when the robber blocks one of the player's
// own hexes, or when one more soldier would take the largest army.
func (s *BalancedStrategy) wantSoldier(g *catan.Game, player int) bool {
	p, _ := g.Player(player)
	if p.UsedCard || !p.HasCard(catan.Soldier) {
		return false
	}
	if robberHarm(g, player, g.Board().Robber()) < 0 {
		return true
	}
	return g.LargestArmyOwner() != player && p.Soldiers+1 > max(g.LargestArmy(), 2)
}

func (s *BalancedStrategy) decideRobber(g *catan.Game, player int) catan.Action {
	if !g.RobberMoved() {
		hexes := g.LegalRobberHexes()
		if len(hexes) == 0 {
			return catan.Action{Kind: catan.ActPass}
		}
		best, bestHarm := hexes[0], -2.0
		for _, h := range hexes {
			if harm := robberHarm(g, player, h); harm > bestHarm {
				best, bestHarm = h, harm
			}
		}
		return catan.Action{Kind: catan.ActMoveRobber, Hex: best}
	}
	victim, most := catan.NoPlayer, 0
	for _, v := range g.StealCandidates(player) {
		if p, _ := g.Player(v); p.Hand.Total() > most {
			victim, most = v, p.Hand.Total()
		}
	}
	if victim == catan.NoPlayer {
		return catan.Action{Kind: catan.ActPass}
	}
	return catan.Action{Kind: catan.ActSteal, Target: victim}
}

// Discard sheds from the largest piles first, keeping the hand spread out.
func (s *BalancedStrategy) Discard(g *catan.Game, player, count int) catan.Hand {
	p, _ := g.Player(player)
	hand := p.Hand
	var out catan.Hand
	for range count {
		r := catan.ResourceNone
		for _, c := range catan.Resources() {
			if hand[c] > 0 && (r == catan.ResourceNone || hand[c] > hand[r]) {
				r = c
			}
		}
		if r == catan.ResourceNone {
			break
		}
		hand[r]--
		out[r]++
	}
	return out
}

// bestSite picks the highest rated vertex, breaking ties at random.
func (s *BalancedStrategy) bestSite(g *catan.Game, player int, sites []int) (int, bool) {
	best, bestScore, ties := catan.None, -1.0, 0
	for _, v := range sites {
		score := siteValue(g, player, v)
		switch {
		case score > bestScore:
			best, bestScore, ties = v, score, 1
		case score == bestScore:
			ties++
			if s.rng.intn(ties) == 0 {
				best = v
			}
		}
	}
	return best, best != catan.None
}

// bestRoad picks the edge leading to the best open site. Edges leading
// nowhere are not worth a road.
func (s *BalancedStrategy) bestRoad(g *catan.Game, player int, edges []int) (int, bool) {
	best, bestScore := catan.None, 0.0
	for _, e := range edges {
		if score := reachValue(g, player, e); score > bestScore {
			best, bestScore = e, score
		}
	}
	if best == catan.None && g.IsSetup() && len(edges) > 0 {
		return edges[s.rng.intn(len(edges))], true
	}
	return best, best != catan.None
}
