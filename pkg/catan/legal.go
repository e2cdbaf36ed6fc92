package catan

// LegalActions enumerates the actions Apply would accept from player in the
// current state. Discards are listed per resource held; bank trades use the
// offers FindTrades suggests.
func (g *Game) LegalActions(player int) []Action {
	if g.phase == PhaseDone || player < 0 || player >= NumPlayers {
		return nil
	}
	for _, d := range g.discards {
		if d.Player == player {
			var out []Action
			for _, r := range Resources() {
				if g.players[player].Hand[r] > 0 {
					out = append(out, Action{Kind: ActDiscard, Resource: r})
				}
			}
			return out
		}
	}
	if player != g.turn {
		return nil
	}

	var out []Action
	switch g.phase {
	case PhaseSetupSettlement, PhaseSetupCity:
		for _, v := range g.LegalTowns(player) {
			out = append(out, Action{Kind: ActBuildTown, Vertex: v})
		}
	case PhaseSetupFirstRoad, PhaseSetupSecondRoad:
		for _, e := range g.LegalRoads(player) {
			out = append(out, Action{Kind: ActBuildRoad, Edge: e})
		}
	case PhaseProduction:
		out = append(out, Action{Kind: ActRoll})
		out = append(out, g.cardActions(player)...)
	case PhaseBuild:
		for _, e := range g.LegalRoads(player) {
			out = append(out, Action{Kind: ActBuildRoad, Edge: e})
		}
		for _, v := range g.LegalTowns(player) {
			out = append(out, Action{Kind: ActBuildTown, Vertex: v})
		}
		for _, v := range g.LegalCities(player) {
			out = append(out, Action{Kind: ActBuildCity, Vertex: v})
		}
		if g.CanBuyCard(player) {
			out = append(out, Action{Kind: ActBuyCard})
		}
		out = append(out, g.cardActions(player)...)
		for _, want := range Resources() {
			for _, offer := range g.FindTrades(player, want) {
				out = append(out, Action{Kind: ActTrade, Resource: want, Offer: offer})
			}
		}
		out = append(out, Action{Kind: ActEndTurn})
	case PhaseProgress1, PhaseProgress2:
		for _, e := range g.LegalRoads(player) {
			out = append(out, Action{Kind: ActBuildRoad, Edge: e})
		}
		out = append(out, Action{Kind: ActPass})
	case PhaseRobber:
		if len(g.discards) > 0 {
			return nil
		}
		if !g.robberMoved {
			for _, h := range g.LegalRobberHexes() {
				out = append(out, Action{Kind: ActMoveRobber, Hex: h})
			}
			return out
		}
		for _, v := range g.StealCandidates(player) {
			out = append(out, Action{Kind: ActSteal, Target: v})
		}
		out = append(out, Action{Kind: ActPass})
	}
	return out
}

func (g *Game) cardActions(player int) []Action {
	p := g.players[player]
	if p.UsedCard {
		return nil
	}
	var out []Action
	if p.HasCard(Soldier) {
		out = append(out, Action{Kind: ActPlayCard, Card: Soldier})
	}
	if p.HasCard(Progress) {
		out = append(out, Action{Kind: ActPlayCard, Card: Progress})
	}
	if p.HasCard(Monopoly) {
		for _, r := range Resources() {
			out = append(out, Action{Kind: ActMonopoly, Resource: r})
		}
	}
	if p.HasCard(Harvest) {
		for _, r1 := range Resources() {
			for _, r2 := range Resources() {
				if r2 >= r1 {
					out = append(out, Action{Kind: ActHarvest, Resource: r1, Resource2: r2})
				}
			}
		}
	}
	return out
}

// DefaultAction is a legal action that always moves the game forward: the
// first placement in setup, a roll, ending the turn, moving the robber to the
// first open hex, or passing. It is what a driver falls back on when a
// controller's choice is rejected.
func (g *Game) DefaultAction(player int) (Action, bool) {
	if g.phase == PhaseDone {
		return Action{}, false
	}
	for _, d := range g.discards {
		if d.Player == player {
			return Action{Kind: ActDiscard, Resource: ResourceNone}, true
		}
	}
	if player != g.turn {
		return Action{}, false
	}
	switch g.phase {
	case PhaseSetupSettlement, PhaseSetupCity:
		if towns := g.LegalTowns(player); len(towns) > 0 {
			return Action{Kind: ActBuildTown, Vertex: towns[0]}, true
		}
	case PhaseSetupFirstRoad, PhaseSetupSecondRoad:
		if roads := g.LegalRoads(player); len(roads) > 0 {
			return Action{Kind: ActBuildRoad, Edge: roads[0]}, true
		}
	case PhaseProduction:
		return Action{Kind: ActRoll}, true
	case PhaseBuild:
		return Action{Kind: ActEndTurn}, true
	case PhaseProgress1, PhaseProgress2:
		return Action{Kind: ActPass}, true
	case PhaseRobber:
		if len(g.discards) > 0 {
			return Action{}, false
		}
		if !g.robberMoved {
			if hexes := g.LegalRobberHexes(); len(hexes) > 0 {
				return Action{Kind: ActMoveRobber, Hex: hexes[0]}, true
			}
			return Action{}, false
		}
		return Action{Kind: ActPass}, true
	}
	return Action{}, false
}
