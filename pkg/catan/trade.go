package catan

// tradeCost works out what the bank takes from offer in exchange for one
// unit of want. A matching 2:1 harbor is used first, then the player's
// generic ratio on a single resource, then (when mixed trades are enabled)
// any combination of offered cards.
func (p *Player) tradeCost(want Resource, offer Hand, mixed bool) (Hand, error) {
	if !want.Valid() || offer.Negative() || offer[want] > 0 || offer.Total() == 0 {
		return Hand{}, ErrInvalidTrade
	}
	if !p.Hand.Covers(offer) {
		return Hand{}, ErrInsufficientResources
	}
	for _, r := range Resources() {
		if p.Harbors[r] && offer[r] >= 2 {
			return Single(r, 2), nil
		}
	}
	for _, r := range Resources() {
		if offer[r] >= p.TradeRatio {
			return Single(r, p.TradeRatio), nil
		}
	}
	if !mixed || offer.Total() < p.TradeRatio {
		return Hand{}, ErrInvalidTrade
	}
	var cost Hand
	need := p.TradeRatio
	for _, r := range Resources() {
		take := min(offer[r], need)
		cost[r] = take
		need -= take
		if need == 0 {
			break
		}
	}
	return cost, nil
}

// CanTrade reports whether offer buys one unit of want from the bank.
func (g *Game) CanTrade(player int, want Resource, offer Hand) bool {
	if player < 0 || player >= NumPlayers {
		return false
	}
	_, err := g.players[player].tradeCost(want, offer, g.cfg.MixedTrade)
	return err == nil
}

// FindTrades lists the cheapest offers the player could make for one unit of
// want: a single-resource offer per resource at its best ratio and, with
// mixed trades enabled, one combined offer when no single resource suffices.
func (g *Game) FindTrades(player int, want Resource) []Hand {
	if player < 0 || player >= NumPlayers || !want.Valid() {
		return nil
	}
	p := g.players[player]
	var out []Hand
	for _, r := range Resources() {
		if r == want {
			continue
		}
		ratio := p.TradeRatio
		if p.Harbors[r] {
			ratio = 2
		}
		if p.Hand[r] >= ratio {
			out = append(out, Single(r, ratio))
		}
	}
	if len(out) > 0 || !g.cfg.MixedTrade {
		return out
	}
	var mixed Hand
	need := p.TradeRatio
	for _, r := range Resources() {
		if r == want || need == 0 {
			continue
		}
		take := min(p.Hand[r], need)
		mixed[r] = take
		need -= take
	}
	if need == 0 {
		out = append(out, mixed)
	}
	return out
}
