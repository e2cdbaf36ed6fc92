package catan

// BuyCard pays for and draws a development card. An empty deck returns
// ErrDeckEmpty without charging.
func (g *Game) BuyCard(player int) (Card, error) {
	const kind = ActBuyCard
	if err := g.checkTurn(kind, player); err != nil {
		return -1, err
	}
	if g.phase != PhaseBuild {
		return -1, reject(kind, player, ErrWrongPhase)
	}
	p := g.players[player]
	if !p.CanAfford(CardCost, g.cfg.FreeBuild) {
		return -1, reject(kind, player, ErrInsufficientResources)
	}
	if g.deck.Total() == 0 {
		return -1, reject(kind, player, ErrDeckEmpty)
	}

	p.pay(CardCost, g.cfg.FreeBuild)
	card, _ := drawCard(g.rng, &g.deck)
	p.addCard(card)
	g.logf(player, "bought a development card")
	return card, nil
}

// cardPlayable checks the shared preconditions of playing any card.
func (g *Game) cardPlayable(kind ActionKind, player int, card Card) error {
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if g.phase != PhaseProduction && g.phase != PhaseBuild {
		return reject(kind, player, ErrWrongPhase)
	}
	p := g.players[player]
	if card < Soldier || card > Victory || card == Victory || !p.HasCard(card) {
		return reject(kind, player, ErrCardUnavailable)
	}
	if p.UsedCard {
		return reject(kind, player, ErrCardAlreadyUsed)
	}
	return nil
}

// UseCard plays a Soldier (robber phase) or Progress card (two free roads).
// Monopoly and Harvest need a resource choice and go through PlayMonopoly
// and PlayHarvest.
func (g *Game) UseCard(player int, card Card) error {
	const kind = ActPlayCard
	if card == Monopoly || card == Harvest {
		return reject(kind, player, ErrInvalidAction)
	}
	if err := g.cardPlayable(kind, player, card); err != nil {
		return err
	}
	p := g.players[player]
	p.Cards[card]--
	p.UsedCard = true
	switch card {
	case Soldier:
		p.Soldiers++
		g.logf(player, "played a soldier")
		g.updateLargestArmy(player)
		g.fire(EventSoldier)
	case Progress:
		g.logf(player, "played progress")
		g.fire(EventProgress)
	}
	return nil
}

// StartRobberPhase moves the robber by playing a soldier.
func (g *Game) StartRobberPhase(player int) error {
	return g.UseCard(player, Soldier)
}

// StartProgressPhase1 begins free road placement by playing a progress card.
func (g *Game) StartProgressPhase1(player int) error {
	return g.UseCard(player, Progress)
}

// PlayMonopoly takes every card of res from the other players and returns how
// many were collected.
func (g *Game) PlayMonopoly(player int, res Resource) (int, error) {
	const kind = ActMonopoly
	if !res.Valid() {
		return 0, reject(kind, player, ErrInvalidAction)
	}
	if err := g.cardPlayable(kind, player, Monopoly); err != nil {
		return 0, err
	}
	p := g.players[player]
	p.Cards[Monopoly]--
	p.UsedCard = true
	total := 0
	for _, o := range g.players {
		if o.Index == player {
			continue
		}
		total += o.Hand[res]
		o.Hand[res] = 0
	}
	p.Hand[res] += total
	g.logf(player, "played monopoly on %s for %d", res, total)
	return total, nil
}

// PlayHarvest takes one card of each chosen resource from the bank.
func (g *Game) PlayHarvest(player int, r1, r2 Resource) error {
	const kind = ActHarvest
	if !r1.Valid() || !r2.Valid() {
		return reject(kind, player, ErrInvalidAction)
	}
	if err := g.cardPlayable(kind, player, Harvest); err != nil {
		return err
	}
	p := g.players[player]
	p.Cards[Harvest]--
	p.UsedCard = true
	p.Hand[r1]++
	p.Hand[r2]++
	g.logf(player, "played harvest for %s and %s", r1, r2)
	return nil
}

// Trade exchanges offered cards with the bank for one unit of want. The
// ratio is re-checked here no matter what the caller verified.
func (g *Game) Trade(player int, want Resource, offer Hand) error {
	const kind = ActTrade
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if g.phase != PhaseBuild {
		return reject(kind, player, ErrWrongPhase)
	}
	p := g.players[player]
	cost, err := p.tradeCost(want, offer, g.cfg.MixedTrade)
	if err != nil {
		return reject(kind, player, err)
	}
	p.Hand = p.Hand.Sub(cost)
	p.Hand[want]++
	g.logf(player, "traded %s for 1 %s", cost, want)
	return nil
}

// TradeWith swaps offer for one unit of want with another player. Agreement
// between the players is negotiated outside the engine.
func (g *Game) TradeWith(player, partner int, want Resource, offer Hand) error {
	const kind = ActTradeWith
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if g.phase != PhaseBuild {
		return reject(kind, player, ErrWrongPhase)
	}
	if partner < 0 || partner >= NumPlayers || partner == player {
		return reject(kind, player, ErrInvalidAction)
	}
	if !want.Valid() || offer.Negative() || offer.Total() == 0 || offer[want] > 0 {
		return reject(kind, player, ErrInvalidTrade)
	}
	p, o := g.players[player], g.players[partner]
	if !p.Hand.Covers(offer) || o.Hand[want] < 1 {
		return reject(kind, player, ErrInsufficientResources)
	}

	p.Hand = p.Hand.Sub(offer)
	o.Hand = o.Hand.Add(offer)
	o.Hand[want]--
	p.Hand[want]++
	g.logf(player, "traded %s to %s for 1 %s", offer, o.Name, want)
	return nil
}

// EndTurn passes play to the next player's production phase.
func (g *Game) EndTurn(player int) error {
	const kind = ActEndTurn
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if !g.canFire(EventEndTurn) {
		return reject(kind, player, ErrWrongPhase)
	}
	g.fire(EventEndTurn)
	return nil
}

// Pass declines an optional step: the remaining free roads of a progress
// card, or the steal after moving the robber.
func (g *Game) Pass(player int) error {
	const kind = ActPass
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	switch {
	case g.phase == PhaseProgress1 || g.phase == PhaseProgress2:
		g.logf(player, "gave up remaining free roads")
		g.fire(EventProgressForfeit)
	case g.phase == PhaseRobber && g.robberMoved:
		g.fire(EventRobberDone)
	default:
		return reject(kind, player, ErrWrongPhase)
	}
	return nil
}

// SkipSteal ends the robber phase without stealing once the robber has moved.
func (g *Game) SkipSteal(player int) error {
	if err := g.checkTurn(ActPass, player); err != nil {
		return err
	}
	switch {
	case g.phase != PhaseRobber:
		return reject(ActPass, player, ErrWrongPhase)
	case !g.robberMoved:
		return reject(ActPass, player, ErrRobberNotPlaced)
	}
	return g.Pass(player)
}

// NextPhase ends the build phase. It is EndTurn under its phase-machine name.
func (g *Game) NextPhase(player int) error {
	return g.EndTurn(player)
}
