package catan

// Roll throws two dice for the current player. A seven collects discards and
// enters the robber phase; any other sum pays out resources.
func (g *Game) Roll(player int) (int, error) {
	const kind = ActRoll
	if err := g.checkTurn(kind, player); err != nil {
		return 0, err
	}
	if g.phase != PhaseProduction {
		return 0, reject(kind, player, ErrWrongPhase)
	}

	roll := rollDie(g.rng) + rollDie(g.rng)
	g.lastRoll = roll
	g.logf(player, "rolled %d", roll)
	if roll == 7 {
		g.collectDiscards()
		g.fire(EventRolledSeven)
		return roll, nil
	}
	g.distribute(roll)
	g.fire(EventRolled)
	return roll, nil
}

// distribute pays every building around each unblocked hex showing roll:
// one unit per town, two per city.
func (g *Game) distribute(roll int) {
	for _, h := range g.board.hexes {
		if h.Token != roll || !h.Terrain.Produces() || g.board.HasRobber(h.ID) {
			continue
		}
		res := h.Resource()
		for _, v := range h.Vertices {
			vert := g.board.vertices[v]
			if vert.Owner == NoPlayer {
				continue
			}
			before := g.players[vert.Owner].Hand
			g.grant(vert.Owner, res, int(vert.Building))
			g.logf(vert.Owner, "received %s", g.players[vert.Owner].Hand.Sub(before))
		}
	}
}

// collectDiscards charges everyone holding more than seven cards half their
// hand. Controllers that can decide on the spot do so; a bad answer is
// replaced by a random discard. The rest are queued unless auto discard is on.
func (g *Game) collectDiscards() {
	g.discards = nil
	for i, p := range g.players {
		n := p.discardHalf()
		if n == 0 {
			continue
		}
		if set, ok := g.ctrls[i].DiscardSet(g, i, n); ok {
			if set.Negative() || set.Total() != n || !p.Hand.Covers(set) {
				g.discardRandom(i, n)
				continue
			}
			p.Hand = p.Hand.Sub(set)
			g.logf(i, "discarded %s", set)
			continue
		}
		if g.cfg.AutoDiscard {
			g.discardRandom(i, n)
			continue
		}
		g.discards = append(g.discards, PendingDiscard{Player: i, Count: n})
	}
}

func (g *Game) discardRandom(player, n int) {
	p := g.players[player]
	var lost Hand
	for range n {
		r := randomCard(g.rng, p.Hand)
		if r == ResourceNone {
			break
		}
		p.Hand[r]--
		lost[r]++
	}
	g.logf(player, "discarded %s", lost)
}

// Discard sheds one card owed after a seven. ResourceNone picks a random
// card. A player not in the queue gets ErrNoDiscardPending.
func (g *Game) Discard(player int, res Resource) (Resource, error) {
	const kind = ActDiscard
	if g.phase == PhaseDone {
		return ResourceNone, reject(kind, player, ErrGameOver)
	}
	idx := -1
	for i, d := range g.discards {
		if d.Player == player {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ResourceNone, reject(kind, player, ErrNoDiscardPending)
	}
	p := g.players[player]
	if res == ResourceNone {
		res = randomCard(g.rng, p.Hand)
		if res == ResourceNone {
			g.discards = append(g.discards[:idx], g.discards[idx+1:]...)
			return ResourceNone, nil
		}
	}
	if !res.Valid() {
		return ResourceNone, reject(kind, player, ErrInvalidAction)
	}
	if p.Hand[res] < 1 {
		return ResourceNone, reject(kind, player, ErrInsufficientResources)
	}

	p.Hand[res]--
	g.discards[idx].Count--
	if g.discards[idx].Count == 0 {
		g.discards = append(g.discards[:idx], g.discards[idx+1:]...)
	}
	g.logf(player, "discarded 1 %s", res)
	return res, nil
}

// LegalRobberHexes lists the land hexes the robber may move to.
func (g *Game) LegalRobberHexes() []int {
	if g.phase != PhaseRobber || g.robberMoved {
		return nil
	}
	var out []int
	for _, h := range g.board.hexes {
		if h.Terrain.IsLand() && h.ID != g.prevRobber {
			out = append(out, h.ID)
		}
	}
	return out
}

// SetRobber moves the robber. It must land on a different land hex, and only
// after every pending discard is settled. With nobody to rob the robber phase
// ends immediately; otherwise Steal or Pass finishes it.
func (g *Game) SetRobber(player, hex int) error {
	const kind = ActMoveRobber
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if g.phase != PhaseRobber || g.robberMoved {
		return reject(kind, player, ErrWrongPhase)
	}
	if len(g.discards) > 0 {
		return reject(kind, player, ErrDiscardPending)
	}
	h, ok := g.board.Hexagon(hex)
	if !ok {
		return reject(kind, player, ErrUnknownID)
	}
	if hex == g.prevRobber {
		return reject(kind, player, ErrSameRobberHex)
	}
	if !h.Terrain.IsLand() {
		return reject(kind, player, ErrNotLand)
	}

	g.board.robber = hex
	g.robberMoved = true
	g.logf(player, "moved the robber to hex %d", hex)
	if len(g.StealCandidates(player)) == 0 {
		g.fire(EventRobberDone)
	}
	return nil
}

// StealCandidates lists the other players with a building on the robber's
// hex, in seat order.
func (g *Game) StealCandidates(player int) []int {
	var seen [NumPlayers]bool
	for _, v := range g.board.hexes[g.board.robber].Vertices {
		if o := g.board.vertices[v].Owner; o != NoPlayer && o != player {
			seen[o] = true
		}
	}
	var out []int
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Steal takes one random card from victim, each card equally likely. A
// victim with an empty hand yields ResourceNone.
func (g *Game) Steal(player, victim int) (Resource, error) {
	const kind = ActSteal
	if err := g.checkTurn(kind, player); err != nil {
		return ResourceNone, err
	}
	if g.phase != PhaseRobber {
		return ResourceNone, reject(kind, player, ErrWrongPhase)
	}
	if !g.robberMoved {
		return ResourceNone, reject(kind, player, ErrRobberNotPlaced)
	}
	eligible := false
	for _, c := range g.StealCandidates(player) {
		if c == victim {
			eligible = true
		}
	}
	if !eligible {
		return ResourceNone, reject(kind, player, ErrNotVictim)
	}

	v := g.players[victim]
	res := randomCard(g.rng, v.Hand)
	if res != ResourceNone {
		v.Hand[res]--
		g.players[player].Hand[res]++
		g.logf(player, "stole from %s", v.Name)
	}
	g.fire(EventRobberDone)
	return res, nil
}
