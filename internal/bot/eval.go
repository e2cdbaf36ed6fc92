package bot

import "github.com/freeeve/hexsettlers/pkg/catan"

// production sums the pips a player collects per resource, a city counting
// twice. Gold hexes and the hex under the robber are left out.
func production(g *catan.Game, player int) [catan.NumResources]int {
	var out [catan.NumResources]int
	b := g.Board()
	for _, h := range b.Hexes() {
		res := h.Resource()
		if !res.Valid() || b.HasRobber(h.ID) {
			continue
		}
		for _, v := range h.Vertices {
			vert, _ := b.Vertex(v)
			if vert.Owner == player {
				out[res] += catan.Pips[h.Token] * int(vert.Building)
			}
		}
	}
	return out
}

// openSite reports whether anyone could still settle v: land, empty and
// clear of neighbouring buildings.
func openSite(b *catan.Board, v int) bool {
	vert, ok := b.Vertex(v)
	if !ok || vert.Owner != catan.NoPlayer || !b.IsLandVertex(v) {
		return false
	}
	for _, n := range b.AdjacentVertices(v) {
		if nv, _ := b.Vertex(n); nv.Building != catan.Empty {
			return false
		}
	}
	return true
}

// siteValue rates v as a town site for player: pips, a bonus for each
// resource the player does not produce yet, and harbors that match what the
// player already has plenty of.
func siteValue(g *catan.Game, player, v int) float64 {
	b := g.Board()
	vert, ok := b.Vertex(v)
	if !ok {
		return 0
	}
	prod := production(g, player)
	var seen [catan.NumResources]bool
	score := 0.0
	for _, h := range vert.Hexes {
		hex, _ := b.Hexagon(h)
		if !hex.Terrain.Produces() {
			continue
		}
		pips := float64(catan.Pips[hex.Token])
		if b.HasRobber(h) {
			pips /= 2
		}
		score += pips
		res := hex.Resource()
		switch {
		case res == catan.ResourceAny:
			score += 1.5
		case prod[res] == 0 && !seen[res]:
			score += 2
			seen[res] = true
		}
	}
	if vert.Harbor != catan.None {
		hb, _ := b.Harbor(vert.Harbor)
		switch {
		case hb.Resource == catan.ResourceAny:
			score += 1.5
		case prod[hb.Resource] >= 5:
			score += 3
		default:
			score += 0.5
		}
	}
	return score
}

// reachValue rates a road on e by the best open site it leads to: an
// endpoint counts in full, a site one more edge away at a discount. Sites
// behind an opposing building do not count.
func reachValue(g *catan.Game, player, e int) float64 {
	b := g.Board()
	edge, ok := b.Edge(e)
	if !ok {
		return 0
	}
	best := 0.0
	for _, w := range edge.Vertices {
		if wv, _ := b.Vertex(w); wv.Owner != catan.NoPlayer && wv.Owner != player {
			continue
		}
		if openSite(b, w) {
			best = max(best, siteValue(g, player, w))
		}
		for _, u := range b.AdjacentVertices(w) {
			if u == edge.Other(w) || !openSite(b, u) {
				continue
			}
			best = max(best, 0.6*siteValue(g, player, u))
		}
	}
	return best
}

// leader is the opponent with the most public points, lowest seat on ties.
func leader(g *catan.Game, player int) int {
	best, pts := catan.NoPlayer, -1
	for i := range catan.NumPlayers {
		if i == player {
			continue
		}
		if p := g.PublicPoints(i); p > pts {
			best, pts = i, p
		}
	}
	return best
}

// robberHarm rates how much parking the robber on hex hurts opponents.
// Hexes touching the player's own buildings rate negative.
func robberHarm(g *catan.Game, player, hex int) float64 {
	b := g.Board()
	h, ok := b.Hexagon(hex)
	if !ok {
		return 0
	}
	pips := 0
	if h.Terrain.Produces() {
		pips = catan.Pips[h.Token]
	}
	top := leader(g, player)
	harm := 0.0
	for _, v := range h.Vertices {
		vert, _ := b.Vertex(v)
		switch vert.Owner {
		case catan.NoPlayer:
			continue
		case player:
			return -1
		}
		w := float64(pips * int(vert.Building))
		if vert.Owner == top {
			w *= 2
		}
		harm += w + 0.1
	}
	return harm
}

// shortfall is what hand lacks to pay cost.
func shortfall(hand, cost catan.Hand) catan.Hand {
	var out catan.Hand
	for _, r := range catan.Resources() {
		out[r] = max(cost[r]-hand[r], 0)
	}
	return out
}
