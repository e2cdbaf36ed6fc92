package catan

// Titles are claimed by exceeding these; a road of 5 or an army of 3 is the
// first to qualify.
const (
	longestRoadThreshold = 4
	largestArmyThreshold = 2
)

// longestRoad returns the length of the player's longest simple road. Every
// owned edge is tried as a starting point in both directions, and the search
// backtracks exhaustively. Edges on the current path carry the traversal
// generation so they are not walked twice within one path. An opponent's
// building ends the road at that vertex.
func (b *Board) longestRoad(player int) int {
	best := 0
	for e := range b.edges {
		if b.edges[e].Owner != player {
			continue
		}
		for _, start := range b.edges[e].Vertices {
			b.roadGen++
			best = max(best, b.walkRoad(e, start, player))
		}
	}
	return best
}

func (b *Board) walkRoad(e, from, player int) int {
	b.roadMark[e] = b.roadGen
	to := b.edges[e].Other(from)
	best := 0
	if !b.blocksRoad(to, player) {
		for _, next := range b.vertices[to].Edges {
			if b.edges[next].Owner != player || b.roadMark[next] == b.roadGen {
				continue
			}
			best = max(best, b.walkRoad(next, to, player))
		}
	}
	b.roadMark[e] = 0
	return best + 1
}

func (b *Board) blocksRoad(v, player int) bool {
	owner := b.vertices[v].Owner
	return owner != NoPlayer && owner != player
}

// updateLongestRoad recomputes every player's road and reassigns the title.
// The holder keeps it while still tied for the maximum; otherwise it moves to
// the unique longest road above the threshold, or to nobody on a tie.
func (g *Game) updateLongestRoad() {
	best := 0
	for _, p := range g.players {
		p.RoadLength = g.board.longestRoad(p.Index)
		best = max(best, p.RoadLength)
	}

	prev := g.longestRoadOwner
	g.longestRoadOwner = NoPlayer
	g.longestRoad = longestRoadThreshold
	if best <= longestRoadThreshold {
		return
	}
	g.longestRoad = best
	if prev != NoPlayer && g.players[prev].RoadLength == best {
		g.longestRoadOwner = prev
		return
	}
	holders := 0
	for _, p := range g.players {
		if p.RoadLength == best {
			holders++
			g.longestRoadOwner = p.Index
		}
	}
	if holders > 1 {
		g.longestRoadOwner = NoPlayer
	}
	if prev != g.longestRoadOwner && g.longestRoadOwner != NoPlayer {
		g.logf(g.longestRoadOwner, "took longest road (%d)", best)
	}
}

// updateLargestArmy hands the title to player if their army strictly
// exceeds the current record.
func (g *Game) updateLargestArmy(player int) {
	p := g.players[player]
	if p.Soldiers > g.largestArmy {
		g.largestArmy = p.Soldiers
		if g.largestArmyOwner != player {
			g.logf(player, "took largest army (%d)", p.Soldiers)
		}
		g.largestArmyOwner = player
	}
}
