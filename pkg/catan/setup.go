package catan

import "fmt"

const (
	maxTokenAttempts = 10000
	maxTokenRestarts = 100
)

// NewBoard builds the geometry for radius and randomizes its layout: terrain,
// number tokens, harbors and the robber's starting desert.
func NewBoard(radius int, rng Rand) (*Board, error) {
	b, err := BuildGeometry(radius)
	if err != nil {
		return nil, err
	}
	b.assignTerrain(rng)
	if err := b.assignTokens(rng); err != nil {
		return nil, err
	}
	if err := b.assignHarbors(rng); err != nil {
		return nil, err
	}
	b.placeInitialRobber()
	return b, nil
}

// assignTerrain deals each terrain type into a random subset of hex slots.
func (b *Board) assignTerrain(rng Rand) {
	counts := terrainCounts(b.radius)
	deck := make([]Terrain, 0, len(b.hexes))
	for _, t := range terrainOrder {
		for range counts[t] {
			deck = append(deck, t)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for i := range b.hexes {
		b.hexes[i].Terrain = deck[i]
		b.hexes[i].Token = 0
		if deck[i] == Desert {
			b.hexes[i].Token = 7
		}
	}
}

// assignTokens places the dice sums. Sixes and eights go first onto
// producing hexes not adjacent to one another; the rest fill the remaining
// producing hexes in id order. A pass that paints itself into a corner is
// retried from scratch.
func (b *Board) assignTokens(rng Rand) error {
	want := tokenCounts(b.radius)
	producing := 0
	for _, h := range b.hexes {
		if h.Terrain.Produces() {
			producing++
		}
	}
	total := 0
	for _, n := range want {
		total += n
	}
	if total != producing {
		return &TopologyError{b.radius, fmt.Sprintf("%d number tokens for %d producing hexes", total, producing)}
	}

	for range maxTokenRestarts {
		if b.tryAssignTokens(rng, want) {
			return nil
		}
	}
	return &TopologyError{b.radius, "could not separate 6 and 8 tokens"}
}

func (b *Board) tryAssignTokens(rng Rand, want [13]int) bool {
	for i := range b.hexes {
		if b.hexes[i].Terrain.Produces() {
			b.hexes[i].Token = 0
		}
	}

	for _, sum := range []int{6, 8} {
		for range want[sum] {
			placed := false
			for range maxTokenAttempts {
				id := rng.Intn(len(b.hexes))
				if b.canHoldHotToken(id) {
					b.hexes[id].Token = sum
					placed = true
					break
				}
			}
			if !placed {
				return false
			}
		}
	}

	left := want
	left[6], left[8] = 0, 0
	for i := range b.hexes {
		h := &b.hexes[i]
		if !h.Terrain.Produces() || h.Token != 0 {
			continue
		}
		for {
			sum := rng.Intn(11) + 2
			if left[sum] > 0 {
				left[sum]--
				h.Token = sum
				break
			}
		}
	}
	return true
}

func (b *Board) canHoldHotToken(id int) bool {
	h := b.hexes[id]
	if h.Token != 0 || !h.Terrain.Produces() {
		return false
	}
	for _, n := range b.NeighborHexes(id) {
		if t := b.hexes[n].Token; t == 6 || t == 8 {
			return false
		}
	}
	return true
}

// assignHarbors picks the harbor edges and deals one harbor per resource plus
// generic ones onto them.
func (b *Board) assignHarbors(rng Rand) error {
	edges, err := b.chooseHarborEdges(rng, NumHarbors)
	if err != nil {
		return err
	}
	kinds := make([]Resource, 0, NumHarbors)
	kinds = append(kinds, Resources()...)
	for len(kinds) < NumHarbors {
		kinds = append(kinds, ResourceAny)
	}
	rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	b.harbors = b.harbors[:0]
	for i, e := range edges {
		b.placeHarbor(e, kinds[i])
	}
	return nil
}

func (b *Board) placeInitialRobber() {
	b.robber = None
	for _, h := range b.hexes {
		if h.Terrain == Desert {
			b.robber = h.ID
			return
		}
	}
}
