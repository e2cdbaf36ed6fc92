package catan

// Terrain is the land type of a hexagon.
type Terrain string

const (
	Forest    Terrain = "forest"
	Pasture   Terrain = "pasture"
	Fields    Terrain = "fields"
	Hills     Terrain = "hills"
	Mountains Terrain = "mountains"
	Desert    Terrain = "desert"
	Sea       Terrain = "sea"
	GoldField Terrain = "gold"
)

// terrainOrder fixes the iteration order used when laying out terrain so that
// a seeded rng always produces the same board.
var terrainOrder = []Terrain{Forest, Pasture, Fields, Hills, Mountains, Desert, GoldField, Sea}

// Resource returns the resource produced by the terrain. GoldField reports
// ResourceAny since the recipient picks per unit.
func (t Terrain) Resource() Resource {
	switch t {
	case Forest:
		return Lumber
	case Pasture:
		return Wool
	case Fields:
		return Grain
	case Hills:
		return Brick
	case Mountains:
		return Ore
	case GoldField:
		return ResourceAny
	}
	return ResourceNone
}

// IsLand reports whether the terrain is buildable ground (anything but sea).
func (t Terrain) IsLand() bool {
	return t != Sea && t != ""
}

// Produces reports whether hexes of this terrain carry a number token.
func (t Terrain) Produces() bool {
	return t.Resource() != ResourceNone
}

// terrainCounts returns how many hexes of each terrain a board of the given
// radius holds. The counts always sum to the radius' hex count.
func terrainCounts(radius int) map[Terrain]int {
	if radius == 2 {
		return map[Terrain]int{
			Forest:    4,
			Pasture:   4,
			Fields:    4,
			Hills:     3,
			Mountains: 3,
			Desert:    1,
		}
	}
	counts := map[Terrain]int{
		Forest:    4,
		Pasture:   4,
		Fields:    5,
		Hills:     3,
		Mountains: 4,
		Desert:    2,
		GoldField: 2,
	}
	land := 0
	for _, n := range counts {
		land += n
	}
	counts[Sea] = HexCount(radius) - land
	return counts
}

// tokenCounts returns COUNT_PER_DICE_SUM for the given radius: how many
// producing hexes carry each dice sum. Index 7 is always zero.
func tokenCounts(radius int) [13]int {
	if radius == 2 {
		return [13]int{0, 0, 1, 2, 2, 2, 2, 0, 2, 2, 2, 2, 1}
	}
	return [13]int{0, 0, 1, 2, 3, 3, 2, 0, 2, 3, 3, 2, 1}
}

// Pips is the number of two-dice outcomes (out of 36) that produce each sum.
var Pips = [13]int{0, 0, 1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}
