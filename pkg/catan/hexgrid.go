package catan

// Coord is an axial hex coordinate. The implied third cube coordinate is
// S = -Q-R.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Direction indexes the six sides of a hex clockwise. Side d of a hex lies
// between its corners d and d+1, and faces the neighbour at Neighbor(d).
type Direction int

const numDirections = 6

var axialDirections = [numDirections]Coord{
	{1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1},
}

// Opposite returns the side facing back from the neighbour.
func (d Direction) Opposite() Direction { return (d + 3) % numDirections }

// S returns the cube coordinate s = -q-r.
func (c Coord) S() int { return -c.Q - c.R }

// Neighbor returns the coordinate across side d.
func (c Coord) Neighbor(d Direction) Coord {
	o := axialDirections[((d%numDirections)+numDirections)%numDirections]
	return Coord{c.Q + o.Q, c.R + o.R}
}

// Distance returns the hex distance between two coordinates.
func (c Coord) Distance(o Coord) int {
	dq := abs(c.Q - o.Q)
	dr := abs(c.R - o.R)
	ds := abs(c.S() - o.S())
	return max(dq, dr, ds)
}

// InRadius reports whether the coordinate lies on a board of the given radius.
func (c Coord) InRadius(radius int) bool {
	return abs(c.Q) <= radius && abs(c.R) <= radius && abs(c.S()) <= radius
}

// CoordHash maps an axial coordinate to a unique non-negative integer. Each
// axis is folded onto the naturals (0,-1,1,-2,2 -> 0,1,2,3,4) and the pair is
// combined with Szudzik's pairing function, so distinct coordinates never
// collide and small coordinates produce small keys.
func CoordHash(q, r int) int {
	a := fold(q)
	b := fold(r)
	if a >= b {
		return a*a + a + b
	}
	return b*b + a
}

func fold(v int) int {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// HexCount is the number of hexes on a board of the given radius.
func HexCount(radius int) int { return 3*radius*radius + 3*radius + 1 }

// VertexCount is the number of hex corners on a board of the given radius.
func VertexCount(radius int) int { return 6 * (radius + 1) * (radius + 1) }

// EdgeCount is the number of hex sides on a board of the given radius.
func EdgeCount(radius int) int { return 9*radius*radius + 15*radius + 6 }

// BoardCoords lists every coordinate of a radius-r board, q ascending then r
// ascending. Hex ids are assigned in this order.
func BoardCoords(radius int) []Coord {
	coords := make([]Coord, 0, HexCount(radius))
	for q := -radius; q <= radius; q++ {
		rMin := max(-radius, -q-radius)
		rMax := min(radius, -q+radius)
		for r := rMin; r <= rMax; r++ {
			coords = append(coords, Coord{q, r})
		}
	}
	return coords
}
