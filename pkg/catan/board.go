package catan

// NoPlayer marks an unowned vertex or edge.
const NoPlayer = -1

// None marks an absent id reference (harbor, neighbour hex).
const None = -1

// Building is the improvement level on a vertex. It only ever increases.
type Building int

const (
	Empty Building = iota
	Town
	City
)

func (b Building) String() string {
	switch b {
	case Town:
		return "town"
	case City:
		return "city"
	}
	return "empty"
}

// Position labels the side of its hex a harbor sits on.
type Position string

const (
	PosNE Position = "NE"
	PosSE Position = "SE"
	PosS  Position = "S"
	PosSW Position = "SW"
	PosNW Position = "NW"
	PosN  Position = "N"
)

var positionByDirection = [numDirections]Position{PosNE, PosSE, PosS, PosSW, PosNW, PosN}

// Hexagon is a terrain tile.
type Hexagon struct {
	ID       int     `json:"id"`
	Coord    Coord   `json:"coord"`
	Terrain  Terrain `json:"terrain"`
	Token    int     `json:"token"`
	Vertices [6]int  `json:"vertices"`
	Edges    [6]int  `json:"edges"`
}

// Resource returns what the hex produces.
func (h Hexagon) Resource() Resource { return h.Terrain.Resource() }

// Vertex is a hex corner where towns and cities are built.
type Vertex struct {
	ID       int      `json:"id"`
	Edges    []int    `json:"edges"`
	Hexes    []int    `json:"hexes"`
	Building Building `json:"building"`
	Owner    int      `json:"owner"`
	Harbor   int      `json:"harbor"`
}

// Edge is a hex side where roads are built. Hexes[1] is None on the rim.
type Edge struct {
	ID        int       `json:"id"`
	Vertices  [2]int    `json:"vertices"`
	Hexes     [2]int    `json:"hexes"`
	Owner     int       `json:"owner"`
	OriginHex int       `json:"origin_hex"`
	Direction Direction `json:"direction"`
	Harbor    int       `json:"harbor"`
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v int) int {
	if e.Vertices[0] == v {
		return e.Vertices[1]
	}
	return e.Vertices[0]
}

// Harbor improves the bank trade ratio for players building on its edge.
type Harbor struct {
	ID       int      `json:"id"`
	Resource Resource `json:"resource"`
	Position Position `json:"position"`
	Edge     int      `json:"edge"`
}

// Board owns every hex, vertex, edge and harbor record plus the robber.
// Entities reference each other by index only.
type Board struct {
	radius   int
	hexes    []Hexagon
	vertices []Vertex
	edges    []Edge
	harbors  []Harbor
	byCoord  map[int]int
	robber   int

	// longest-road traversal state, see roads.go
	roadMark []int
	roadGen  int
}

// Radius returns the board radius.
func (b *Board) Radius() int { return b.radius }

// NumHexes returns the number of hexagons.
func (b *Board) NumHexes() int { return len(b.hexes) }

// NumVertices returns the number of vertices.
func (b *Board) NumVertices() int { return len(b.vertices) }

// NumEdges returns the number of edges.
func (b *Board) NumEdges() int { return len(b.edges) }

// NumHarbors returns the number of harbors.
func (b *Board) NumHarbors() int { return len(b.harbors) }

// Hexagon returns the hex with the given id.
func (b *Board) Hexagon(id int) (Hexagon, bool) {
	if id < 0 || id >= len(b.hexes) {
		return Hexagon{}, false
	}
	return b.hexes[id], true
}

// Vertex returns the vertex with the given id.
func (b *Board) Vertex(id int) (Vertex, bool) {
	if id < 0 || id >= len(b.vertices) {
		return Vertex{}, false
	}
	return b.vertices[id], true
}

// Edge returns the edge with the given id.
func (b *Board) Edge(id int) (Edge, bool) {
	if id < 0 || id >= len(b.edges) {
		return Edge{}, false
	}
	return b.edges[id], true
}

// Harbor returns the harbor with the given id.
func (b *Board) Harbor(id int) (Harbor, bool) {
	if id < 0 || id >= len(b.harbors) {
		return Harbor{}, false
	}
	return b.harbors[id], true
}

// Hexes returns a copy of all hexagons in id order.
func (b *Board) Hexes() []Hexagon { return append([]Hexagon(nil), b.hexes...) }

// Vertices returns a copy of all vertices in id order.
func (b *Board) Vertices() []Vertex { return append([]Vertex(nil), b.vertices...) }

// Edges returns a copy of all edges in id order.
func (b *Board) Edges() []Edge { return append([]Edge(nil), b.edges...) }

// Harbors returns a copy of all harbors in id order.
func (b *Board) Harbors() []Harbor { return append([]Harbor(nil), b.harbors...) }

// HexAt returns the id of the hex at c.
func (b *Board) HexAt(c Coord) (int, bool) {
	id, ok := b.byCoord[CoordHash(c.Q, c.R)]
	return id, ok
}

// Robber returns the hex id holding the robber.
func (b *Board) Robber() int { return b.robber }

// HasRobber reports whether the robber sits on hex id.
func (b *Board) HasRobber(id int) bool { return b.robber == id }

// NeighborHexes returns ids of the hexes adjacent to hex id.
func (b *Board) NeighborHexes(id int) []int {
	var out []int
	c := b.hexes[id].Coord
	for d := Direction(0); d < numDirections; d++ {
		if n, ok := b.HexAt(c.Neighbor(d)); ok {
			out = append(out, n)
		}
	}
	return out
}

// AdjacentVertices returns the vertices one edge away from v.
func (b *Board) AdjacentVertices(v int) []int {
	out := make([]int, 0, 3)
	for _, e := range b.vertices[v].Edges {
		out = append(out, b.edges[e].Other(v))
	}
	return out
}

// EdgeBetween returns the edge joining two vertices.
func (b *Board) EdgeBetween(v1, v2 int) (int, bool) {
	for _, e := range b.vertices[v1].Edges {
		if b.edges[e].Other(v1) == v2 {
			return e, true
		}
	}
	return None, false
}

// IsLandVertex reports whether v touches at least one land hex.
func (b *Board) IsLandVertex(v int) bool {
	for _, h := range b.vertices[v].Hexes {
		if b.hexes[h].Terrain.IsLand() {
			return true
		}
	}
	return false
}

// IsLandEdge reports whether e borders at least one land hex.
func (b *Board) IsLandEdge(e int) bool {
	for _, h := range b.edges[e].Hexes {
		if h != None && b.hexes[h].Terrain.IsLand() {
			return true
		}
	}
	return false
}

// HexesWithToken returns the ids of hexes carrying the given dice sum.
func (b *Board) HexesWithToken(sum int) []int {
	var out []int
	for _, h := range b.hexes {
		if h.Token == sum {
			out = append(out, h.ID)
		}
	}
	return out
}

// VertexPips sums the dice probability of the producing hexes around v.
func (b *Board) VertexPips(v int) int {
	n := 0
	for _, h := range b.vertices[v].Hexes {
		hex := b.hexes[h]
		if hex.Terrain.Produces() {
			n += Pips[hex.Token]
		}
	}
	return n
}
