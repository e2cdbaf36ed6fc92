package catan

import "fmt"

// NumHarbors is the number of harbors placed on every board.
const NumHarbors = 9

// SupportedRadius reports whether boards of the given radius can be built.
func SupportedRadius(radius int) bool {
	return radius >= 2 && radius <= 4
}

// BuildGeometry lays out the hexes, vertices and edges of a radius-r board.
// Hexes are visited in BoardCoords order; a corner or side already created by
// a neighbour is reused instead of allocated, so shared topology resolves in
// a single pass. Terrain, tokens and harbors are left blank.
func BuildGeometry(radius int) (*Board, error) {
	if !SupportedRadius(radius) {
		return nil, &TopologyError{Radius: radius, Message: "unsupported radius"}
	}
	coords := BoardCoords(radius)
	b := &Board{
		radius:   radius,
		hexes:    make([]Hexagon, 0, len(coords)),
		vertices: make([]Vertex, 0, VertexCount(radius)),
		edges:    make([]Edge, 0, EdgeCount(radius)),
		byCoord:  make(map[int]int, len(coords)),
		robber:   None,
	}

	for id, c := range coords {
		hex := Hexagon{ID: id, Coord: c}

		var nbrs [numDirections]int
		for d := Direction(0); d < numDirections; d++ {
			n, ok := b.HexAt(c.Neighbor(d))
			if !ok {
				n = None
			}
			nbrs[d] = n
		}

		for i := Direction(0); i < numDirections; i++ {
			prev := (i + numDirections - 1) % numDirections
			switch {
			case nbrs[prev] != None:
				hex.Vertices[i] = b.hexes[nbrs[prev]].Vertices[(i+2)%numDirections]
			case nbrs[i] != None:
				hex.Vertices[i] = b.hexes[nbrs[i]].Vertices[(i+4)%numDirections]
			default:
				hex.Vertices[i] = b.newVertex()
			}
			b.attachHex(hex.Vertices[i], id)
		}

		for i := Direction(0); i < numDirections; i++ {
			if n := nbrs[i]; n != None {
				e := b.hexes[n].Edges[i.Opposite()]
				b.edges[e].Hexes[1] = id
				hex.Edges[i] = e
				continue
			}
			hex.Edges[i] = b.newEdge(id, i, hex.Vertices[i], hex.Vertices[(i+1)%numDirections])
		}

		b.hexes = append(b.hexes, hex)
		b.byCoord[CoordHash(c.Q, c.R)] = id
	}

	if err := b.checkCounts(); err != nil {
		return nil, err
	}
	b.roadMark = make([]int, len(b.edges))
	return b, nil
}

func (b *Board) newVertex() int {
	id := len(b.vertices)
	b.vertices = append(b.vertices, Vertex{ID: id, Owner: NoPlayer, Harbor: None})
	return id
}

func (b *Board) attachHex(v, hex int) {
	for _, h := range b.vertices[v].Hexes {
		if h == hex {
			return
		}
	}
	b.vertices[v].Hexes = append(b.vertices[v].Hexes, hex)
}

func (b *Board) newEdge(hex int, d Direction, v0, v1 int) int {
	id := len(b.edges)
	b.edges = append(b.edges, Edge{
		ID:        id,
		Vertices:  [2]int{v0, v1},
		Hexes:     [2]int{hex, None},
		Owner:     NoPlayer,
		OriginHex: hex,
		Direction: d,
		Harbor:    None,
	})
	b.vertices[v0].Edges = append(b.vertices[v0].Edges, id)
	b.vertices[v1].Edges = append(b.vertices[v1].Edges, id)
	return id
}

func (b *Board) checkCounts() error {
	r := b.radius
	if len(b.hexes) != HexCount(r) {
		return &TopologyError{r, fmt.Sprintf("built %d hexes, want %d", len(b.hexes), HexCount(r))}
	}
	if len(b.vertices) != VertexCount(r) {
		return &TopologyError{r, fmt.Sprintf("built %d vertices, want %d", len(b.vertices), VertexCount(r))}
	}
	if len(b.edges) != EdgeCount(r) {
		return &TopologyError{r, fmt.Sprintf("built %d edges, want %d", len(b.edges), EdgeCount(r))}
	}
	for _, v := range b.vertices {
		if len(v.Edges) < 2 || len(v.Edges) > 3 || len(v.Hexes) < 1 || len(v.Hexes) > 3 {
			return &TopologyError{r, fmt.Sprintf("vertex %d has %d edges and %d hexes", v.ID, len(v.Edges), len(v.Hexes))}
		}
	}
	return nil
}

// HarborEligible reports whether edge e lies on a coastline: exactly one of
// its sides is land, the other is sea or off the board.
func (b *Board) HarborEligible(e int) bool {
	land := 0
	for _, h := range b.edges[e].Hexes {
		if h != None && b.hexes[h].Terrain.IsLand() {
			land++
		}
	}
	return land == 1
}

// harborEligibleEdges lists coastline edges in id order.
func (b *Board) harborEligibleEdges() []int {
	var out []int
	for i := range b.edges {
		if b.HarborEligible(i) {
			out = append(out, i)
		}
	}
	return out
}

// chooseHarborEdges picks n coastline edges at random such that no two
// chosen edges share a vertex.
func (b *Board) chooseHarborEdges(rng Rand, n int) ([]int, error) {
	candidates := b.harborEligibleEdges()
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	used := make(map[int]bool)
	chosen := make([]int, 0, n)
	for _, e := range candidates {
		if len(chosen) == n {
			break
		}
		v := b.edges[e].Vertices
		if used[v[0]] || used[v[1]] {
			continue
		}
		used[v[0]], used[v[1]] = true, true
		chosen = append(chosen, e)
	}
	if len(chosen) < n {
		return nil, &TopologyError{b.radius, fmt.Sprintf("only %d of %d harbor edges available", len(chosen), n)}
	}
	return chosen, nil
}

// harborPosition returns the side label of e as seen from its land hex.
func (b *Board) harborPosition(e int) Position {
	edge := b.edges[e]
	if land := edge.Hexes[0]; b.hexes[land].Terrain.IsLand() {
		return positionByDirection[edge.Direction]
	}
	return positionByDirection[edge.Direction.Opposite()]
}

// placeHarbor attaches a harbor to edge e and both its vertices.
func (b *Board) placeHarbor(e int, res Resource) {
	id := len(b.harbors)
	b.harbors = append(b.harbors, Harbor{
		ID:       id,
		Resource: res,
		Position: b.harborPosition(e),
		Edge:     e,
	})
	b.edges[e].Harbor = id
	for _, v := range b.edges[e].Vertices {
		b.vertices[v].Harbor = id
	}
}
