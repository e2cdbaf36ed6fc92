package catan

import (
	"errors"
	"testing"
)

func TestBuildGeometry_Counts(t *testing.T) {
	tests := []struct {
		radius                 int
		hexes, vertices, edges int
	}{
		{2, 19, 54, 72},
		{3, 37, 96, 132},
		{4, 61, 150, 210},
	}
	for _, tt := range tests {
		b, err := BuildGeometry(tt.radius)
		if err != nil {
			t.Fatalf("radius %d: %v", tt.radius, err)
		}
		if b.NumHexes() != tt.hexes || b.NumVertices() != tt.vertices || b.NumEdges() != tt.edges {
			t.Errorf("radius %d: got %d/%d/%d, want %d/%d/%d", tt.radius,
				b.NumHexes(), b.NumVertices(), b.NumEdges(), tt.hexes, tt.vertices, tt.edges)
		}
		if HexCount(tt.radius) != tt.hexes || VertexCount(tt.radius) != tt.vertices || EdgeCount(tt.radius) != tt.edges {
			t.Errorf("radius %d: closed-form counts disagree", tt.radius)
		}
	}
}

func TestBuildGeometry_VertexDegrees(t *testing.T) {
	for _, radius := range []int{2, 3, 4} {
		b, err := BuildGeometry(radius)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range b.vertices {
			if len(v.Edges) < 2 || len(v.Edges) > 3 {
				t.Errorf("radius %d vertex %d has %d edges", radius, v.ID, len(v.Edges))
			}
			if len(v.Hexes) < 1 || len(v.Hexes) > 3 {
				t.Errorf("radius %d vertex %d has %d hexes", radius, v.ID, len(v.Hexes))
			}
		}
	}
}

func TestBuildGeometry_SharedSides(t *testing.T) {
	b, err := BuildGeometry(3)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range b.hexes {
		for i := Direction(0); i < numDirections; i++ {
			e := b.edges[h.Edges[i]]
			a, c := h.Vertices[i], h.Vertices[(i+1)%numDirections]
			if !(e.Vertices[0] == a && e.Vertices[1] == c) && !(e.Vertices[0] == c && e.Vertices[1] == a) {
				t.Fatalf("hex %d side %d: edge %d joins %v, want %d-%d", h.ID, i, e.ID, e.Vertices, a, c)
			}
			n, ok := b.HexAt(h.Coord.Neighbor(i))
			if !ok {
				if e.Hexes[1] != None {
					t.Errorf("rim edge %d should have no second hex", e.ID)
				}
				continue
			}
			if b.hexes[n].Edges[i.Opposite()] != e.ID {
				t.Errorf("hex %d and neighbour %d do not share edge %d", h.ID, n, e.ID)
			}
		}
	}
}

func TestBuildGeometry_UnsupportedRadius(t *testing.T) {
	for _, r := range []int{0, 1, 5} {
		_, err := BuildGeometry(r)
		var te *TopologyError
		if !errors.As(err, &te) {
			t.Errorf("radius %d: expected TopologyError, got %v", r, err)
		}
	}
}

func TestCoordHash_Injective(t *testing.T) {
	seen := make(map[int]Coord)
	for q := -20; q <= 20; q++ {
		for r := -20; r <= 20; r++ {
			h := CoordHash(q, r)
			if h < 0 {
				t.Fatalf("hash(%d,%d) negative", q, r)
			}
			if prev, ok := seen[h]; ok {
				t.Fatalf("hash collision between %v and (%d,%d)", prev, q, r)
			}
			seen[h] = Coord{q, r}
		}
	}
}

func TestCoordDistance(t *testing.T) {
	tests := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, -1}, 1},
		{Coord{0, 0}, Coord{2, -1}, 2},
		{Coord{-2, 0}, Coord{2, 0}, 4},
	}
	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("%v-%v: got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestChooseHarborEdges_TooFewEligible(t *testing.T) {
	b, err := BuildGeometry(2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b.hexes {
		b.hexes[i].Terrain = Sea
	}
	_, err = b.chooseHarborEdges(NewRand(1), NumHarbors)
	var te *TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("expected TopologyError for an all-sea board, got %v", err)
	}
}
