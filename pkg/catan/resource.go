package catan

import (
	"fmt"
	"strings"
)

// Resource is one of the five tradeable resource types. ResourceAny is only
// used by generic 3:1 harbors.
type Resource int

const (
	Lumber Resource = iota
	Wool
	Grain
	Brick
	Ore
	ResourceAny

	ResourceNone Resource = -1
)

// NumResources is the number of tradeable resource types.
const NumResources = 5

var resourceNames = [...]string{"lumber", "wool", "grain", "brick", "ore", "any"}

// Resources returns the five tradeable resources in index order.
func Resources() []Resource {
	return []Resource{Lumber, Wool, Grain, Brick, Ore}
}

func (r Resource) String() string {
	if r >= 0 && int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "none"
}

// Valid reports whether r is a tradeable resource.
func (r Resource) Valid() bool {
	return r >= Lumber && r <= Ore
}

// ParseResource converts a lowercase resource name to a Resource.
func ParseResource(s string) (Resource, error) {
	for i, name := range resourceNames {
		if strings.EqualFold(s, name) {
			return Resource(i), nil
		}
	}
	return ResourceNone, fmt.Errorf("unknown resource %q", s)
}

// Hand holds a count per tradeable resource, indexed by Resource.
type Hand [NumResources]int

// Total returns the number of cards in the hand.
func (h Hand) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Covers reports whether h holds at least every count in cost.
func (h Hand) Covers(cost Hand) bool {
	for i := range h {
		if h[i] < cost[i] {
			return false
		}
	}
	return true
}

// Add returns h plus o.
func (h Hand) Add(o Hand) Hand {
	for i := range h {
		h[i] += o[i]
	}
	return h
}

// Sub returns h minus o. Callers check Covers first.
func (h Hand) Sub(o Hand) Hand {
	for i := range h {
		h[i] -= o[i]
	}
	return h
}

// Negative reports whether any count is below zero.
func (h Hand) Negative() bool {
	for _, c := range h {
		if c < 0 {
			return true
		}
	}
	return false
}

// Least returns the resource with the lowest count, lowest index on ties.
func (h Hand) Least() Resource {
	best := Lumber
	for _, r := range Resources() {
		if h[r] < h[best] {
			best = r
		}
	}
	return best
}

func (h Hand) String() string {
	var parts []string
	for _, r := range Resources() {
		if h[r] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", h[r], r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

// Single returns a hand holding n of r.
func Single(r Resource, n int) Hand {
	var h Hand
	if r.Valid() {
		h[r] = n
	}
	return h
}

// Building costs in Lumber, Wool, Grain, Brick, Ore order.
var (
	RoadCost = Hand{1, 0, 0, 1, 0}
	TownCost = Hand{1, 1, 1, 1, 0}
	CityCost = Hand{0, 0, 2, 0, 3}
	CardCost = Hand{0, 1, 1, 0, 1}
)

// Supply caps per player.
const (
	MaxTowns  = 5
	MaxCities = 4
	MaxRoads  = 15
)

func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(b []byte) error {
	if string(b) == "none" || len(b) == 0 {
		*r = ResourceNone
		return nil
	}
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
