package catan

import "math/rand"

// Rand is the random source the engine draws every dice roll, shuffle and
// sampling decision from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// SeededRand is a seeded source that counts how far its stream has advanced,
// so a restored game can pick up the stream where the saved one left off.
type SeededRand struct {
	*rand.Rand
	src *countingSource
}

// NewRand returns a seeded source. Two games built from the same seed and fed
// the same actions are identical.
func NewRand(seed int64) *SeededRand {
	return ResumeRand(seed, 0)
}

// ResumeRand returns the source for seed advanced by steps draws. With the
// steps recorded in a snapshot, a restored game rolls the same dice the
// uninterrupted game would have.
func ResumeRand(seed, steps int64) *SeededRand {
	src := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	for range steps {
		src.Int63()
	}
	return &SeededRand{Rand: rand.New(src), src: src}
}

// Steps reports how many values the stream has produced.
func (r *SeededRand) Steps() int64 { return r.src.steps }

type countingSource struct {
	src   rand.Source64
	steps int64
}

func (c *countingSource) Int63() int64 {
	c.steps++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.steps++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.steps = 0
}

// randSteps reports the stream position of rng, or 0 for sources that do
// not track one.
func randSteps(rng Rand) int64 {
	if r, ok := rng.(interface{ Steps() int64 }); ok {
		return r.Steps()
	}
	return 0
}

func rollDie(rng Rand) int { return rng.Intn(6) + 1 }

// randomCard picks a card uniformly from a hand, so each resource is chosen
// with probability proportional to its count.
func randomCard(rng Rand, h Hand) Resource {
	total := h.Total()
	if total == 0 {
		return ResourceNone
	}
	pick := rng.Intn(total)
	for _, r := range Resources() {
		if pick < h[r] {
			return r
		}
		pick -= h[r]
	}
	return ResourceNone
}
