package bot

import "math/rand"

// dice is one strategy's random source. A zero dice draws from the
// process-wide math/rand source, which is safe for concurrent use; a seeded
// one is private to a single game and needs no locking.
type dice struct {
	r *rand.Rand
}

func newDice(seed int64) dice {
	if seed == 0 {
		return dice{}
	}
	return dice{r: rand.New(rand.NewSource(seed))}
}

func (d dice) intn(n int) int {
	if d.r != nil {
		return d.r.Intn(n)
	}
	return rand.Intn(n)
}

func (d dice) float64() float64 {
	if d.r != nil {
		return d.r.Float64()
	}
	return rand.Float64()
}
