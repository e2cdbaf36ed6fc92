package bot

import (
	"fmt"

	"github.com/freeeve/hexsettlers/pkg/catan"
)

// Strategy names accepted by NewStrategy.
const (
	NameBalanced = "balanced"
	NameRandom   = "random"
)

// Names lists the available strategies.
func Names() []string { return []string{NameBalanced, NameRandom} }

// StrategyByName returns a strategy drawing from the shared bot source.
func StrategyByName(name string) (catan.Policy, error) {
	return NewStrategy(name, 0)
}

// NewStrategy returns the named strategy. A non-zero seed gives it a private
// random source so a game replays identically.
func NewStrategy(name string, seed int64) (catan.Policy, error) {
	switch name {
	case NameBalanced, "":
		return &BalancedStrategy{rng: newDice(seed)}, nil
	case NameRandom:
		return &RandomStrategy{rng: newDice(seed)}, nil
	}
	return nil, fmt.Errorf("unknown bot strategy %q", name)
}

// --- RandomStrategy ---

// RandomStrategy picks uniformly among the legal actions. It is the baseline
// the arena measures other strategies against.
type RandomStrategy struct {
	rng dice
}

func (*RandomStrategy) Name() string { return NameRandom }

func (s *RandomStrategy) Decide(g *catan.Game, player int) catan.Action {
	actions := g.LegalActions(player)
	if len(actions) == 0 {
		a, _ := g.DefaultAction(player)
		return a
	}
	return actions[s.rng.intn(len(actions))]
}

func (s *RandomStrategy) Discard(g *catan.Game, player, count int) catan.Hand {
	p, _ := g.Player(player)
	hand := p.Hand
	var out catan.Hand
	for range count {
		var pool []catan.Resource
		for _, r := range catan.Resources() {
			for range hand[r] {
				pool = append(pool, r)
			}
		}
		if len(pool) == 0 {
			break
		}
		r := pool[s.rng.intn(len(pool))]
		hand[r]--
		out[r]++
	}
	return out
}
