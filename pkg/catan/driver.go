package catan

// BotStep records one action a bot controller took through RunBots.
type BotStep struct {
	Player   int
	Action   Action
	Err      error
	Fallback bool
}

// RunBots lets controllers act for as long as they answer synchronously:
// it stops when the game is won, when the acting seat waits for outside
// input, or after maxSteps actions. A rejected bot action is replaced by
// DefaultAction so the loop always makes progress.
func (g *Game) RunBots(maxSteps int) []BotStep {
	var steps []BotStep
	for len(steps) < maxSteps {
		if _, won := g.Winner(); won {
			break
		}
		actor := g.Actor()
		a, ok := g.ctrls[actor].NextAction(g, actor)
		if !ok {
			break
		}
		err := g.Apply(actor, a)
		steps = append(steps, BotStep{Player: actor, Action: a, Err: err})
		if err == nil {
			continue
		}
		fb, ok := g.DefaultAction(actor)
		if !ok {
			break
		}
		err = g.Apply(actor, fb)
		steps = append(steps, BotStep{Player: actor, Action: fb, Err: err, Fallback: true})
		if err != nil {
			break
		}
	}
	return steps
}
