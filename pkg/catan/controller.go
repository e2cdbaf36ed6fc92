package catan

// Controller decides for one seat. The engine consults it only through this
// interface: human and remote seats answer "not now" and wait for actions to
// arrive through Game.Apply, bots answer synchronously from a Policy.
type Controller interface {
	Kind() PlayerKind
	// NextAction returns the seat's next action, or false if the decision
	// will arrive from outside.
	NextAction(g *Game, player int) (Action, bool)
	// DiscardSet returns the cards to shed after a seven, or false if the
	// seat discards interactively.
	DiscardSet(g *Game, player, count int) (Hand, bool)
}

// Policy is a bot decision routine. Decide must return a single action
// (possibly ActPass or ActEndTurn) without retrying against the game; the
// result is validated exactly like a human action.
type Policy interface {
	Name() string
	Decide(g *Game, player int) Action
	Discard(g *Game, player, count int) Hand
}

// Human waits for input from a local user interface.
type Human struct{}

func (Human) Kind() PlayerKind { return KindHuman }
func (Human) NextAction(*Game, int) (Action, bool) { return Action{}, false }
func (Human) DiscardSet(*Game, int, int) (Hand, bool) { return Hand{}, false }

// Remote stands in for a seat played over the network.
type Remote struct{}

func (Remote) Kind() PlayerKind { return KindRemote }
func (Remote) NextAction(*Game, int) (Action, bool) { return Action{}, false }
func (Remote) DiscardSet(*Game, int, int) (Hand, bool) { return Hand{}, false }

// Bot plays a seat with a Policy.
type Bot struct {
	Policy Policy
}

// NewBot wraps a policy as a controller.
func NewBot(p Policy) *Bot { return &Bot{Policy: p} }

func (b *Bot) Kind() PlayerKind { return KindBot }

func (b *Bot) NextAction(g *Game, player int) (Action, bool) {
	return b.Policy.Decide(g, player), true
}

func (b *Bot) DiscardSet(g *Game, player, count int) (Hand, bool) {
	return b.Policy.Discard(g, player, count), true
}

// Seat describes one player at game creation.
type Seat struct {
	Name       string
	Color      Color
	Controller Controller
}
