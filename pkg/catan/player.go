package catan

import "fmt"

// NumPlayers is the fixed seat count.
const NumPlayers = 4

// PlayerKind says who makes a seat's decisions.
type PlayerKind string

const (
	KindHuman  PlayerKind = "human"
	KindBot    PlayerKind = "bot"
	KindRemote PlayerKind = "remote"
)

// Color is a seat color.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Orange Color = "orange"
)

// DefaultColors are assigned to seats that do not pick one.
var DefaultColors = [NumPlayers]Color{Red, Blue, Green, Orange}

const baseTradeRatio = 4

// Player is one seat's ledger: hand, cards, pieces on the board and the
// per-turn action log.
type Player struct {
	Index        int                `json:"index"`
	Name         string             `json:"name"`
	Color        Color              `json:"color"`
	Kind         PlayerKind         `json:"kind"`
	Hand         Hand               `json:"hand"`
	Cards        CardCounts         `json:"cards"`
	NewCards     CardCounts         `json:"new_cards"`
	Towns        int                `json:"towns"`
	Cities       int                `json:"cities"`
	Roads        int                `json:"roads"`
	Soldiers     int                `json:"soldiers"`
	RoadLength   int                `json:"road_length"`
	TradeRatio   int                `json:"trade_ratio"`
	Harbors      [NumResources]bool `json:"harbors"`
	HiddenPoints int                `json:"hidden_points"`
	UsedCard     bool               `json:"used_card"`
	Log          []string           `json:"log"`
}

func newPlayer(index int, seat Seat) *Player {
	p := &Player{
		Index:      index,
		Name:       seat.Name,
		Color:      seat.Color,
		Kind:       KindHuman,
		TradeRatio: baseTradeRatio,
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("Player %d", index+1)
	}
	if p.Color == "" {
		p.Color = DefaultColors[index]
	}
	if seat.Controller != nil {
		p.Kind = seat.Controller.Kind()
	}
	return p
}

// CanAfford reports whether the hand covers cost. Free builds always pass.
func (p *Player) CanAfford(cost Hand, free bool) bool {
	return free || p.Hand.Covers(cost)
}

// HasCard reports whether a usable card of type c is held.
func (p *Player) HasCard(c Card) bool {
	return p.Cards[c] > 0
}

// CardsHeld returns usable plus newly bought cards.
func (p *Player) CardsHeld() int {
	return p.Cards.Total() + p.NewCards.Total()
}

// pay removes cost from the hand. The caller has validated it.
func (p *Player) pay(cost Hand, free bool) {
	if free {
		return
	}
	p.Hand = p.Hand.Sub(cost)
	if p.Hand.Negative() {
		panic(fmt.Sprintf("player %d hand went negative: %v", p.Index, p.Hand))
	}
}

// addHarbor improves the trade ratio after building on a harbor.
func (p *Player) addHarbor(res Resource) {
	if res == ResourceAny {
		p.TradeRatio = min(p.TradeRatio, 3)
		return
	}
	if res.Valid() {
		p.Harbors[res] = true
	}
}

// addCard stores a bought card. Victory cards score at once; the rest become
// usable next turn.
func (p *Player) addCard(c Card) {
	if c == Victory {
		p.HiddenPoints++
		return
	}
	p.NewCards[c]++
}

// refundCard returns a played card and re-allows a card this turn.
func (p *Player) refundCard(c Card) {
	p.Cards[c]++
	p.UsedCard = false
}

// endTurn makes bought cards usable and clears the per-turn card flag.
func (p *Player) endTurn() {
	for i, n := range p.NewCards {
		p.Cards[i] += n
	}
	p.NewCards = CardCounts{}
	p.UsedCard = false
}

// discardHalf returns how many cards the player owes after a seven.
func (p *Player) discardHalf() int {
	if n := p.Hand.Total(); n > 7 {
		return n / 2
	}
	return 0
}
