package catan

import (
	"fmt"
	"strings"
)

// Card is a development card type.
type Card int

const (
	Soldier Card = iota
	Progress
	Harvest
	Monopoly
	Victory

	NoCard Card = -1
)

// NumCardTypes is the number of development card types.
const NumCardTypes = 5

var cardNames = [NumCardTypes]string{"soldier", "progress", "harvest", "monopoly", "victory"}

func (c Card) String() string {
	if c >= 0 && int(c) < NumCardTypes {
		return cardNames[c]
	}
	return "unknown"
}

// ParseCard converts a card name to a Card.
func ParseCard(s string) (Card, error) {
	for i, name := range cardNames {
		if strings.EqualFold(s, name) {
			return Card(i), nil
		}
	}
	return NoCard, fmt.Errorf("unknown card %q", s)
}

// CardCounts holds a count per development card type.
type CardCounts [NumCardTypes]int

// Total returns the number of cards.
func (c CardCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// standardDeck is the development card pile at the start of a game.
var standardDeck = CardCounts{14, 2, 2, 2, 5}

// drawCard removes a card from the deck, weighted by the remaining counts.
func drawCard(rng Rand, deck *CardCounts) (Card, bool) {
	total := deck.Total()
	if total == 0 {
		return NoCard, false
	}
	pick := rng.Intn(total)
	for i, n := range deck {
		if pick < n {
			deck[i]--
			return Card(i), true
		}
		pick -= n
	}
	return NoCard, false
}

func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	v, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
