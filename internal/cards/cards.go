// Package cards maps VRF outputs onto a 52-card deck.
package cards

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

const DeckSize = 52

// Card is a 0..51 id, where:
// - rank = (id % 13) + 2  (2..14)
// - suit = (id / 13)      (0..3, clubs diamonds hearts spades)
type Card uint8

// FromOutput reduces the byte sum of a VRF output modulo the deck size.
func FromOutput(out vrf.Output) Card {
	var sum uint64
	for _, b := range out {
		sum += uint64(b)
	}
	return Card(sum % DeckSize)
}

func (c Card) Rank() uint8 { // 2..14
	return uint8(c%13) + 2
}

func (c Card) Suit() uint8 { // 0..3
	return uint8(c / 13)
}

// String renders the card the way the hand evaluator names it, suit first:
// "C2", "DT", "SA".
func (c Card) String() string {
	pc, err := c.Poker()
	if err != nil {
		return "??"
	}
	return pc.String()
}

// Poker converts c for use with the hand evaluator, where aces are rank 1.
func (c Card) Poker() (poker.Card, error) {
	r := c.Rank()
	if r == 14 {
		r = 1
	}
	card, err := poker.MakeCard(poker.Suit(c.Suit()), poker.Rank(r))
	if err != nil {
		return poker.Card(0), fmt.Errorf("cards: convert id %d: %w", uint8(c), err)
	}
	return card, nil
}
