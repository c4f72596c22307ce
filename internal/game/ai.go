package game

import (
	"github.com/mjamili/ronda/internal/deck"
)

// ChooseCard is the opponent policy: a pure decision function over the
// current hand and table. Priorities, ties broken by hand order:
//
//  1. a card that captures the entire table (sets up Missa)
//  2. the card with the largest non-empty capture
//  3. the lowest-ranked card as a defensive discard
//
// ok is false only for an empty hand. The chosen card is submitted
// through the same PlayCard entry point as a human move.
func ChooseCard(hand, table []deck.Card) (chosen deck.Card, ok bool) {
	if len(hand) == 0 {
		return deck.Card{}, false
	}

	if len(table) > 0 {
		for _, card := range hand {
			result := ResolveCapture(card, table)
			if result.Capture && len(result.Captured) == len(table) {
				return card, true
			}
		}
	}

	best := -1
	maxCaptured := 0
	for i, card := range hand {
		result := ResolveCapture(card, table)
		if result.Capture && len(result.Captured) > maxCaptured {
			maxCaptured = len(result.Captured)
			best = i
		}
	}
	if best >= 0 {
		return hand[best], true
	}

	lowest := 0
	for i, card := range hand {
		if card.Rank < hand[lowest].Rank {
			lowest = i
		}
	}
	return hand[lowest], true
}
