package deck

import (
	rand "math/rand/v2"
)

// maxTableDrawAttempts bounds how many times the opening table is
// re-drawn when it contains a rank pair. After the bound is exhausted
// the draw is accepted as dealt rather than looping forever.
const maxTableDrawAttempts = 10

// Deck represents the 40-card Ronda deck, consumed from the front as
// cards are dealt.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a shuffled deck from the static card source with an
// explicit RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, len(records)),
		rng:   rng,
	}
	for _, rec := range Source() {
		d.cards = append(d.cards, NewCard(rec.Suit, rec.Rank))
	}
	d.Shuffle()
	return d
}

// Shuffle randomizes the remaining cards with Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards. It returns fewer than n
// when the deck runs short.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// DrawTable draws the 4 opening table cards. A draw is invalid when any
// two of the 4 share a rank; invalid draws trigger a reshuffle and
// re-draw, bounded by maxTableDrawAttempts. The returned attempt count
// reflects how many reshuffles were needed; after the bound the draw is
// accepted as-is.
func (d *Deck) DrawTable() ([]Card, int) {
	attempts := 0
	for hasRankPair(d.cards[:4]) && attempts < maxTableDrawAttempts {
		d.Shuffle()
		attempts++
	}
	return d.Deal(4), attempts
}

func hasRankPair(cards []Card) bool {
	seen := make(map[Rank]bool, len(cards))
	for _, c := range cards {
		if seen[c.Rank] {
			return true
		}
		seen[c.Rank] = true
	}
	return false
}
