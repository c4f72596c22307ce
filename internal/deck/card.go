package deck

import "fmt"

// Suit represents a Spanish-pattern card suit
type Suit int

const (
	Oros Suit = iota
	Copas
	Espadas
	Bastos
)

// String returns the suit name
func (s Suit) String() string {
	switch s {
	case Oros:
		return "Oros"
	case Copas:
		return "Copas"
	case Espadas:
		return "Espadas"
	case Bastos:
		return "Bastos"
	default:
		return "?"
	}
}

// Letter returns the single-letter suit code used in compact card notation
func (s Suit) Letter() string {
	switch s {
	case Oros:
		return "O"
	case Copas:
		return "C"
	case Espadas:
		return "E"
	case Bastos:
		return "B"
	default:
		return "?"
	}
}

// Suits lists the four suits in deck order
var Suits = []Suit{Oros, Copas, Espadas, Bastos}

// Rank represents a card rank. The Ronda deck has no 8 or 9, so the
// valid ranks are 1..7 and the three figures 10 (Sota), 11 (Caballo)
// and 12 (Rey).
type Rank int

const (
	Sota    Rank = 10
	Caballo Rank = 11
	Rey     Rank = 12
)

// Ranks lists the ten valid ranks in ascending capture-chain order
var Ranks = []Rank{1, 2, 3, 4, 5, 6, 7, Sota, Caballo, Rey}

// String returns the numeric representation of a rank
func (r Rank) String() string {
	return fmt.Sprintf("%d", int(r))
}

// Name returns the spoken name of a rank
func (r Rank) Name() string {
	switch r {
	case 1:
		return "As"
	case Sota:
		return "Sota"
	case Caballo:
		return "Caballo"
	case Rey:
		return "Rey"
	default:
		return r.String()
	}
}

// NextInChain returns the successor rank in the capture chain
// 1→2→3→4→5→6→7→10→11→12. The second return is false after Rey.
func (r Rank) NextInChain() (Rank, bool) {
	switch {
	case r == 7:
		return Sota, true
	case r == Rey:
		return 0, false
	default:
		return r + 1, true
	}
}

// Card represents a playing card. Identity is the (suit, rank) pair.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the compact representation of a card (e.g. "5O")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.Letter())
}

// Name returns the spoken name of a card (e.g. "Sota de Copas")
func (c Card) Name() string {
	return fmt.Sprintf("%s de %s", c.Rank.Name(), c.Suit)
}

// IsFigure returns true for the three face cards (Sota, Caballo, Rey)
func (c Card) IsFigure() bool {
	return c.Rank >= Sota
}
