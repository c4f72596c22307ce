package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/mjamili/ronda/internal/deck"
)

// BonusKind identifies one of the three scored announcements
type BonusKind string

const (
	// BonusRonda is a pair of same-rank cards held at deal time (1 point).
	BonusRonda BonusKind = "ronda"
	// BonusTringa is three same-rank cards held at deal time (5 points).
	BonusTringa BonusKind = "tringa"
	// BonusMissa is clearing the table with a single capture (1 point).
	BonusMissa BonusKind = "missa"
)

// Points returns the round score a bonus is worth
func (k BonusKind) Points() int {
	if k == BonusTringa {
		return 5
	}
	return 1
}

// DetectDealBonus evaluates a freshly dealt 3-card hand. A triple wins
// over a pair; a hand yields at most one bonus per deal.
func DetectDealBonus(hand []deck.Card) (BonusKind, bool) {
	counts := make(map[deck.Rank]int, len(hand))
	for _, c := range hand {
		counts[c.Rank]++
	}
	for _, n := range counts {
		if n == 3 {
			return BonusTringa, true
		}
	}
	for _, n := range counts {
		if n == 2 {
			return BonusRonda, true
		}
	}
	return "", false
}

// Announcement is the transient display record of a scored bonus. It is
// purely observational: the points were applied when it was created and
// its expiry never touches the score again.
type Announcement struct {
	ID        uuid.UUID
	Seat      Seat
	Kind      BonusKind
	CreatedAt time.Time
}
