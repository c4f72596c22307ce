package game

import (
	"github.com/mjamili/ronda/internal/deck"
)

// State is the game state machine phase
type State string

const (
	StateLobby    State = "lobby"
	StatePlaying  State = "playing"
	StateRoundEnd State = "roundEnd"
	StateGameEnd  State = "gameEnd"
)

// Result is produced once when a cumulative score crosses the target
// and is immutable from then on.
type Result struct {
	Winner Seat
	Draw   bool
	Scores [2]int
}

// Snapshot is the immutable view the presentation layer renders from.
// Every slice is a copy; holding a snapshot never observes a later
// transition.
type Snapshot struct {
	State         State
	Mode          Mode
	Names         [2]string
	RoundNumber   int
	Turn          Seat
	Dealer        Seat
	Table         []deck.Card
	Hands         [2][]deck.Card
	Captured      [2][]deck.Card
	RoundScores   [2]int
	Scores        [2]int
	Announcements []Announcement
	Message       string
	Result        *Result
}

// Snapshot returns a deep-copied view of the current game state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:         e.state,
		Mode:          e.mode,
		Names:         e.names,
		RoundNumber:   e.roundNumber,
		Turn:          e.turn,
		Dealer:        e.dealer,
		Table:         copyCards(e.table),
		RoundScores:   e.roundScores,
		Scores:        e.scores,
		Announcements: make([]Announcement, len(e.announced)),
		Message:       e.message,
	}
	for seat := 0; seat < numSeats; seat++ {
		snap.Hands[seat] = copyCards(e.hands[seat])
		snap.Captured[seat] = copyCards(e.captured[seat])
	}
	copy(snap.Announcements, e.announced)
	if e.result != nil {
		result := *e.result
		snap.Result = &result
	}
	return snap
}

func copyCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
