package game

import (
	"github.com/mjamili/ronda/internal/deck"
)

// CaptureResult describes what a played card takes from the table.
// Capture is false for a placement, in which case Captured is empty.
type CaptureResult struct {
	Captured []deck.Card
	Capture  bool
}

// ResolveCapture computes the set of table cards captured by playing
// played against table. The rules apply in strict priority order, first
// match wins, with no search for a better split:
//
//  1. a direct rank match (first occurrence in table order), extended
//     by the rank chain 1→2→…→7→10→11→12 for as long as each next
//     link is present, each link taken at its first occurrence
//  2. the first pair (i<j) of table cards whose ranks sum to the
//     played rank
//  3. the first triple (i<j<k) whose ranks sum to the played rank
//
// If none apply the move is a placement. The table slice is never
// mutated.
func ResolveCapture(played deck.Card, table []deck.Card) CaptureResult {
	if captured, ok := chainCapture(played, table); ok {
		return CaptureResult{Captured: captured, Capture: true}
	}

	for i := 0; i < len(table); i++ {
		for j := i + 1; j < len(table); j++ {
			if table[i].Rank+table[j].Rank == played.Rank {
				return CaptureResult{
					Captured: []deck.Card{table[i], table[j]},
					Capture:  true,
				}
			}
		}
	}

	for i := 0; i < len(table); i++ {
		for j := i + 1; j < len(table); j++ {
			for k := j + 1; k < len(table); k++ {
				if table[i].Rank+table[j].Rank+table[k].Rank == played.Rank {
					return CaptureResult{
						Captured: []deck.Card{table[i], table[j], table[k]},
						Capture:  true,
					}
				}
			}
		}
	}

	return CaptureResult{}
}

func chainCapture(played deck.Card, table []deck.Card) ([]deck.Card, bool) {
	remaining := make([]deck.Card, len(table))
	copy(remaining, table)

	idx := indexOfRank(remaining, played.Rank)
	if idx == -1 {
		return nil, false
	}

	captured := []deck.Card{remaining[idx]}
	remaining = append(remaining[:idx], remaining[idx+1:]...)

	rank := played.Rank
	for {
		next, ok := rank.NextInChain()
		if !ok {
			break
		}
		idx = indexOfRank(remaining, next)
		if idx == -1 {
			break
		}
		captured = append(captured, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		rank = next
	}

	return captured, true
}

func indexOfRank(cards []deck.Card, rank deck.Rank) int {
	for i, c := range cards {
		if c.Rank == rank {
			return i
		}
	}
	return -1
}

// removeCards returns table minus the given cards, removing one
// occurrence per card by (suit, rank) value equality.
func removeCards(table, toRemove []deck.Card) []deck.Card {
	out := make([]deck.Card, 0, len(table))
	remove := make(map[deck.Card]int, len(toRemove))
	for _, c := range toRemove {
		remove[c]++
	}
	for _, c := range table {
		if remove[c] > 0 {
			remove[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}
