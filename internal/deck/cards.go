package deck

import (
	"fmt"
	"strings"
)

// CardRecord is one entry of the static card source: the card identity
// plus the image asset the presentation layer renders it with. The deck
// consumes these records once at construction and performs no
// validation; a malformed source is a configuration error, not a
// runtime condition.
type CardRecord struct {
	Suit  Suit
	Rank  Rank
	Image string
}

var records = buildRecords()

func buildRecords() []CardRecord {
	out := make([]CardRecord, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			out = append(out, CardRecord{
				Suit:  suit,
				Rank:  rank,
				Image: fmt.Sprintf("%s_%02d.png", strings.ToLower(suit.String()), int(rank)),
			})
		}
	}
	return out
}

// Source returns the static ordered collection of the 40 card records.
// Callers must not mutate the returned slice.
func Source() []CardRecord {
	return records
}
