package game

// Seat identifies one of the two players
type Seat int

const (
	SeatOne Seat = iota
	SeatTwo

	numSeats = 2
)

// String returns the seat name
func (s Seat) String() string {
	switch s {
	case SeatOne:
		return "seat1"
	case SeatTwo:
		return "seat2"
	default:
		return "?"
	}
}

// Other returns the opposing seat
func (s Seat) Other() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Mode selects whether the second seat is policy-driven or human
type Mode string

const (
	// ModePvP seats two humans; both hands are played through the UI.
	ModePvP Mode = "pvp"
	// ModeSolo seats one human against the opponent policy on SeatTwo.
	ModeSolo Mode = "solo"
)
