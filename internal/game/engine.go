package game

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mjamili/ronda/internal/deck"
	"github.com/mjamili/ronda/internal/randutil"
)

const (
	// DefaultTargetScore ends the game when a cumulative score reaches it.
	DefaultTargetScore = 41
	// DefaultCardThreshold is the captured-card count above which each
	// extra card is worth a point at round end.
	DefaultCardThreshold = 20

	handSize      = 3
	minRedealSize = 2 * handSize
)

// Timing holds every deferred interval the engine schedules. Zero
// values are valid (everything fires immediately), which is what the
// simulator uses.
type Timing struct {
	BotDelay      time.Duration // pacing before the opponent policy moves
	RedealDelay   time.Duration // pause before a mid-round re-deal
	RoundEndDelay time.Duration // pause on roundEnd before the next deal
	GameEndDelay  time.Duration // pause on roundEnd before gameEnd
	DealBonusTTL  time.Duration // Ronda/Tringa announcement lifetime
	MissaTTL      time.Duration // Missa announcement lifetime
}

// DefaultTiming returns the intervals the interactive game uses
func DefaultTiming() Timing {
	return Timing{
		BotDelay:      1100 * time.Millisecond,
		RedealDelay:   1200 * time.Millisecond,
		RoundEndDelay: 3 * time.Second,
		GameEndDelay:  2 * time.Second,
		DealBonusTTL:  2500 * time.Millisecond,
		MissaTTL:      2 * time.Second,
	}
}

// Options configures a new engine
type Options struct {
	Logger        *log.Logger
	Clock         quartz.Clock
	Seed          int64
	Mode          Mode
	Timing        *Timing
	TargetScore   int
	CardThreshold int
	Names         [2]string
}

// Engine is the round/game state machine. All mutation is serialized
// through its mutex; each accepted move applies capture resolution,
// bonus detection, scoring and the turn flip as one transition.
type Engine struct {
	mu     sync.Mutex
	logger *log.Logger
	clock  quartz.Clock
	seed   int64
	rng    *rand.Rand
	mode   Mode
	timing Timing
	target int
	thresh int
	names  [2]string
	bus    EventBus

	state       State
	generation  uint64
	dk          *deck.Deck
	table       []deck.Card
	hands       [numSeats][]deck.Card
	captured    [numSeats][]deck.Card
	roundScores [numSeats]int
	scores      [numSeats]int
	turn        Seat
	dealer      Seat
	lastCapture Seat
	hasCapture  bool
	announced   []Announcement
	roundNumber int
	message     string
	result      *Result
}

// New creates an engine in the lobby state
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	timing := DefaultTiming()
	if opts.Timing != nil {
		timing = *opts.Timing
	}
	target := opts.TargetScore
	if target == 0 {
		target = DefaultTargetScore
	}
	thresh := opts.CardThreshold
	if thresh == 0 {
		thresh = DefaultCardThreshold
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeSolo
	}
	names := opts.Names
	if names[0] == "" {
		names[0] = "Player 1"
	}
	if names[1] == "" {
		if mode == ModeSolo {
			names[1] = "Bot"
		} else {
			names[1] = "Player 2"
		}
	}

	seed := randutil.Seed(opts.Seed)
	return &Engine{
		logger: logger.WithPrefix("engine"),
		clock:  clock,
		seed:   seed,
		rng:    randutil.New(seed),
		mode:   mode,
		timing: timing,
		target: target,
		thresh: thresh,
		names:  names,
		bus:    NewEventBus(),
		state:  StateLobby,
		dealer: SeatOne,
	}
}

// Bus returns the event bus for subscribing to engine events
func (e *Engine) Bus() EventBus {
	return e.bus
}

// Seed returns the resolved RNG seed so games can be replayed
func (e *Engine) Seed() int64 {
	return e.seed
}

// Name returns the display name of a seat
func (e *Engine) Name(seat Seat) string {
	return e.names[seat]
}

// StartGame resets cumulative state and deals the first round. Any
// timer scheduled under the previous game becomes a no-op.
func (e *Engine) StartGame() {
	e.mu.Lock()
	e.generation++
	e.scores = [numSeats]int{}
	e.captured = [numSeats][]deck.Card{}
	e.announced = nil
	e.result = nil
	e.roundNumber = 1
	e.logger.Info("starting game", "mode", e.mode, "seed", e.seed)
	events := e.dealRoundLocked()
	e.mu.Unlock()
	e.publish(events)
}

// PlayCard submits a move for a seat. Illegal moves (wrong state,
// wrong turn, card not held) are silently ignored with no state
// change; the defensive UI already prevents most of them.
func (e *Engine) PlayCard(card deck.Card, seat Seat) {
	e.mu.Lock()
	events := e.playCardLocked(card, seat)
	e.mu.Unlock()
	e.publish(events)
}

func (e *Engine) publish(events []Event) {
	for _, ev := range events {
		e.bus.Publish(ev)
	}
}

// schedule runs fn after d, unless the generation has moved on by the
// time the timer fires. fn runs under the engine mutex and returns the
// events to publish.
func (e *Engine) schedule(d time.Duration, fn func() []Event) {
	gen := e.generation
	e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if e.generation != gen {
			e.mu.Unlock()
			return
		}
		events := fn()
		e.mu.Unlock()
		e.publish(events)
	})
}

func (e *Engine) dealRoundLocked() []Event {
	e.dk = deck.New(e.rng)

	table, attempts := e.dk.DrawTable()
	if attempts > 0 {
		e.logger.Debug("re-drew opening table", "attempts", attempts)
	}
	e.table = table
	e.hands[SeatOne] = e.dk.Deal(handSize)
	e.hands[SeatTwo] = e.dk.Deal(handSize)

	e.roundScores = [numSeats]int{}
	e.turn = e.dealer.Other()
	e.hasCapture = false
	e.state = StatePlaying
	e.message = fmt.Sprintf("Round %d — %s plays first", e.roundNumber, e.names[e.turn])
	e.logger.Info("dealt round", "round", e.roundNumber, "table", e.table, "deck", e.dk.Remaining())

	events := []Event{DealEvent{RoundNumber: e.roundNumber, timestamp: e.now()}}
	events = append(events, e.dealBonusesLocked()...)
	e.maybeScheduleBotLocked()
	return events
}

func (e *Engine) redealLocked() []Event {
	// the re-deal must still be pending when the timer fires
	if e.state != StatePlaying || len(e.hands[SeatOne]) > 0 || len(e.hands[SeatTwo]) > 0 {
		return nil
	}
	if e.dk.Remaining() < minRedealSize {
		return nil
	}

	e.hands[SeatOne] = e.dk.Deal(handSize)
	e.hands[SeatTwo] = e.dk.Deal(handSize)
	e.turn = e.dealer.Other()
	e.message = "Cards redealt"
	e.logger.Info("redealt hands", "round", e.roundNumber, "deck", e.dk.Remaining())

	events := []Event{DealEvent{RoundNumber: e.roundNumber, Redeal: true, timestamp: e.now()}}
	events = append(events, e.dealBonusesLocked()...)
	e.maybeScheduleBotLocked()
	return events
}

func (e *Engine) dealBonusesLocked() []Event {
	var events []Event
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		kind, ok := DetectDealBonus(e.hands[seat])
		if !ok {
			continue
		}
		events = append(events, e.awardBonusLocked(seat, kind, e.timing.DealBonusTTL))
		e.message = fmt.Sprintf("%s announced %s!", e.names[seat], kind)
	}
	return events
}

func (e *Engine) awardBonusLocked(seat Seat, kind BonusKind, ttl time.Duration) Event {
	ann := Announcement{
		ID:        uuid.New(),
		Seat:      seat,
		Kind:      kind,
		CreatedAt: e.now(),
	}
	e.roundScores[seat] += kind.Points()
	e.announced = append(e.announced, ann)
	e.logger.Info("bonus scored", "seat", seat, "kind", kind, "points", kind.Points())

	id := ann.ID
	e.schedule(ttl, func() []Event {
		return e.expireAnnouncementLocked(id)
	})
	return BonusEvent{Announcement: ann, timestamp: ann.CreatedAt}
}

func (e *Engine) expireAnnouncementLocked(id uuid.UUID) []Event {
	for i, ann := range e.announced {
		if ann.ID == id {
			e.announced = append(e.announced[:i], e.announced[i+1:]...)
			return []Event{TickEvent{timestamp: e.now()}}
		}
	}
	return nil
}

func (e *Engine) playCardLocked(card deck.Card, seat Seat) []Event {
	if e.state != StatePlaying || seat != e.turn {
		return nil
	}
	idx := indexOfCard(e.hands[seat], card)
	if idx == -1 {
		return nil
	}

	e.hands[seat] = append(e.hands[seat][:idx], e.hands[seat][idx+1:]...)
	result := ResolveCapture(card, e.table)

	var events []Event
	if result.Capture {
		e.table = removeCards(e.table, result.Captured)
		// Only the table cards count toward the pile; the played card
		// is consumed without joining either side's count.
		e.captured[seat] = append(e.captured[seat], result.Captured...)
		e.lastCapture = seat
		e.hasCapture = true
		e.message = fmt.Sprintf("%s captured %d card(s)", e.names[seat], len(result.Captured))

		if len(e.table) == 0 {
			events = append(events, e.awardBonusLocked(seat, BonusMissa, e.timing.MissaTTL))
			e.message = fmt.Sprintf("%s made Missa! (cleared table)", e.names[seat])
		}
	} else {
		e.table = append(e.table, card)
		e.message = fmt.Sprintf("%s placed %s on the table", e.names[seat], card.Name())
	}

	e.logger.Debug("card played",
		"seat", seat,
		"card", card,
		"captured", len(result.Captured),
		"table", len(e.table))

	events = append([]Event{CardPlayedEvent{
		Seat:      seat,
		Card:      card,
		Captured:  result.Captured,
		Placement: !result.Capture,
		timestamp: e.now(),
	}}, events...)

	e.turn = seat.Other()
	events = append(events, e.afterMoveLocked()...)
	return events
}

// afterMoveLocked sequences what follows a completed move: a re-deal,
// the round end, or the opponent's scheduled reply.
func (e *Engine) afterMoveLocked() []Event {
	if len(e.hands[SeatOne]) == 0 && len(e.hands[SeatTwo]) == 0 {
		if e.dk.Remaining() < minRedealSize {
			return e.endRoundLocked()
		}
		e.schedule(e.timing.RedealDelay, e.redealLocked)
		return nil
	}
	e.maybeScheduleBotLocked()
	return nil
}

func (e *Engine) maybeScheduleBotLocked() {
	if e.mode != ModeSolo || e.state != StatePlaying || e.turn != SeatTwo {
		return
	}
	if len(e.hands[SeatTwo]) == 0 {
		return
	}
	e.schedule(e.timing.BotDelay, e.botMoveLocked)
}

func (e *Engine) botMoveLocked() []Event {
	if e.mode != ModeSolo || e.state != StatePlaying || e.turn != SeatTwo {
		return nil
	}
	card, ok := ChooseCard(e.hands[SeatTwo], e.table)
	if !ok {
		return nil
	}
	return e.playCardLocked(card, SeatTwo)
}

func (e *Engine) endRoundLocked() []Event {
	e.state = StateRoundEnd

	// leftover table cards go to whoever captured last; nobody if the
	// whole round passed without a capture
	if e.hasCapture && len(e.table) > 0 {
		e.captured[e.lastCapture] = append(e.captured[e.lastCapture], e.table...)
		e.table = nil
	}

	var counts [numSeats]int
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		counts[seat] = len(e.captured[seat])
		e.roundScores[seat] += cardBonus(counts[seat], e.thresh)
		e.scores[seat] += e.roundScores[seat]
	}

	e.message = fmt.Sprintf("Round ended — %s: %d | %s: %d",
		e.names[SeatOne], e.roundScores[SeatOne],
		e.names[SeatTwo], e.roundScores[SeatTwo])
	e.logger.Info("round ended",
		"round", e.roundNumber,
		"cards", counts,
		"roundScores", e.roundScores,
		"scores", e.scores)

	events := []Event{RoundEndEvent{
		RoundNumber: e.roundNumber,
		RoundScores: e.roundScores,
		CardCounts:  counts,
		timestamp:   e.now(),
	}}

	if e.scores[SeatOne] >= e.target || e.scores[SeatTwo] >= e.target {
		e.schedule(e.timing.GameEndDelay, e.endGameLocked)
	} else {
		e.schedule(e.timing.RoundEndDelay, e.nextRoundLocked)
	}
	return events
}

func (e *Engine) nextRoundLocked() []Event {
	if e.state != StateRoundEnd {
		return nil
	}
	e.roundNumber++
	e.captured = [numSeats][]deck.Card{}
	e.table = nil
	return e.dealRoundLocked()
}

func (e *Engine) endGameLocked() []Event {
	if e.state != StateRoundEnd {
		return nil
	}
	e.state = StateGameEnd
	e.generation++ // nothing scheduled before this point may fire into the terminal state

	result := Result{Scores: e.scores}
	switch {
	case e.scores[SeatOne] > e.scores[SeatTwo]:
		result.Winner = SeatOne
	case e.scores[SeatTwo] > e.scores[SeatOne]:
		result.Winner = SeatTwo
	default:
		result.Draw = true
	}
	e.result = &result
	e.announced = nil

	if result.Draw {
		e.message = "Draw!"
	} else {
		e.message = fmt.Sprintf("%s wins!", e.names[result.Winner])
	}
	e.logger.Info("game ended", "winner", e.message, "scores", e.scores)

	return []Event{GameEndEvent{Result: result, timestamp: e.now()}}
}

func (e *Engine) now() time.Time {
	return e.clock.Now()
}

func cardBonus(count, threshold int) int {
	if count > threshold {
		return count - threshold
	}
	return 0
}

func indexOfCard(cards []deck.Card, card deck.Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}
