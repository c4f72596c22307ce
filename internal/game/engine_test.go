package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjamili/ronda/internal/deck"
	"github.com/mjamili/ronda/internal/randutil"
)

// playingEngine returns an engine forced into a mid-round position so
// tests can state exact hands and tables.
func playingEngine(mode Mode, clock quartz.Clock) *Engine {
	e := New(Options{Mode: mode, Clock: clock, Seed: 1})
	e.state = StatePlaying
	e.roundNumber = 1
	e.dk = deck.New(randutil.New(1))
	e.turn = SeatOne
	return e
}

func drainDeck(e *Engine, leave int) {
	e.dk.Deal(e.dk.Remaining() - leave)
}

func TestStartGameDeals(t *testing.T) {
	e := New(Options{Mode: ModePvP, Seed: 42})
	e.StartGame()

	snap := e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 1, snap.RoundNumber)
	assert.Len(t, snap.Table, 4)
	assert.Len(t, snap.Hands[SeatOne], 3)
	assert.Len(t, snap.Hands[SeatTwo], 3)
	assert.Equal(t, SeatTwo, snap.Turn, "non-dealer moves first")
	assert.Equal(t, [2]int{0, 0}, snap.Scores)

	// opening table never holds a rank pair on a fresh draw
	seen := map[deck.Rank]bool{}
	for _, c := range snap.Table {
		assert.False(t, seen[c.Rank], "rank %s paired on opening table", c.Rank)
		seen[c.Rank] = true
	}
}

func TestStartGameIsReplayableFromSeed(t *testing.T) {
	a := New(Options{Mode: ModePvP, Seed: 7})
	b := New(Options{Mode: ModePvP, Seed: 7})
	a.StartGame()
	b.StartGame()

	assert.Equal(t, a.Snapshot().Table, b.Snapshot().Table)
	assert.Equal(t, a.Snapshot().Hands, b.Snapshot().Hands)
}

func TestPlayCardIllegalMovesAreNoOps(t *testing.T) {
	e := playingEngine(ModePvP, nil)
	e.table = cards(2, 4, deck.Caballo)
	e.hands[SeatOne] = []deck.Card{deck.NewCard(deck.Oros, 7)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Copas, 3)}

	before := e.Snapshot()

	// not the actor's turn
	e.PlayCard(deck.NewCard(deck.Copas, 3), SeatTwo)
	assert.Equal(t, before, e.Snapshot())

	// card not held
	e.PlayCard(deck.NewCard(deck.Bastos, 1), SeatOne)
	assert.Equal(t, before, e.Snapshot())

	// wrong state
	e.state = StateRoundEnd
	e.PlayCard(deck.NewCard(deck.Oros, 7), SeatOne)
	e.state = StatePlaying
	assert.Equal(t, before, e.Snapshot())
}

func TestPlayCardPlacement(t *testing.T) {
	e := playingEngine(ModePvP, nil)
	e.table = cards(2, 4, deck.Caballo)
	played := deck.NewCard(deck.Oros, 7)
	e.hands[SeatOne] = []deck.Card{played, deck.NewCard(deck.Copas, 1)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Espadas, 3)}

	e.PlayCard(played, SeatOne)

	snap := e.Snapshot()
	assert.Len(t, snap.Table, 4, "placement appends to the table")
	assert.Equal(t, played, snap.Table[3])
	assert.Empty(t, snap.Captured[SeatOne])
	assert.Equal(t, SeatTwo, snap.Turn, "turn flips after a placement too")
}

func TestPlayCardCapture(t *testing.T) {
	e := playingEngine(ModePvP, nil)
	e.table = cards(5, 6, 7, deck.Sota, deck.Rey)
	played := deck.NewCard(deck.Bastos, 5)
	e.hands[SeatOne] = []deck.Card{played}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Espadas, 3)}

	e.PlayCard(played, SeatOne)

	snap := e.Snapshot()
	require.Len(t, snap.Table, 1, "chain takes 5,6,7,10 and leaves the rey")
	assert.Equal(t, deck.Rey, snap.Table[0].Rank)
	assert.Len(t, snap.Captured[SeatOne], 4, "the four chained table cards only")
	assert.NotContains(t, snap.Captured[SeatOne], played, "the played card is consumed, it counts for neither pile")
	assert.Equal(t, SeatTwo, snap.Turn)
}

func TestMissaBonus(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.table = cards(4)
	played := deck.NewCard(deck.Copas, 4)
	e.hands[SeatOne] = []deck.Card{played, deck.NewCard(deck.Oros, 1)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Espadas, 3)}

	e.PlayCard(played, SeatOne)

	snap := e.Snapshot()
	assert.Empty(t, snap.Table)
	assert.Equal(t, 1, snap.RoundScores[SeatOne])
	require.Len(t, snap.Announcements, 1)
	assert.Equal(t, BonusMissa, snap.Announcements[0].Kind)
	assert.Equal(t, SeatOne, snap.Announcements[0].Seat)

	// the announcement expires without touching the score
	clock.Advance(e.timing.MissaTTL).MustWait(ctx)
	snap = e.Snapshot()
	assert.Empty(t, snap.Announcements)
	assert.Equal(t, 1, snap.RoundScores[SeatOne])
}

func TestNoMissaOnPlacement(t *testing.T) {
	e := playingEngine(ModePvP, nil)
	e.table = nil // empty table, any play is a placement onto it
	played := deck.NewCard(deck.Copas, 4)
	e.hands[SeatOne] = []deck.Card{played}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Espadas, 3)}

	e.PlayCard(played, SeatOne)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.RoundScores[SeatOne])
	assert.Empty(t, snap.Announcements)
	assert.Len(t, snap.Table, 1)
}

func TestDealBonusScoredOncePerDeal(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.hands[SeatOne] = cards(3, 3, 7)
	e.hands[SeatTwo] = cards(5, 5, 5)

	e.mu.Lock()
	events := e.dealBonusesLocked()
	e.mu.Unlock()
	e.publish(events)

	snap := e.Snapshot()
	assert.Equal(t, 1, snap.RoundScores[SeatOne], "pair scores ronda")
	assert.Equal(t, 5, snap.RoundScores[SeatTwo], "triple scores tringa, not tringa plus ronda")
	assert.Len(t, snap.Announcements, 2)

	clock.Advance(e.timing.DealBonusTTL).MustWait(ctx)
	snap = e.Snapshot()
	assert.Empty(t, snap.Announcements)
	assert.Equal(t, 1, snap.RoundScores[SeatOne])
	assert.Equal(t, 5, snap.RoundScores[SeatTwo])
}

func TestRedealWhenHandsEmpty(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.table = cards(2, deck.Caballo)
	e.hands[SeatOne] = []deck.Card{deck.NewCard(deck.Oros, 7)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Copas, 1)}
	drainDeck(e, 10)

	e.PlayCard(deck.NewCard(deck.Oros, 7), SeatOne)
	e.PlayCard(deck.NewCard(deck.Copas, 1), SeatTwo)

	snap := e.Snapshot()
	assert.Empty(t, snap.Hands[SeatOne])
	assert.Empty(t, snap.Hands[SeatTwo])
	assert.Equal(t, StatePlaying, snap.State, "round continues while the deck can serve both hands")

	clock.Advance(e.timing.RedealDelay).MustWait(ctx)

	snap = e.Snapshot()
	assert.Len(t, snap.Hands[SeatOne], 3)
	assert.Len(t, snap.Hands[SeatTwo], 3)
	assert.Equal(t, 1, snap.RoundNumber, "a re-deal is not a new round")
	assert.Equal(t, SeatTwo, snap.Turn, "first mover resets on re-deal")
	assert.Len(t, snap.Table, 4, "no new table cards on a re-deal")
}

func TestRoundEndLeftoversAndCardBonus(t *testing.T) {
	e := playingEngine(ModePvP, quartz.NewMock(t))
	e.table = cards(2, deck.Caballo)
	e.hands[SeatOne] = []deck.Card{deck.NewCard(deck.Oros, 7)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Copas, 1)}
	drainDeck(e, 4) // below a full re-deal, next empty hands end the round

	// SeatOne has captured 20 cards already and made the last capture
	for i := 0; i < 20; i++ {
		e.captured[SeatOne] = append(e.captured[SeatOne], deck.Card{Suit: deck.Suits[i%4], Rank: deck.Ranks[i%10]})
	}
	e.lastCapture = SeatOne
	e.hasCapture = true

	e.PlayCard(deck.NewCard(deck.Oros, 7), SeatOne)
	e.PlayCard(deck.NewCard(deck.Copas, 1), SeatTwo)

	snap := e.Snapshot()
	assert.Equal(t, StateRoundEnd, snap.State)
	// 20 pile cards + 4 leftover table cards (2, 11 and the two
	// placements) = 24, four above the threshold
	assert.Len(t, snap.Captured[SeatOne], 24)
	assert.Equal(t, 4, snap.RoundScores[SeatOne])
	assert.Equal(t, 4, snap.Scores[SeatOne])
	assert.Equal(t, 0, snap.Scores[SeatTwo])
}

func TestRoundEndNoCaptureNobodyGetsLeftovers(t *testing.T) {
	e := playingEngine(ModePvP, quartz.NewMock(t))
	e.table = cards(2, deck.Caballo)
	e.hands[SeatOne] = []deck.Card{deck.NewCard(deck.Oros, 7)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Copas, 1)}
	drainDeck(e, 4)

	e.PlayCard(deck.NewCard(deck.Oros, 7), SeatOne)
	e.PlayCard(deck.NewCard(deck.Copas, 1), SeatTwo)

	snap := e.Snapshot()
	assert.Equal(t, StateRoundEnd, snap.State)
	assert.Empty(t, snap.Captured[SeatOne])
	assert.Empty(t, snap.Captured[SeatTwo])
	assert.Len(t, snap.Table, 4, "leftovers stay on the table when nobody captured")
}

func TestNextRoundAfterRoundEnd(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.scores = [2]int{10, 12}
	e.state = StateRoundEnd
	e.captured[SeatOne] = cards(3, 4)

	e.mu.Lock()
	e.schedule(e.timing.RoundEndDelay, e.nextRoundLocked)
	e.mu.Unlock()
	clock.Advance(e.timing.RoundEndDelay).MustWait(ctx)

	snap := e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 2, snap.RoundNumber)
	assert.Empty(t, snap.Captured[SeatOne], "piles reset at the round boundary")
	assert.Equal(t, [2]int{10, 12}, snap.Scores, "cumulative scores persist")
	assert.Len(t, snap.Table, 4)
}

func TestGameEndsAtTarget(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.scores = [2]int{40, 30}
	e.roundScores = [2]int{1, 0}
	e.hands[SeatOne] = nil
	e.hands[SeatTwo] = nil

	e.mu.Lock()
	events := e.endRoundLocked()
	e.mu.Unlock()
	e.publish(events)

	require.Equal(t, StateRoundEnd, e.Snapshot().State)
	clock.Advance(e.timing.GameEndDelay).MustWait(ctx)

	snap := e.Snapshot()
	require.Equal(t, StateGameEnd, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, SeatOne, snap.Result.Winner)
	assert.False(t, snap.Result.Draw)
	assert.Equal(t, [2]int{41, 30}, snap.Result.Scores)
}

func TestFortyDoesNotEndTheGame(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.scores = [2]int{39, 30}
	e.roundScores = [2]int{1, 0}
	e.hands[SeatOne] = nil
	e.hands[SeatTwo] = nil

	e.mu.Lock()
	events := e.endRoundLocked()
	e.mu.Unlock()
	e.publish(events)

	clock.Advance(e.timing.RoundEndDelay).MustWait(ctx)

	snap := e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State, "40 points keeps the game going")
	assert.Equal(t, 2, snap.RoundNumber)
	assert.Equal(t, [2]int{40, 30}, snap.Scores)
}

func TestDrawResult(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModePvP, clock)
	e.scores = [2]int{40, 40}
	e.roundScores = [2]int{1, 1}
	e.hands[SeatOne] = nil
	e.hands[SeatTwo] = nil

	e.mu.Lock()
	events := e.endRoundLocked()
	e.mu.Unlock()
	e.publish(events)
	clock.Advance(e.timing.GameEndDelay).MustWait(ctx)

	snap := e.Snapshot()
	require.NotNil(t, snap.Result)
	assert.True(t, snap.Result.Draw)
	assert.Equal(t, [2]int{41, 41}, snap.Result.Scores)
}

func TestBotPlaysAfterPacingDelay(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := playingEngine(ModeSolo, clock)
	e.table = cards(2, 4, deck.Caballo)
	e.hands[SeatOne] = []deck.Card{deck.NewCard(deck.Oros, 7), deck.NewCard(deck.Copas, 1)}
	e.hands[SeatTwo] = []deck.Card{deck.NewCard(deck.Espadas, 4), deck.NewCard(deck.Bastos, 6)}

	e.PlayCard(deck.NewCard(deck.Oros, 7), SeatOne)
	require.Equal(t, SeatTwo, e.Snapshot().Turn)
	assert.Len(t, e.Snapshot().Hands[SeatTwo], 2, "bot move is deferred by the pacing interval")

	clock.Advance(e.timing.BotDelay).MustWait(ctx)

	snap := e.Snapshot()
	assert.Len(t, snap.Hands[SeatTwo], 1)
	assert.Equal(t, SeatOne, snap.Turn)
	assert.NotEmpty(t, snap.Captured[SeatTwo], "the policy took the 4 on the table")
}

func TestStaleBotTimerCannotFireIntoANewGame(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := New(Options{Mode: ModeSolo, Clock: clock, Seed: 3})

	e.StartGame() // schedules a bot move: SeatTwo is the first mover
	e.StartGame() // reset before the pacing delay elapses

	clock.Advance(e.timing.BotDelay).MustWait(ctx)

	snap := e.Snapshot()
	assert.Len(t, snap.Hands[SeatTwo], 2, "exactly one bot move applied, the stale timer was a no-op")
	assert.Equal(t, SeatOne, snap.Turn)
}

func TestScheduleGenerationGate(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := New(Options{Mode: ModePvP, Clock: clock})

	fired := false
	e.mu.Lock()
	e.schedule(time.Second, func() []Event {
		fired = true
		return nil
	})
	e.generation++
	e.mu.Unlock()

	clock.Advance(time.Second).MustWait(ctx)
	assert.False(t, fired, "a timer from a superseded generation must not run")
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	e := playingEngine(ModePvP, nil)
	e.table = cards(2, 4)
	e.hands[SeatOne] = cards(7)

	snap := e.Snapshot()
	snap.Table[0] = deck.NewCard(deck.Bastos, deck.Rey)
	snap.Hands[SeatOne][0] = deck.NewCard(deck.Bastos, deck.Rey)

	assert.Equal(t, deck.Rank(2), e.table[0].Rank)
	assert.Equal(t, deck.Rank(7), e.hands[SeatOne][0].Rank)
}

func TestCardBonus(t *testing.T) {
	assert.Equal(t, 0, cardBonus(18, 20))
	assert.Equal(t, 0, cardBonus(20, 20))
	assert.Equal(t, 3, cardBonus(23, 20))
}
