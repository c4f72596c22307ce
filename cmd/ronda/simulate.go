package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/mjamili/ronda/internal/game"
)

var simTitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#145A32")).
	Padding(0, 1).
	Bold(true)

// SimulateCmd plays bot-vs-bot games across a worker pool and reports
// aggregate statistics. Useful for sanity-checking rule changes: over
// many games neither seat should dominate.
type SimulateCmd struct {
	Games   int `default:"1000" help:"Number of games to simulate"`
	Workers int `default:"0" help:"Worker goroutines (0 for GOMAXPROCS)"`
}

type simResult struct {
	winner game.Seat
	draw   bool
	rounds int
	margin int
}

type simStats struct {
	games   int
	wins    [2]int
	draws   int
	rounds  int
	margins int
}

func (s *simStats) add(r simResult) {
	s.games++
	if r.draw {
		s.draws++
	} else {
		s.wins[r.winner]++
	}
	s.rounds += r.rounds
	s.margins += r.margin
}

func (c *SimulateCmd) Run(cli *CLI) error {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	baseSeed := resolveSeed(cli.Seed)

	fmt.Println(simTitleStyle.Render(fmt.Sprintf(" Simulating %d games (%d workers, seed %d) ", c.Games, workers, baseSeed)))

	var (
		mu    sync.Mutex
		stats simStats
	)
	var g errgroup.Group
	g.SetLimit(workers)

	start := time.Now()
	for i := 0; i < c.Games; i++ {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			result, err := playOut(seed)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.add(result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	printStats(os.Stdout, stats, elapsed)
	return nil
}

// playOut drives one full game with the opponent policy on both seats.
// Timing is zeroed so every deferred transition fires immediately; the
// driver waits on the event bus between moves.
func playOut(seed int64) (simResult, error) {
	engine := game.New(game.Options{
		Mode:   game.ModePvP,
		Seed:   seed,
		Timing: &game.Timing{},
	})

	notify := make(chan struct{}, 16)
	engine.Bus().Subscribe(notifier(notify))
	engine.StartGame()

	for {
		snap := engine.Snapshot()
		switch snap.State {
		case game.StateGameEnd:
			result := simResult{rounds: snap.RoundNumber}
			if snap.Result.Draw {
				result.draw = true
			} else {
				result.winner = snap.Result.Winner
				result.margin = snap.Result.Scores[result.winner] - snap.Result.Scores[result.winner.Other()]
			}
			return result, nil

		case game.StatePlaying:
			if card, ok := game.ChooseCard(snap.Hands[snap.Turn], snap.Table); ok {
				engine.PlayCard(card, snap.Turn)
				continue
			}
		}

		// waiting on a deferred transition (re-deal or round change)
		select {
		case <-notify:
		case <-time.After(time.Second):
			return simResult{}, fmt.Errorf("game stalled in state %s (seed %d)", snap.State, seed)
		}
	}
}

// notifier adapts a channel to the event bus; a full channel drops the
// signal, the driver re-reads the snapshot anyway.
type notifier chan struct{}

func (n notifier) OnEvent(game.Event) {
	select {
	case n <- struct{}{}:
	default:
	}
}

func printStats(w io.Writer, stats simStats, elapsed time.Duration) {
	if stats.games == 0 {
		return
	}
	decided := stats.games - stats.draws
	fmt.Fprintf(w, "\nGames:        %d in %s\n", stats.games, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Seat 1 wins:  %d (%.1f%%)\n", stats.wins[game.SeatOne], pct(stats.wins[game.SeatOne], stats.games))
	fmt.Fprintf(w, "Seat 2 wins:  %d (%.1f%%)\n", stats.wins[game.SeatTwo], pct(stats.wins[game.SeatTwo], stats.games))
	fmt.Fprintf(w, "Draws:        %d (%.1f%%)\n", stats.draws, pct(stats.draws, stats.games))
	fmt.Fprintf(w, "Mean rounds:  %.2f\n", float64(stats.rounds)/float64(stats.games))
	if decided > 0 {
		fmt.Fprintf(w, "Mean margin:  %.2f points\n", float64(stats.margins)/float64(decided))
	}
}

func pct(n, total int) float64 {
	return 100 * float64(n) / float64(total)
}
