package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/mjamili/ronda/internal/config"
	"github.com/mjamili/ronda/internal/game"
	"github.com/mjamili/ronda/internal/randutil"
	"github.com/mjamili/ronda/internal/tui"
)

type CLI struct {
	Config string `short:"c" default:"ronda.hcl" help:"Path to the HCL config file"`
	Seed   int64  `default:"0" help:"RNG seed (0 for random)"`

	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play an interactive game"`
	Simulate SimulateCmd `cmd:"" help:"Run bot-vs-bot games and report statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ronda"),
		kong.Description("The Moroccan capture card game, in your terminal."))
	if err := ctx.Run(&cli); err != nil {
		log.Fatal("command failed", "error", err)
	}
}

// PlayCmd runs the interactive TUI game
type PlayCmd struct {
	Mode     string `enum:"solo,pvp," default:"" help:"Game mode: solo (vs bot) or pvp (hot seat)"`
	Name     string `help:"Your name"`
	Opponent string `help:"Second seat's name"`
}

func (p *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "ronda",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	mode := cfg.Mode()
	if p.Mode != "" {
		mode = game.Mode(p.Mode)
	}
	names := [2]string{cfg.Game.PlayerName, cfg.Game.OpponentName}
	if p.Name != "" {
		names[0] = p.Name
	}
	if p.Opponent != "" {
		names[1] = p.Opponent
	}

	timing := cfg.EngineTiming()
	engine := game.New(game.Options{
		Logger:        logger,
		Seed:          cli.Seed,
		Mode:          mode,
		Timing:        &timing,
		TargetScore:   cfg.Game.TargetScore,
		CardThreshold: cfg.Game.CardThreshold,
		Names:         names,
	})
	logger.Info("starting", "mode", mode, "seed", engine.Seed())

	model := tui.NewModel(engine, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	engine.Bus().Subscribe(tui.NewSubscriber(program))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveSeed mirrors the engine's seed handling for commands that
// derive per-game seeds themselves.
func resolveSeed(seed int64) int64 {
	return randutil.Seed(seed)
}
