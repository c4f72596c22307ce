package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mjamili/ronda/internal/game"
)

// Config is the complete game configuration loaded from an HCL file.
// Every field is optional; an absent file yields the defaults.
type Config struct {
	Game     *GameSettings   `hcl:"game,block"`
	Timing   *TimingSettings `hcl:"timing,block"`
	LogFile  string          `hcl:"log_file,optional"`
	LogLevel string          `hcl:"log_level,optional"`
}

// GameSettings controls the rules knobs and seat names
type GameSettings struct {
	Mode          string `hcl:"mode,optional"`
	TargetScore   int    `hcl:"target_score,optional"`
	CardThreshold int    `hcl:"card_threshold,optional"`
	PlayerName    string `hcl:"player_name,optional"`
	OpponentName  string `hcl:"opponent_name,optional"`
}

// TimingSettings controls the deferred intervals, in milliseconds
type TimingSettings struct {
	BotDelayMS      int `hcl:"bot_delay_ms,optional"`
	RedealDelayMS   int `hcl:"redeal_delay_ms,optional"`
	RoundEndDelayMS int `hcl:"round_end_delay_ms,optional"`
	GameEndDelayMS  int `hcl:"game_end_delay_ms,optional"`
	DealBonusTTLMS  int `hcl:"deal_bonus_ttl_ms,optional"`
	MissaTTLMS      int `hcl:"missa_ttl_ms,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Game:     &GameSettings{Mode: string(game.ModeSolo)},
		Timing:   &TimingSettings{},
		LogFile:  "ronda.log",
		LogLevel: "info",
	}
}

// Load reads configuration from an HCL file. A missing file is not an
// error: the defaults are returned.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Game == nil {
		cfg.Game = &GameSettings{}
	}
	if cfg.Game.Mode == "" {
		cfg.Game.Mode = string(game.ModeSolo)
	}
	if cfg.Timing == nil {
		cfg.Timing = &TimingSettings{}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "ronda.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// Mode returns the configured engine mode
func (c *Config) Mode() game.Mode {
	if c.Game.Mode == string(game.ModePvP) {
		return game.ModePvP
	}
	return game.ModeSolo
}

// EngineTiming maps the millisecond settings onto the engine's timing,
// falling back to the engine defaults field by field.
func (c *Config) EngineTiming() game.Timing {
	t := game.DefaultTiming()
	apply := func(dst *time.Duration, ms int) {
		if ms > 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}
	apply(&t.BotDelay, c.Timing.BotDelayMS)
	apply(&t.RedealDelay, c.Timing.RedealDelayMS)
	apply(&t.RoundEndDelay, c.Timing.RoundEndDelayMS)
	apply(&t.GameEndDelay, c.Timing.GameEndDelayMS)
	apply(&t.DealBonusTTL, c.Timing.DealBonusTTLMS)
	apply(&t.MissaTTL, c.Timing.MissaTTLMS)
	return t
}
