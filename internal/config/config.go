// Package config provides YAML-based configuration loading for the gems game.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-gems/internal/match3"
)

// ErrInvalid is returned by Validate for settings the game cannot run with.
var ErrInvalid = errors.New("config: invalid")

// GemsConfig contains all configuration for the gems game.
type GemsConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Generation GenerationConfig `yaml:"generation"`
	Timing     TimingConfig     `yaml:"timing"`
	Session    SessionConfig    `yaml:"session"`
}

// BoardConfig defines the board dimensions and gem palette.
type BoardConfig struct {
	Size    int `yaml:"size"`
	Palette int `yaml:"palette"`
}

// ScoringConfig defines how cleared gems are scored.
type ScoringConfig struct {
	PointsPerGem int `yaml:"points_per_gem"`
}

// GenerationConfig bounds match-safe gem generation.
type GenerationConfig struct {
	MaxDrawAttempts int `yaml:"max_draw_attempts"`
}

// TimingConfig holds presentation delays in simulation ticks.
type TimingConfig struct {
	SwapTicks     int `yaml:"swap_ticks"`
	RevertTicks   int `yaml:"revert_ticks"`
	MatchTicks    int `yaml:"match_ticks"`
	CollapseTicks int `yaml:"collapse_ticks"`
	SpawnTicks    int `yaml:"spawn_ticks"`
}

// SessionConfig defines per-game limits.
type SessionConfig struct {
	MoveLimit int `yaml:"move_limit"`
}

// EngineConfig converts the board, scoring and generation sections into
// the match3 engine configuration.
func (c GemsConfig) EngineConfig() match3.Config {
	return match3.Config{
		Size:            c.Board.Size,
		Palette:         c.Board.Palette,
		PointsPerGem:    c.Scoring.PointsPerGem,
		MaxDrawAttempts: c.Generation.MaxDrawAttempts,
	}
}

// Validate checks the whole configuration.
func (c GemsConfig) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	t := c.Timing
	for name, v := range map[string]int{
		"swap_ticks":     t.SwapTicks,
		"revert_ticks":   t.RevertTicks,
		"match_ticks":    t.MatchTicks,
		"collapse_ticks": t.CollapseTicks,
		"spawn_ticks":    t.SpawnTicks,
	} {
		if v < 0 {
			return fmt.Errorf("%w: timing.%s is negative (%d)", ErrInvalid, name, v)
		}
	}

	if c.Session.MoveLimit < 0 {
		return fmt.Errorf("%w: session.move_limit is negative (%d)", ErrInvalid, c.Session.MoveLimit)
	}
	return nil
}
