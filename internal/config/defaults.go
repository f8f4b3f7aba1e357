package config

import (
	_ "embed"
)

//go:embed defaults/gems.yaml
var defaultGemsYAML []byte

// DefaultGemsConfig returns the default gems configuration.
// Keep in sync with defaults/gems.yaml.
func DefaultGemsConfig() GemsConfig {
	return GemsConfig{
		Board: BoardConfig{
			Size:    8,
			Palette: 8,
		},
		Scoring: ScoringConfig{
			PointsPerGem: 15,
		},
		Generation: GenerationConfig{
			MaxDrawAttempts: 1000,
		},
		Timing: TimingConfig{
			SwapTicks:     11, // ~180ms at 60fps
			RevertTicks:   6,
			MatchTicks:    19, // ~320ms
			CollapseTicks: 16, // ~260ms
			SpawnTicks:    19,
		},
		Session: SessionConfig{
			MoveLimit: 30,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "gems", "gems_endless":
		return defaultGemsYAML
	default:
		return nil
	}
}
