package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadGems loads the gems configuration.
// Search order: customPath -> ~/.gems/configs/gems.yaml -> ./configs/gems.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadGems(customPath string) (GemsConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GemsConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseGems(data)
		if err != nil {
			return GemsConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("gems.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseGems(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/gems.yaml"); err == nil {
		if cfg, err := parseGems(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseGems(defaultGemsYAML)
	if err != nil {
		return DefaultGemsConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseGems decodes YAML over the defaults and validates the result.
func parseGems(data []byte) (GemsConfig, error) {
	cfg := DefaultGemsConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GemsConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GemsConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gems", "configs", filename)
}
