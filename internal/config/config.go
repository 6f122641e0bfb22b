// Package config provides TOML config file loading and XDG path helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Backend  BackendConfig  `toml:"backend"`
}

// PracticeConfig maps session settings. Pointers distinguish "absent"
// from zero so flags and defaults can layer over the file cleanly.
type PracticeConfig struct {
	Pool      *string  `toml:"pool"`
	Languages []string `toml:"languages"`
	Rule      *string  `toml:"rule"`
	Minutes   *int     `toml:"minutes"`
	Count     *int     `toml:"count"`
}

// BackendConfig maps backend connection settings.
type BackendConfig struct {
	URL            *string `toml:"url"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// Load reads a TOML config from path. A missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "typedrill", "config.toml")
}
