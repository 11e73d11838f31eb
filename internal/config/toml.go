// Package config loads settings from the TOML file, the environment, and
// command-line overrides.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Store  StoreConfig  `toml:"store"`
	Engine EngineConfig `toml:"engine"`
	User   UserConfig   `toml:"user"`
}

// StoreConfig maps event store settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// EngineConfig maps aggregation settings.
type EngineConfig struct {
	WindowDays *int    `toml:"window_days"`
	Timezone   *string `toml:"timezone"`
}

// UserConfig maps the default learner.
type UserConfig struct {
	ID   *string `toml:"id"`
	Tier *string `toml:"tier"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown config key %q in %s\n", undecoded[0].String(), path)
	}
	return cfg, nil
}
