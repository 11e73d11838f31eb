package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/soundstep/internal/breakdown"
	"github.com/abhisek/soundstep/internal/erber"
)

// Environment variables that override the config file.
const (
	EnvDB   = "SOUNDSTEP_DB"
	EnvUser = "SOUNDSTEP_USER"
	EnvTier = "SOUNDSTEP_TIER"
	EnvTZ   = "SOUNDSTEP_TZ"
)

// DefaultUserID is used when no learner is configured.
const DefaultUserID = "default"

// Config is the resolved runtime configuration.
type Config struct {
	// DBPath is empty when the caller should use the store default.
	DBPath     string
	UserID     string
	Tier       erber.Tier
	WindowDays int
	Location   *time.Location
}

// Overrides are values given on the command line.
type Overrides struct {
	DBPath string
	UserID string
}

// Resolve merges the file, environment, and flags, in increasing priority.
// getenv is usually os.Getenv.
func Resolve(file FileConfig, getenv func(string) string, flags Overrides) (Config, error) {
	cfg := Config{
		UserID:     DefaultUserID,
		WindowDays: breakdown.DefaultWindowDays,
		Location:   time.Local,
	}

	tz := ""
	tier := ""
	if file.Store.Path != nil {
		cfg.DBPath = *file.Store.Path
	}
	if file.User.ID != nil && *file.User.ID != "" {
		cfg.UserID = *file.User.ID
	}
	if file.User.Tier != nil {
		tier = *file.User.Tier
	}
	if file.Engine.Timezone != nil {
		tz = *file.Engine.Timezone
	}
	if file.Engine.WindowDays != nil {
		if *file.Engine.WindowDays <= 0 {
			return Config{}, fmt.Errorf("engine.window_days must be positive, got %d", *file.Engine.WindowDays)
		}
		cfg.WindowDays = *file.Engine.WindowDays
	}

	if v := getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvUser); v != "" {
		cfg.UserID = v
	}
	if v := getenv(EnvTier); v != "" {
		tier = v
	}
	if v := getenv(EnvTZ); v != "" {
		tz = v
	}

	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}
	if flags.UserID != "" {
		cfg.UserID = flags.UserID
	}

	cfg.Tier = erber.ParseTier(tier)
	if tz = strings.TrimSpace(tz); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("timezone %q: %w", tz, err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}
