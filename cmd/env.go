package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/soundstep/internal/analytics"
	"github.com/abhisek/soundstep/internal/config"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/report"
	"github.com/abhisek/soundstep/internal/store"
)

// env holds what every data command needs: resolved config, an open store,
// a logger, and the output format.
type env struct {
	cfg    config.Config
	store  *store.Store
	logger *slog.Logger
	format report.Format
	cmd    *cobra.Command
}

// openEnv resolves configuration and opens the store. Callers must Close it.
func openEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()
	format, err := report.ParseFormat(mustString(flags.GetString("format")))
	if err != nil {
		return nil, err
	}

	cfgPath := mustString(flags.GetString("config"))
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	file, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := config.Resolve(file, os.Getenv, config.Overrides{
		DBPath: mustString(flags.GetString("db")),
		UserID: mustString(flags.GetString("user")),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve config: %w", err)
	}

	verbose, _ := flags.GetBool("verbose")
	logger := newLogger(verbose)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath, "user", cfg.UserID, "tier", cfg.Tier)

	return &env{cfg: cfg, store: st, logger: logger, format: format, cmd: cmd}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) service() *analytics.Service {
	return analytics.NewService(e.store.Trials(),
		analytics.WithLocation(e.cfg.Location),
		analytics.WithWindowDays(e.cfg.WindowDays),
		analytics.WithLogger(e.logger),
	)
}

func (e *env) planner() *plan.Planner {
	return &plan.Planner{
		Builder: plan.NewBuilder(plan.TierAccess(e.cfg.Tier), e.store.Placements(), e.logger),
		Tracker: plan.NewTracker(e.store.KV(), e.cfg.Location),
	}
}

// write prints v in the selected format, using render for text output.
func (e *env) write(v any, render func() string) error {
	return report.Write(e.cmd.OutOrStdout(), e.format, v, render)
}

// resolveDBPath returns the configured database path (flag, env var, or
// config file), falling back to the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func newLogger(verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func mustString(s string, _ error) string {
	return s
}
