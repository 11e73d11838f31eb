package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soundstep",
	Short: "Practice analytics for auditory training",
	Long: "Soundstep turns a listener's practice history into progress reports, " +
		"sound pair analysis, recommendations, and a daily two-step plan.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SOUNDSTEP_DB env var)")
	pf.String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/soundstep/config.toml)")
	pf.String("user", "", "Learner ID (overrides SOUNDSTEP_USER env var)")
	pf.StringP("format", "o", "text", "Output format: text, json, or yaml")
	pf.BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(phonemesCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(placementCmd)
	rootCmd.AddCommand(versionCmd)
}
