package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/soundstep/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	Long: "Stats shows accuracy by activity, voice, sound position, and noise " +
		"over the recent window, plus streaks, fatigue, and Erber level progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r := e.service().Report(cmd.Context(), e.cfg.UserID)
		return e.write(r, func() string { return report.Stats(r) })
	},
}

var phonemesCmd = &cobra.Command{
	Use:   "phonemes",
	Short: "Show sound pair accuracy and confusions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r := e.service().Report(cmd.Context(), e.cfg.UserID)
		return e.write(r.Phonemes, func() string { return report.Phonemes(r.Phonemes) })
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest what to practice next",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r := e.service().Report(cmd.Context(), e.cfg.UserID)
		return e.write(r.Recommendations, func() string { return report.Recommendations(r.Recommendations) })
	},
}
