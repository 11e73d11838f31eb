package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/store"
	"github.com/abhisek/soundstep/internal/ui/theme"
)

var placementCmd = &cobra.Command{
	Use:   "placement",
	Short: "Manage the placement result used before any practice is recorded",
}

var placementSetCmd = &cobra.Command{
	Use:       "set <level>",
	Short:     "Record a placement at an Erber level",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"detection", "discrimination", "identification", "comprehension"},
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := erber.ParseLevel(args[0])
		if err != nil {
			return err
		}
		scores, _ := cmd.Flags().GetStringToInt("score")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p := plan.Placement{Level: level, Scores: scores, CreatedAt: time.Now()}
		if err := e.store.Placements().Save(cmd.Context(), e.cfg.UserID, p); err != nil {
			return err
		}
		return e.write(p, func() string {
			return theme.Good.Render("Placement saved: ") + theme.Body.Render(level.DisplayName())
		})
	},
}

var placementShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest placement",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.store.Placements().Latest(cmd.Context(), e.cfg.UserID)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No placement recorded.")
			return nil
		}
		if err != nil {
			return err
		}
		return e.write(p, func() string {
			s := theme.Title.Render(p.Level.DisplayName()) + " " +
				theme.Hint.Render(p.CreatedAt.In(e.cfg.Location).Format("2006-01-02"))
			for _, lv := range erber.Levels() {
				if score, ok := p.Scores[string(lv)]; ok {
					s += fmt.Sprintf("\n  %-16s %d", lv.DisplayName(), score)
				}
			}
			return s
		})
	},
}

func init() {
	placementSetCmd.Flags().StringToInt("score", nil, "Per-level placement score, e.g. --score detection=90")
	placementCmd.AddCommand(placementSetCmd)
	placementCmd.AddCommand(placementShowCmd)
}
