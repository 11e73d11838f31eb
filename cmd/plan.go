package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/report"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show today's practice plan",
	Long: "Plan shows two activities for today: one at the working Erber level " +
		"and one stretch activity. The plan is kept until the day changes or " +
		"both steps are done.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rebuild, _ := cmd.Flags().GetBool("rebuild")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if rebuild {
			if err := e.store.KV().Delete(ctx, plan.CacheKey(e.cfg.UserID)); err != nil {
				return fmt.Errorf("clear plan: %w", err)
			}
		}

		r := e.service().Report(ctx, e.cfg.UserID)
		p, err := e.planner().Today(ctx, r.PlanInput())
		if err != nil {
			return fmt.Errorf("today's plan: %w", err)
		}
		return e.write(p, func() string { return report.Plan(p) })
	},
}

var planNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Mark the current plan step as done",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.planner().Tracker.Advance(cmd.Context(), e.cfg.UserID)
		if errors.Is(err, plan.ErrNoPlan) {
			return fmt.Errorf("no plan for today; run \"soundstep plan\" first")
		}
		if err != nil {
			return fmt.Errorf("advance plan: %w", err)
		}
		return e.write(res, func() string { return report.Advance(res) })
	},
}

func init() {
	planCmd.Flags().Bool("rebuild", false, "Discard today's stored plan and build a new one")
	planCmd.AddCommand(planNextCmd)
}
