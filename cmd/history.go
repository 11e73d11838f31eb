package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/store"
	"github.com/abhisek/soundstep/internal/trial"
)

type historyRow struct {
	ID             string    `json:"id" yaml:"id"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	Activity       string    `json:"activity" yaml:"activity"`
	Result         string    `json:"result" yaml:"result"`
	Target         string    `json:"target,omitempty" yaml:"target,omitempty"`
	Contrast       string    `json:"contrast,omitempty" yaml:"contrast,omitempty"`
	ResponseTimeMs *int      `json:"responseTimeMs,omitempty" yaml:"responseTimeMs,omitempty"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded trials",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		days, _ := cmd.Flags().GetInt("days")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := store.QueryOpts{Limit: limit}
		if days > 0 {
			opts.From = time.Now().AddDate(0, 0, -days)
		}
		events, err := e.store.Trials().Query(cmd.Context(), e.cfg.UserID, opts)
		if err != nil {
			return fmt.Errorf("query trials: %w", err)
		}

		rows := make([]historyRow, len(events))
		for i, ev := range events {
			rows[i] = rowFor(ev)
		}
		return e.write(rows, func() string { return historyTable(rows, e.cfg.Location) })
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum number of trials to show (0 = all)")
	historyCmd.Flags().Int("days", 0, "Only show trials from the last N days")
}

func rowFor(ev trial.Event) historyRow {
	return historyRow{
		ID:             ev.ID,
		CreatedAt:      ev.CreatedAt,
		Activity:       ev.Tags.ActivityType,
		Result:         string(ev.Result),
		Target:         ev.Tags.TargetPhoneme,
		Contrast:       ev.Tags.ContrastPhoneme,
		ResponseTimeMs: ev.ResponseTimeMs,
	}
}

func historyTable(rows []historyRow, loc *time.Location) string {
	if len(rows) == 0 {
		return "No trials found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s  %-24s  %-10s  %-12s  %s\n", "Time", "Activity", "Result", "Pair", "Ms")
	sb.WriteString(strings.Repeat("\u2500", 76))
	for _, r := range rows {
		pair := ""
		if r.Target != "" && r.Contrast != "" {
			pair = r.Target + " " + r.Contrast
		}
		ms := "-"
		if r.ResponseTimeMs != nil {
			ms = fmt.Sprintf("%d", *r.ResponseTimeMs)
		}
		fmt.Fprintf(&sb, "\n%-16s  %-24s  %-10s  %-12s  %s",
			r.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			erber.ActivityLabel(r.Activity),
			r.Result,
			pair,
			ms,
		)
	}
	return sb.String()
}
