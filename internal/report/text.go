package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/soundstep/internal/analytics"
	"github.com/abhisek/soundstep/internal/breakdown"
	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/phoneme"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/recommend"
	"github.com/abhisek/soundstep/internal/trial"
	"github.com/abhisek/soundstep/internal/ui/components"
	"github.com/abhisek/soundstep/internal/ui/theme"
)

const (
	barWidth   = 24
	labelWidth = 22
	trendLimit = 6
)

func bar(label string, accuracy, trials int) string {
	b := components.NewAccuracyBar(label, accuracy, trials, barWidth)
	b.LabelWidth = labelWidth
	return "  " + b.View()
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(theme.Section.Render(title))
	sb.WriteString("\n")
}

func line(sb *strings.Builder, s string) {
	sb.WriteString(s)
	sb.WriteString("\n")
}

// Stats renders the breakdown and longitudinal sections of a report.
func Stats(r *analytics.Report) string {
	var sb strings.Builder
	line(&sb, theme.Title.Render("Practice summary: "+r.UserID))
	line(&sb, theme.Hint.Render(fmt.Sprintf("Breakdowns cover the last %d days", r.WindowDays)))
	if r.Degraded {
		line(&sb, theme.Poor.Render("Practice history is unavailable right now; showing empty results."))
	}

	b := r.Breakdowns
	section(&sb, "Activities")
	if len(b.Activity) == 0 {
		line(&sb, "  "+theme.Hint.Render("No trials yet"))
	}
	for _, a := range b.Activity {
		line(&sb, bar(a.Label, a.Accuracy, a.Trials))
	}

	section(&sb, "Voices")
	for _, v := range b.Voice {
		line(&sb, bar(titleCase(string(v.VoiceGender)), v.Accuracy, v.Trials))
	}

	if len(b.Position) > 0 {
		section(&sb, "Sound position")
		for _, p := range b.Position {
			line(&sb, bar(titleCase(string(p.Position)), p.Accuracy, p.Trials))
		}
	}

	section(&sb, "Background noise")
	line(&sb, bar("Quiet", b.Noise.Quiet.Accuracy, b.Noise.Quiet.Trials))
	line(&sb, bar("Noise", b.Noise.Noise.Accuracy, b.Noise.Noise.Trials))

	if b.Replay != nil {
		writeReplay(&sb, b.Replay)
	}
	if len(b.ResponseTime) > 0 {
		section(&sb, "Response time")
		for _, p := range tail(b.ResponseTime, trendLimit) {
			line(&sb, fmt.Sprintf("  %s  %s", theme.Label.Render(p.Date), theme.Body.Render(fmt.Sprintf("%d ms", p.AvgMs))))
		}
	}

	l := r.Longitudinal
	section(&sb, "Consistency")
	c := l.Consistency
	line(&sb, fmt.Sprintf("  Current streak %s   Longest %s   Active %s of the last 30 days",
		theme.Good.Render(fmt.Sprintf("%d", c.CurrentStreak)),
		theme.Body.Render(fmt.Sprintf("%d", c.LongestStreak)),
		theme.Body.Render(fmt.Sprintf("%d", c.Last30DaysActive))))
	line(&sb, "  "+theme.Label.Render("Last 7 days ")+week(c.Last7Days))

	section(&sb, "Erber journey")
	for _, lv := range erber.Levels() {
		st := l.Journey.Level(lv)
		label := lv.DisplayName()
		if st.Mastered {
			label += " ✓"
		}
		line(&sb, bar(label, st.Accuracy, st.Trials))
	}

	if len(l.Weekly) > 0 {
		section(&sb, "Weekly accuracy")
		for _, w := range tail(l.Weekly, trendLimit) {
			line(&sb, bar("Week of "+w.Week, w.Accuracy, w.Trials))
		}
	}
	if len(l.SNR) > 0 {
		last := l.SNR[len(l.SNR)-1]
		line(&sb, "  "+theme.Label.Render("Latest SNR ")+theme.Body.Render(fmt.Sprintf("%+d dB on %s", last.SNR, last.Date)))
	}

	f := l.Fatigue
	if f.ShowsFatigue {
		line(&sb, "")
		line(&sb, theme.Fair.Render(fmt.Sprintf(
			"Accuracy drops late in sessions (%d%% early, %d%% late). Shorter sessions may help.",
			f.EarlyAccuracy, f.LateAccuracy)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func writeReplay(sb *strings.Builder, rs *breakdown.ReplayStats) {
	section(sb, "Replays")
	line(sb, fmt.Sprintf("  %s %s", theme.Label.Render("Average replays"), theme.Body.Render(fmt.Sprintf("%.2f", rs.AvgReplays))))
	line(sb, bar("First listen", rs.ZeroReplayAccuracy, rs.ZeroReplayTrials))
	line(sb, bar("After replay", rs.MultiReplayAccuracy, rs.MultiReplayTrials))
}

func week(days [7]bool) string {
	var sb strings.Builder
	for _, active := range days {
		if active {
			sb.WriteString(theme.Good.Render("●"))
		} else {
			sb.WriteString(theme.Label.Render("○"))
		}
	}
	return sb.String()
}

// Phonemes renders the phoneme confusion model.
func Phonemes(m phoneme.MasteryData) string {
	var sb strings.Builder
	line(&sb, theme.Title.Render("Sound pairs"))
	if len(m.Pairs) == 0 {
		line(&sb, theme.Hint.Render("No minimal pair or drill trials yet"))
		return strings.TrimRight(sb.String(), "\n")
	}
	line(&sb, theme.Hint.Render(fmt.Sprintf("%d pairs, %d mastered, %d need work",
		len(m.Pairs), len(m.MasteredPairs), len(m.StrugglingPairs))))

	section(&sb, "All pairs")
	for _, p := range m.Pairs {
		label := p.Label()
		switch {
		case p.Mastered():
			label += " ✓"
		case p.Struggling():
			label += " !"
		}
		line(&sb, bar(label, p.Accuracy, p.Trials))
		if p.ConfusedAsContrast > 0 {
			line(&sb, "    "+theme.Label.Render(fmt.Sprintf("heard %s for %s: %d", p.Contrast, p.Target, p.ConfusedAsContrast)))
		}
		if p.ConfusedAsTarget > 0 {
			line(&sb, "    "+theme.Label.Render(fmt.Sprintf("heard %s for %s: %d", p.Target, p.Contrast, p.ConfusedAsTarget)))
		}
	}

	for _, pos := range []trial.Position{trial.PositionInitial, trial.PositionMedial, trial.PositionFinal, trial.PositionUnknown} {
		pairs := m.ByPosition[pos]
		if len(pairs) == 0 {
			continue
		}
		section(&sb, titleCase(string(pos))+" position")
		for _, p := range pairs {
			line(&sb, bar(p.Label(), p.Accuracy, p.Trials))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Recommendations renders the recommendation list.
func Recommendations(recs []recommend.Recommendation) string {
	var sb strings.Builder
	line(&sb, theme.Title.Render("What to practice next"))
	if len(recs) == 0 {
		line(&sb, theme.Hint.Render("Nothing stands out. Keep up the good work!"))
		return strings.TrimRight(sb.String(), "\n")
	}
	for i, r := range recs {
		var card strings.Builder
		line(&card, theme.Priority(int(r.Priority)).Render(fmt.Sprintf("P%d", r.Priority))+" "+theme.Body.Bold(true).Render(r.Title))
		line(&card, theme.Body.Render(r.Description))
		if r.Metric != "" {
			line(&card, theme.Label.Render(r.Metric))
		}
		if r.ActionLabel != "" {
			card.WriteString(theme.Good.Render("→ "+r.ActionLabel) + " " + theme.Hint.Render(r.ActionPath))
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		line(&sb, theme.Card.Render(strings.TrimRight(card.String(), "\n")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Plan renders today's plan card.
func Plan(p plan.TodaysPlan) string {
	var sb strings.Builder
	line(&sb, theme.Title.Render("Today's plan"))

	goal := components.NewGoalBar("Daily goal", p.TodayTrials, p.DailyGoal, barWidth)
	goal.LabelWidth = 12
	line(&sb, goal.View())
	status := fmt.Sprintf("Streak %d days", p.StreakDays)
	if p.YesterdayAccuracy != nil {
		status += fmt.Sprintf("   Yesterday %d%%", *p.YesterdayAccuracy)
	}
	if p.DailyGoalMet {
		status += "   " + theme.Good.Render("Goal met!")
	}
	line(&sb, theme.Label.Render(status))

	for i, s := range p.Steps {
		style := theme.Card
		marker := fmt.Sprintf("Step %d of %d", i+1, len(p.Steps))
		if i == p.CurrentStep {
			style = theme.Current
			marker += "  (up next)"
		} else if i < p.CurrentStep {
			marker += "  (done)"
		}
		body := theme.Label.Render(marker) + "\n" +
			theme.Body.Bold(true).Render(s.Label) + " " + theme.Hint.Render(s.Level.DisplayName()) + "\n" +
			theme.Body.Render(s.Description) + "\n" +
			theme.Hint.Render(s.Path)
		line(&sb, style.Render(body))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Advance renders the result of finishing a plan step.
func Advance(res plan.AdvanceResult) string {
	if res.Done {
		return theme.Good.Render("Plan complete for today!") + " " + theme.Hint.Render("Back to "+res.Route)
	}
	return theme.Body.Render("Next up: ") + theme.Good.Render(res.Step.Label) + " " + theme.Hint.Render(res.Route)
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
