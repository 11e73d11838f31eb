package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/soundstep/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value out of a total.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Value      int
	Total      int
	Suffix     string
	Width      int
}

// NewAccuracyBar creates a bar for an accuracy percentage over some trials.
func NewAccuracyBar(label string, accuracy, trials, width int) ProgressBar {
	return ProgressBar{
		Label:  label,
		Value:  accuracy,
		Total:  100,
		Suffix: fmt.Sprintf("%3d%%  %d trials", accuracy, trials),
		Width:  width,
	}
}

// NewGoalBar creates a bar for progress toward a daily trial goal.
func NewGoalBar(label string, done, goal, width int) ProgressBar {
	return ProgressBar{
		Label:  label,
		Value:  done,
		Total:  goal,
		Suffix: fmt.Sprintf("%d/%d", done, goal),
		Width:  width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += theme.Body.Render(label) + "  "
	}

	barWidth := p.Width
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Value / p.Total
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.Suffix != "" {
		result += "  " + theme.Label.Render(p.Suffix)
	}

	return result
}
