package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestProgressBarWidth(t *testing.T) {
	tests := []struct {
		name  string
		bar   ProgressBar
		width int
	}{
		{"half", NewAccuracyBar("", 50, 10, 20), 20},
		{"over full", NewGoalBar("", 30, 20, 10), 10},
		{"zero goal", NewGoalBar("", 3, 0, 10), 10},
		{"narrow", ProgressBar{Value: 1, Total: 2, Width: 1}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := tt.bar
			bar.Suffix = ""
			if got := lipgloss.Width(bar.View()); got != tt.width {
				t.Errorf("width = %d, want %d", got, tt.width)
			}
		})
	}
}

func TestProgressBarLabelAndSuffix(t *testing.T) {
	view := NewAccuracyBar("Minimal Pairs", 86, 22, 10).View()
	if !strings.Contains(view, "Minimal Pairs") {
		t.Errorf("label missing from %q", view)
	}
	if !strings.Contains(view, " 86%  22 trials") {
		t.Errorf("suffix missing from %q", view)
	}

	padded := ProgressBar{Label: "ab", LabelWidth: 6, Width: 4}
	if got := lipgloss.Width(padded.View()); got != 6+2+4 {
		t.Errorf("padded width = %d, want 12", got)
	}
}
