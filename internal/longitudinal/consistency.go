package longitudinal

import (
	"sort"

	"github.com/abhisek/soundstep/internal/calendar"
)

// ConsistencyStats describes how regularly a learner practices.
type ConsistencyStats struct {
	TotalActiveDays  int     `json:"totalActiveDays" yaml:"totalActiveDays"`
	CurrentStreak    int     `json:"currentStreak" yaml:"currentStreak"`
	LongestStreak    int     `json:"longestStreak" yaml:"longestStreak"`
	Last30DaysActive int     `json:"last30DaysActive" yaml:"last30DaysActive"`
	Last7Days        [7]bool `json:"last7Days" yaml:"last7Days,flow"`
}

// Consistency computes streak statistics from the set of active dates.
// The current streak counts back from today and is 0 when today is inactive.
func Consistency(active map[calendar.Date]bool, today calendar.Date) ConsistencyStats {
	stats := ConsistencyStats{TotalActiveDays: len(active)}

	for d := today; active[d]; d = d.AddDays(-1) {
		stats.CurrentStreak++
	}

	for i := 0; i < 7; i++ {
		stats.Last7Days[i] = active[today.AddDays(i-6)]
	}

	dates := make([]calendar.Date, 0, len(active))
	for d := range active {
		dates = append(dates, d)
		if age := today.DaysSince(d); age >= 0 && age < 30 {
			stats.Last30DaysActive++
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	run := 0
	for i, d := range dates {
		if i > 0 && d.DaysSince(dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	return stats
}
