// Package longitudinal computes lifetime statistics over a learner's full
// trial history: weekly and monthly accuracy, SNR progression, practice
// consistency, within-session fatigue and Erber-level mastery.
package longitudinal

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/soundstep/internal/calendar"
	"github.com/abhisek/soundstep/internal/trial"
)

// WeeklyPoint is accuracy over one ISO week, keyed by its Monday.
type WeeklyPoint struct {
	Week     string `json:"week" yaml:"week"`
	Accuracy int    `json:"accuracy" yaml:"accuracy"`
	Trials   int    `json:"trials" yaml:"trials"`
}

// MonthlyPoint is accuracy over one calendar month (yyyy-MM).
type MonthlyPoint struct {
	Month    string `json:"month" yaml:"month"`
	Accuracy int    `json:"accuracy" yaml:"accuracy"`
	Trials   int    `json:"trials" yaml:"trials"`
}

// SNRPoint is the rounded mean SNR a learner practiced at on one day.
type SNRPoint struct {
	Date string `json:"date" yaml:"date"`
	SNR  int    `json:"snr" yaml:"snr"`
}

// Data is the full output of Compute.
type Data struct {
	Weekly      []WeeklyPoint    `json:"weekly" yaml:"weekly"`
	Monthly     []MonthlyPoint   `json:"monthly" yaml:"monthly"`
	SNR         []SNRPoint       `json:"snr" yaml:"snr"`
	Consistency ConsistencyStats `json:"consistency" yaml:"consistency"`
	Fatigue     FatigueProfile   `json:"fatigue" yaml:"fatigue"`
	Journey     ErberJourney     `json:"erberJourney" yaml:"erberJourney"`
}

type snrSum struct {
	sum   int
	count int
}

// Compute aggregates a learner's lifetime history. Events may arrive in any
// order; now and loc decide which calendar day is "today".
func Compute(events []trial.Event, now time.Time, loc *time.Location) Data {
	weekly := make(map[string]*trial.Counter)
	monthly := make(map[string]*trial.Counter)
	snr := make(map[string]*snrSum)
	active := make(map[calendar.Date]bool)

	for _, e := range events {
		day := calendar.DateOf(e.CreatedAt, loc)
		correct := e.IsCorrect()

		active[day] = true
		bucket(weekly, day.WeekStart().String()).Add(correct)
		bucket(monthly, day.MonthKey()).Add(correct)

		if e.Tags.SNR != nil {
			key := day.String()
			s, ok := snr[key]
			if !ok {
				s = &snrSum{}
				snr[key] = s
			}
			s.sum += *e.Tags.SNR
			s.count++
		}
	}

	data := Data{
		Weekly:      make([]WeeklyPoint, 0, len(weekly)),
		Monthly:     make([]MonthlyPoint, 0, len(monthly)),
		SNR:         make([]SNRPoint, 0, len(snr)),
		Consistency: Consistency(active, calendar.DateOf(now, loc)),
		Fatigue:     Fatigue(events),
		Journey:     Journey(events),
	}

	for week, c := range weekly {
		data.Weekly = append(data.Weekly, WeeklyPoint{Week: week, Accuracy: c.Accuracy(), Trials: c.Trials})
	}
	sort.Slice(data.Weekly, func(i, j int) bool { return data.Weekly[i].Week < data.Weekly[j].Week })

	for month, c := range monthly {
		data.Monthly = append(data.Monthly, MonthlyPoint{Month: month, Accuracy: c.Accuracy(), Trials: c.Trials})
	}
	sort.Slice(data.Monthly, func(i, j int) bool { return data.Monthly[i].Month < data.Monthly[j].Month })

	for day, s := range snr {
		data.SNR = append(data.SNR, SNRPoint{
			Date: day,
			SNR:  int(math.Round(float64(s.sum) / float64(s.count))),
		})
	}
	sort.Slice(data.SNR, func(i, j int) bool { return data.SNR[i].Date < data.SNR[j].Date })

	return data
}

func bucket(m map[string]*trial.Counter, key string) *trial.Counter {
	c, ok := m[key]
	if !ok {
		c = &trial.Counter{}
		m[key] = c
	}
	return c
}

// DailyProgress summarizes today's and yesterday's practice.
type DailyProgress struct {
	TodayTrials       int  `json:"todayTrials" yaml:"todayTrials"`
	YesterdayTrials   int  `json:"yesterdayTrials" yaml:"yesterdayTrials"`
	YesterdayAccuracy *int `json:"yesterdayAccuracy,omitempty" yaml:"yesterdayAccuracy,omitempty"`
}

// Progress counts today's trials and yesterday's accuracy. Yesterday's
// accuracy is nil when the learner did not practice yesterday.
func Progress(events []trial.Event, now time.Time, loc *time.Location) DailyProgress {
	today := calendar.DateOf(now, loc)
	yesterday := today.AddDays(-1)

	var p DailyProgress
	var y trial.Counter
	for _, e := range events {
		switch calendar.DateOf(e.CreatedAt, loc) {
		case today:
			p.TodayTrials++
		case yesterday:
			y.Add(e.IsCorrect())
		}
	}
	p.YesterdayTrials = y.Trials
	if y.Trials > 0 {
		acc := y.Accuracy()
		p.YesterdayAccuracy = &acc
	}
	return p
}
