// Package breakdown computes short-window performance breakdowns of a
// learner's trials by activity, voice, phoneme position, noise condition,
// replay count and response time.
package breakdown

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/soundstep/internal/calendar"
	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/trial"
)

// DefaultWindowDays is the trailing window the breakdowns cover.
const DefaultWindowDays = 30

// ActivityBreakdown summarizes trials of one activity type.
type ActivityBreakdown struct {
	ActivityType string `json:"activityType" yaml:"activityType"`
	Label        string `json:"label" yaml:"label"`
	Trials       int    `json:"trials" yaml:"trials"`
	Correct      int    `json:"correct" yaml:"correct"`
	Accuracy     int    `json:"accuracy" yaml:"accuracy"`
}

// VoiceBreakdown summarizes trials spoken by one voice gender.
type VoiceBreakdown struct {
	VoiceGender trial.VoiceGender `json:"voiceGender" yaml:"voiceGender"`
	Trials      int               `json:"trials" yaml:"trials"`
	Accuracy    int               `json:"accuracy" yaml:"accuracy"`
}

// PositionBreakdown summarizes trials by where the target phoneme sits.
type PositionBreakdown struct {
	Position trial.Position `json:"position" yaml:"position"`
	Trials   int            `json:"trials" yaml:"trials"`
	Accuracy int            `json:"accuracy" yaml:"accuracy"`
}

// Bucket is a trial count with its accuracy.
type Bucket struct {
	Trials   int `json:"trials" yaml:"trials"`
	Accuracy int `json:"accuracy" yaml:"accuracy"`
}

// NoiseComparison contrasts trials in quiet with trials in background noise.
type NoiseComparison struct {
	Quiet Bucket `json:"quiet" yaml:"quiet"`
	Noise Bucket `json:"noise" yaml:"noise"`
}

// ReplayStats relates how often a learner replayed audio to accuracy.
type ReplayStats struct {
	AvgReplays          float64 `json:"avgReplays" yaml:"avgReplays"`
	ZeroReplayTrials    int     `json:"zeroReplayTrials" yaml:"zeroReplayTrials"`
	ZeroReplayAccuracy  int     `json:"zeroReplayAccuracy" yaml:"zeroReplayAccuracy"`
	MultiReplayTrials   int     `json:"multiReplayTrials" yaml:"multiReplayTrials"`
	MultiReplayAccuracy int     `json:"multiReplayAccuracy" yaml:"multiReplayAccuracy"`
}

// ResponseTimeTrendPoint is the mean response time for one calendar day.
type ResponseTimeTrendPoint struct {
	Date  string `json:"date" yaml:"date"`
	AvgMs int    `json:"avgMs" yaml:"avgMs"`
}

// Breakdowns is the full output of Compute.
type Breakdowns struct {
	Activity     []ActivityBreakdown      `json:"activity" yaml:"activity"`
	Voice        []VoiceBreakdown         `json:"voice" yaml:"voice"`
	Position     []PositionBreakdown      `json:"position" yaml:"position"`
	Noise        NoiseComparison          `json:"noise" yaml:"noise"`
	Replay       *ReplayStats             `json:"replay,omitempty" yaml:"replay,omitempty"`
	ResponseTime []ResponseTimeTrendPoint `json:"responseTime" yaml:"responseTime"`
}

// VoiceFor returns the breakdown for one gender. Both genders are always present.
func (b Breakdowns) VoiceFor(g trial.VoiceGender) VoiceBreakdown {
	for _, v := range b.Voice {
		if v.VoiceGender == g {
			return v
		}
	}
	return VoiceBreakdown{VoiceGender: g}
}

// ActivityFor returns the breakdown for an activity type, if it has trials.
func (b Breakdowns) ActivityFor(activityType string) (ActivityBreakdown, bool) {
	for _, a := range b.Activity {
		if a.ActivityType == activityType {
			return a, true
		}
	}
	return ActivityBreakdown{}, false
}

// WindowStart returns the first instant of a trailing window of days ending
// today (today counts as the window's last day).
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	if days <= 0 {
		days = DefaultWindowDays
	}
	today := calendar.DateOf(now, loc)
	return today.AddDays(-(days - 1)).StartOf(loc)
}

type timing struct {
	sum   int
	count int
}

// Compute aggregates trials in a single pass. Trials contribute only to the
// breakdowns whose tag they carry; input order does not matter.
func Compute(events []trial.Event, loc *time.Location) Breakdowns {
	activity := make(map[string]*trial.Counter)
	voice := map[trial.VoiceGender]*trial.Counter{
		trial.VoiceFemale: {},
		trial.VoiceMale:   {},
	}
	position := make(map[trial.Position]*trial.Counter)
	var quiet, noise trial.Counter
	var zeroReplay, multiReplay trial.Counter
	replaySum := 0
	responseByDay := make(map[string]*timing)

	for _, e := range events {
		correct := e.IsCorrect()
		tags := e.Tags

		if tags.ActivityType != "" {
			counterFor(activity, tags.ActivityType).Add(correct)
		}
		if c, ok := voice[tags.VoiceGender]; ok {
			c.Add(correct)
		}
		if tags.Position != "" {
			counterFor(position, tags.Position).Add(correct)
		}
		if tags.NoiseEnabled != nil {
			if *tags.NoiseEnabled {
				noise.Add(correct)
			} else {
				quiet.Add(correct)
			}
		}
		if tags.ReplayCount != nil && *tags.ReplayCount >= 0 {
			replaySum += *tags.ReplayCount
			if *tags.ReplayCount == 0 {
				zeroReplay.Add(correct)
			} else {
				multiReplay.Add(correct)
			}
		}
		if e.ResponseTimeMs != nil && *e.ResponseTimeMs > 0 {
			day := calendar.DateOf(e.CreatedAt, loc).String()
			tm, ok := responseByDay[day]
			if !ok {
				tm = &timing{}
				responseByDay[day] = tm
			}
			tm.sum += *e.ResponseTimeMs
			tm.count++
		}
	}

	out := Breakdowns{
		Activity:     make([]ActivityBreakdown, 0, len(activity)),
		Position:     make([]PositionBreakdown, 0, len(position)),
		ResponseTime: make([]ResponseTimeTrendPoint, 0, len(responseByDay)),
		Noise: NoiseComparison{
			Quiet: Bucket{Trials: quiet.Trials, Accuracy: quiet.Accuracy()},
			Noise: Bucket{Trials: noise.Trials, Accuracy: noise.Accuracy()},
		},
	}

	for typ, c := range activity {
		out.Activity = append(out.Activity, ActivityBreakdown{
			ActivityType: typ,
			Label:        erber.ActivityLabel(typ),
			Trials:       c.Trials,
			Correct:      c.Correct,
			Accuracy:     c.Accuracy(),
		})
	}
	sort.Slice(out.Activity, func(i, j int) bool {
		if out.Activity[i].Trials != out.Activity[j].Trials {
			return out.Activity[i].Trials > out.Activity[j].Trials
		}
		return out.Activity[i].ActivityType < out.Activity[j].ActivityType
	})

	for _, g := range []trial.VoiceGender{trial.VoiceFemale, trial.VoiceMale} {
		c := voice[g]
		out.Voice = append(out.Voice, VoiceBreakdown{VoiceGender: g, Trials: c.Trials, Accuracy: c.Accuracy()})
	}

	for p, c := range position {
		out.Position = append(out.Position, PositionBreakdown{Position: p, Trials: c.Trials, Accuracy: c.Accuracy()})
	}
	sort.Slice(out.Position, func(i, j int) bool {
		return out.Position[i].Position < out.Position[j].Position
	})

	if replayed := zeroReplay.Trials + multiReplay.Trials; replayed > 0 {
		out.Replay = &ReplayStats{
			AvgReplays:          math.Round(100*float64(replaySum)/float64(replayed)) / 100,
			ZeroReplayTrials:    zeroReplay.Trials,
			ZeroReplayAccuracy:  zeroReplay.Accuracy(),
			MultiReplayTrials:   multiReplay.Trials,
			MultiReplayAccuracy: multiReplay.Accuracy(),
		}
	}

	for day, tm := range responseByDay {
		out.ResponseTime = append(out.ResponseTime, ResponseTimeTrendPoint{
			Date:  day,
			AvgMs: int(math.Round(float64(tm.sum) / float64(tm.count))),
		})
	}
	sort.Slice(out.ResponseTime, func(i, j int) bool {
		return out.ResponseTime[i].Date < out.ResponseTime[j].Date
	})

	return out
}

func counterFor[K comparable](m map[K]*trial.Counter, k K) *trial.Counter {
	c, ok := m[k]
	if !ok {
		c = &trial.Counter{}
		m[k] = c
	}
	return c
}
