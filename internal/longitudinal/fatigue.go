package longitudinal

import "github.com/abhisek/soundstep/internal/trial"

const (
	earlyTrialMax = 2
	midTrialMax   = 5

	// fatigueMinLateTrials is the late-bucket size needed before a drop counts.
	fatigueMinLateTrials = 10
	// fatigueDropPoints is the early-minus-late accuracy gap that flags fatigue.
	fatigueDropPoints = 10
)

// FatigueProfile compares accuracy early, midway and late in sessions.
type FatigueProfile struct {
	EarlyTrials   int  `json:"earlyTrials" yaml:"earlyTrials"`
	EarlyAccuracy int  `json:"earlyAccuracy" yaml:"earlyAccuracy"`
	MidTrials     int  `json:"midTrials" yaml:"midTrials"`
	MidAccuracy   int  `json:"midAccuracy" yaml:"midAccuracy"`
	LateTrials    int  `json:"lateTrials" yaml:"lateTrials"`
	LateAccuracy  int  `json:"lateAccuracy" yaml:"lateAccuracy"`
	ShowsFatigue  bool `json:"showsFatigue" yaml:"showsFatigue"`
}

// Fatigue buckets trials by their position within a session. Trial numbers
// from different sessions share buckets; session boundaries are not tracked.
func Fatigue(events []trial.Event) FatigueProfile {
	var early, mid, late trial.Counter
	for _, e := range events {
		n := e.Tags.TrialNumber
		if n == nil {
			continue
		}
		switch {
		case *n <= earlyTrialMax:
			early.Add(e.IsCorrect())
		case *n <= midTrialMax:
			mid.Add(e.IsCorrect())
		default:
			late.Add(e.IsCorrect())
		}
	}

	p := FatigueProfile{
		EarlyTrials:   early.Trials,
		EarlyAccuracy: early.Accuracy(),
		MidTrials:     mid.Trials,
		MidAccuracy:   mid.Accuracy(),
		LateTrials:    late.Trials,
		LateAccuracy:  late.Accuracy(),
	}
	p.ShowsFatigue = late.Trials >= fatigueMinLateTrials &&
		p.EarlyAccuracy-p.LateAccuracy > fatigueDropPoints
	return p
}
