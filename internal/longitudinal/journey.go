package longitudinal

import (
	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/trial"
)

const (
	// MasteryMinTrials is the trial count a level or pair needs before it can be mastered.
	MasteryMinTrials = 20
	// MasteryMinAccuracy is the accuracy percentage required for mastery.
	MasteryMinAccuracy = 80
)

// ErberLevelStats is a learner's record at one Erber level.
type ErberLevelStats struct {
	Trials   int  `json:"trials" yaml:"trials"`
	Correct  int  `json:"correct" yaml:"correct"`
	Accuracy int  `json:"accuracy" yaml:"accuracy"`
	Mastered bool `json:"mastered" yaml:"mastered"`
}

// ErberJourney holds per-level stats for the four Erber levels.
type ErberJourney struct {
	Detection      ErberLevelStats `json:"detection" yaml:"detection"`
	Discrimination ErberLevelStats `json:"discrimination" yaml:"discrimination"`
	Identification ErberLevelStats `json:"identification" yaml:"identification"`
	Comprehension  ErberLevelStats `json:"comprehension" yaml:"comprehension"`
}

// Level returns the stats for one level.
func (j ErberJourney) Level(l erber.Level) ErberLevelStats {
	if p := j.slot(l); p != nil {
		return *p
	}
	return ErberLevelStats{}
}

// HasData reports whether any level has recorded trials.
func (j ErberJourney) HasData() bool {
	for _, l := range erber.Levels() {
		if j.Level(l).Trials > 0 {
			return true
		}
	}
	return false
}

func (j *ErberJourney) slot(l erber.Level) *ErberLevelStats {
	switch l {
	case erber.LevelDetection:
		return &j.Detection
	case erber.LevelDiscrimination:
		return &j.Discrimination
	case erber.LevelIdentification:
		return &j.Identification
	case erber.LevelComprehension:
		return &j.Comprehension
	}
	return nil
}

// IsMastered applies the fixed mastery threshold.
func IsMastered(trials, accuracy int) bool {
	return trials >= MasteryMinTrials && accuracy >= MasteryMinAccuracy
}

// Journey maps each trial to its Erber level through its activity type.
// Trials with an unmapped or missing activity type count toward no level.
func Journey(events []trial.Event) ErberJourney {
	var j ErberJourney
	for _, e := range events {
		level, ok := erber.LevelFor(e.Tags.ActivityType)
		if !ok {
			continue
		}
		s := j.slot(level)
		s.Trials++
		if e.IsCorrect() {
			s.Correct++
		}
	}
	for _, l := range erber.Levels() {
		s := j.slot(l)
		s.Accuracy = trial.Accuracy(s.Correct, s.Trials)
		s.Mastered = IsMastered(s.Trials, s.Accuracy)
	}
	return j
}
