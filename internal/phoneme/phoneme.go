// Package phoneme builds a confusion model over phoneme-contrast trials.
//
// Trials tagged (target=/b/, contrast=/p/) and (target=/p/, contrast=/b/)
// accumulate into the same pair. Within a pair, Target always holds the
// lexicographically smaller phoneme; this is a storage convention and says
// nothing about which phoneme was the clinical target of a given trial.
package phoneme

import (
	"sort"
	"strings"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/trial"
)

const (
	masteredMinAccuracy   = 80
	masteredMinTrials     = 20
	strugglingMaxAccuracy = 60 // exclusive
	strugglingMinTrials   = 10
)

// PairStats accumulates outcomes for one canonical phoneme pair.
type PairStats struct {
	Key                string `json:"key" yaml:"key"`
	Target             string `json:"target" yaml:"target"`
	Contrast           string `json:"contrast" yaml:"contrast"`
	Trials             int    `json:"trials" yaml:"trials"`
	Correct            int    `json:"correct" yaml:"correct"`
	Accuracy           int    `json:"accuracy" yaml:"accuracy"`
	ConfusedAsTarget   int    `json:"confusedAsTarget" yaml:"confusedAsTarget"`
	ConfusedAsContrast int    `json:"confusedAsContrast" yaml:"confusedAsContrast"`
}

// Mastered reports whether the pair meets the mastery threshold.
func (p PairStats) Mastered() bool {
	return p.Accuracy >= masteredMinAccuracy && p.Trials >= masteredMinTrials
}

// Struggling reports whether the pair has enough trials at low accuracy.
func (p PairStats) Struggling() bool {
	return p.Accuracy < strugglingMaxAccuracy && p.Trials >= strugglingMinTrials
}

// Label renders the pair for display, e.g. "/b/ vs /p/".
func (p PairStats) Label() string {
	return p.Target + " vs " + p.Contrast
}

// MasteryData is the full output of Analyze.
type MasteryData struct {
	Pairs           []PairStats                    `json:"pairs" yaml:"pairs"`
	MasteredPairs   []PairStats                    `json:"masteredPairs" yaml:"masteredPairs"`
	StrugglingPairs []PairStats                    `json:"strugglingPairs" yaml:"strugglingPairs"`
	ByPosition      map[trial.Position][]PairStats `json:"byPosition" yaml:"byPosition"`
	UniquePhonemes  []string                       `json:"uniquePhonemes" yaml:"uniquePhonemes"`
}

// WeakestStruggling returns the struggling pair with the lowest accuracy,
// breaking ties by more trials and then by key.
func (m MasteryData) WeakestStruggling() (PairStats, bool) {
	if len(m.StrugglingPairs) == 0 {
		return PairStats{}, false
	}
	weakest := m.StrugglingPairs[0]
	for _, p := range m.StrugglingPairs[1:] {
		switch {
		case p.Accuracy < weakest.Accuracy:
			weakest = p
		case p.Accuracy == weakest.Accuracy && p.Trials > weakest.Trials:
			weakest = p
		case p.Accuracy == weakest.Accuracy && p.Trials == weakest.Trials && p.Key < weakest.Key:
			weakest = p
		}
	}
	return weakest, true
}

// CanonicalPair orders two phonemes lexicographically and returns the pair
// key along with the ordered phonemes.
func CanonicalPair(a, b string) (key, first, second string) {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b, a, b
}

// accumulator collects pair stats for one scope (overall or one position).
type accumulator map[string]*PairStats

func (acc accumulator) add(e trial.Event, target, contrast string) {
	key, first, second := CanonicalPair(target, contrast)
	p, ok := acc[key]
	if !ok {
		p = &PairStats{Key: key, Target: first, Contrast: second}
		acc[key] = p
	}
	p.Trials++
	if e.IsCorrect() {
		p.Correct++
	}
	if e.Result != trial.ResultIncorrect || !hasMismatchedResponse(e) {
		return
	}
	// The record only says the answer was wrong, not what was heard: when
	// the intended phoneme is the canonical first, the learner is presumed
	// to have perceived the contrast.
	if target == first {
		p.ConfusedAsContrast++
	} else {
		p.ConfusedAsTarget++
	}
}

func hasMismatchedResponse(e trial.Event) bool {
	if e.UserResponse == nil {
		return false
	}
	return e.CorrectResponse == nil || *e.UserResponse != *e.CorrectResponse
}

func (acc accumulator) sorted() []PairStats {
	out := make([]PairStats, 0, len(acc))
	for _, p := range acc {
		p.Accuracy = trial.Accuracy(p.Correct, p.Trials)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trials != out[j].Trials {
			return out[i].Trials > out[j].Trials
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Analyze builds the confusion model from phoneme-contrast trials. Other
// trials and trials missing either phoneme are ignored.
func Analyze(events []trial.Event) MasteryData {
	overall := make(accumulator)
	byPosition := make(map[trial.Position]accumulator)
	phonemes := make(map[string]bool)

	for _, e := range events {
		if !erber.IsPhonemeContrast(e.Tags.ActivityType) {
			continue
		}
		target := strings.TrimSpace(e.Tags.TargetPhoneme)
		contrast := strings.TrimSpace(e.Tags.ContrastPhoneme)
		if target == "" || contrast == "" {
			continue
		}

		overall.add(e, target, contrast)
		phonemes[target] = true
		phonemes[contrast] = true

		if pos := e.Tags.Position; pos != "" {
			acc, ok := byPosition[pos]
			if !ok {
				acc = make(accumulator)
				byPosition[pos] = acc
			}
			acc.add(e, target, contrast)
		}
	}

	data := MasteryData{
		Pairs:           overall.sorted(),
		MasteredPairs:   []PairStats{},
		StrugglingPairs: []PairStats{},
		ByPosition:      make(map[trial.Position][]PairStats, len(byPosition)),
		UniquePhonemes:  make([]string, 0, len(phonemes)),
	}
	for _, p := range data.Pairs {
		if p.Mastered() {
			data.MasteredPairs = append(data.MasteredPairs, p)
		}
		if p.Struggling() {
			data.StrugglingPairs = append(data.StrugglingPairs, p)
		}
	}
	for pos, acc := range byPosition {
		data.ByPosition[pos] = acc.sorted()
	}
	for ph := range phonemes {
		data.UniquePhonemes = append(data.UniquePhonemes, ph)
	}
	sort.Strings(data.UniquePhonemes)

	return data
}
