// Package recommend turns aggregated practice statistics into a short,
// prioritized list of what a learner should practice next.
package recommend

import (
	"sort"

	"github.com/abhisek/soundstep/internal/breakdown"
	"github.com/abhisek/soundstep/internal/longitudinal"
	"github.com/abhisek/soundstep/internal/phoneme"
)

// MaxRecommendations caps the engine's output.
const MaxRecommendations = 3

// Priority orders recommendations; 1 is the most urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Type groups recommendations by the signal that produced them.
type Type string

const (
	TypePhoneme      Type = "phoneme"
	TypeProgression  Type = "progression"
	TypeVoice        Type = "voice"
	TypeNoise        Type = "noise"
	TypePosition     Type = "position"
	TypeConsistency  Type = "consistency"
	TypeDrill        Type = "drill"
	TypeEnvironment  Type = "environment"
	TypeConversation Type = "conversation"
)

// Recommendation is one suggested next step for the learner.
type Recommendation struct {
	ID          string   `json:"id" yaml:"id"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Type        Type     `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	ActionPath  string   `json:"actionPath,omitempty" yaml:"actionPath,omitempty"`
	ActionLabel string   `json:"actionLabel,omitempty" yaml:"actionLabel,omitempty"`
	Metric      string   `json:"metric,omitempty" yaml:"metric,omitempty"`
}

// Input bundles the aggregates the rules read.
type Input struct {
	Breakdowns  breakdown.Breakdowns
	Phonemes    phoneme.MasteryData
	Consistency longitudinal.ConsistencyStats
	Journey     longitudinal.ErberJourney
}

// Rule inspects the aggregates and returns at most one recommendation.
// prior holds what earlier rules produced, in evaluation order; rules use it
// only to avoid repeating a suggestion.
type Rule func(in Input, prior []Recommendation) *Recommendation

// DefaultRules is the fixed evaluation order.
var DefaultRules = []Rule{
	WeakestPhoneme,
	ErberAdvancement,
	VoiceGap,
	NoiseReadiness,
	WeakestPosition,
	ConsistencyNudge,
	TargetedDrills,
	DetectionAwareness,
	ConversationReadiness,
}

// Engine evaluates an ordered rule list.
type Engine struct {
	Rules []Rule
}

// Recommend runs the default rules.
func Recommend(in Input) []Recommendation {
	return Engine{Rules: DefaultRules}.Recommend(in)
}

// Recommend runs every rule in order, then returns the candidates sorted by
// priority (ties keep evaluation order), capped at MaxRecommendations.
func (e Engine) Recommend(in Input) []Recommendation {
	candidates := make([]Recommendation, 0, len(e.Rules))
	for _, rule := range e.Rules {
		if rec := rule(in, candidates); rec != nil {
			candidates = append(candidates, *rec)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	if len(candidates) > MaxRecommendations {
		candidates = candidates[:MaxRecommendations]
	}
	return candidates
}

func hasID(prior []Recommendation, id string) bool {
	for _, r := range prior {
		if r.ID == id {
			return true
		}
	}
	return false
}

func hasType(prior []Recommendation, t Type) bool {
	for _, r := range prior {
		if r.Type == t {
			return true
		}
	}
	return false
}
