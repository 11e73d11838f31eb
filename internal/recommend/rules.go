package recommend

import (
	"fmt"

	"github.com/abhisek/soundstep/internal/breakdown"
	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/trial"
)

// Stable recommendation IDs.
const (
	IDPhonemeWeakest         = "phoneme-weakest"
	IDErberAdvance           = "erber-advance"
	IDVoiceGap               = "voice-gap"
	IDNoiseTry               = "noise-try"
	IDNoisePractice          = "noise-practice"
	IDPositionWeakest        = "position-weakest"
	IDConsistency            = "consistency-nudge"
	IDDrillPack              = "drill-pack"
	IDEnvironmentalAwareness = "environmental-awareness"
	IDConversationReady      = "conversation-ready"
)

const (
	voiceMinTrials        = 10
	voiceGapPoints        = 15
	quietReadyAccuracy    = 85
	quietReadyTrials      = 20
	noiseTryMaxTrials     = 5
	noiseTargetAccuracy   = 70
	positionMaxAccuracy   = 65
	positionMinTrials     = 10
	nudgeMaxActiveDays    = 20
	drillMinPairs         = 2
	detectionMinTrials    = 20
	sentenceReadyAccuracy = 80
	sentenceReadyTrials   = 20
	conversationMaxTrials = 10
)

// HubPath is the neutral practice hub.
const HubPath = "/practice"

func activityPath(id string) string {
	a, _ := erber.GetActivity(id)
	return a.Path
}

func trialMetric(accuracy, trials int) string {
	return fmt.Sprintf("%d%% over %d trials", accuracy, trials)
}

// WeakestPhoneme targets the struggling phoneme pair with the lowest accuracy.
func WeakestPhoneme(in Input, _ []Recommendation) *Recommendation {
	pair, ok := in.Phonemes.WeakestStruggling()
	if !ok {
		return nil
	}
	return &Recommendation{
		ID:          IDPhonemeWeakest,
		Priority:    PriorityHigh,
		Type:        TypePhoneme,
		Title:       "Focus on " + pair.Label(),
		Description: fmt.Sprintf("You're mixing up %s and %s. A few minutes of minimal pairs will sharpen the difference.", pair.Target, pair.Contrast),
		ActionPath:  activityPath(erber.ActivityMinimalPairs),
		ActionLabel: "Practice minimal pairs",
		Metric:      trialMetric(pair.Accuracy, pair.Trials),
	}
}

// ErberAdvancement suggests the next Erber level once the one below it is
// mastered. It stays quiet when a phoneme recommendation already fired.
func ErberAdvancement(in Input, prior []Recommendation) *Recommendation {
	if hasType(prior, TypePhoneme) {
		return nil
	}
	levels := erber.Levels()
	for i := 0; i < len(levels)-1; i++ {
		cur := in.Journey.Level(levels[i])
		if !cur.Mastered {
			continue
		}
		next := levels[i+1]
		if in.Journey.Level(next).Mastered {
			continue
		}
		act := erber.PrimaryActivity(next)
		return &Recommendation{
			ID:          IDErberAdvance,
			Priority:    PriorityMedium,
			Type:        TypeProgression,
			Title:       "Ready for " + next.DisplayName(),
			Description: fmt.Sprintf("You've mastered %s. Step up to %s with %s.", levels[i].DisplayName(), next.DisplayName(), act.Label),
			ActionPath:  act.Path,
			ActionLabel: "Start " + act.Label,
			Metric:      fmt.Sprintf("%s: %d%% over %d trials", levels[i].DisplayName(), cur.Accuracy, cur.Trials),
		}
	}
	return nil
}

// VoiceGap flags a large accuracy gap between male and female voices.
func VoiceGap(in Input, _ []Recommendation) *Recommendation {
	female := in.Breakdowns.VoiceFor(trial.VoiceFemale)
	male := in.Breakdowns.VoiceFor(trial.VoiceMale)
	if female.Trials < voiceMinTrials || male.Trials < voiceMinTrials {
		return nil
	}
	gap := female.Accuracy - male.Accuracy
	if gap < 0 {
		gap = -gap
	}
	if gap <= voiceGapPoints {
		return nil
	}
	weaker := male
	if female.Accuracy < male.Accuracy {
		weaker = female
	}
	return &Recommendation{
		ID:          IDVoiceGap,
		Priority:    PriorityMedium,
		Type:        TypeVoice,
		Title:       fmt.Sprintf("Practice with %s voices", weaker.VoiceGender),
		Description: fmt.Sprintf("Your accuracy with %s voices trails the other voice by %d points.", weaker.VoiceGender, gap),
		ActionPath:  activityPath(erber.ActivityWordIdentification),
		ActionLabel: "Practice words",
		Metric:      trialMetric(weaker.Accuracy, weaker.Trials),
	}
}

// NoiseReadiness moves learners who do well in quiet into background noise.
func NoiseReadiness(in Input, _ []Recommendation) *Recommendation {
	quiet := in.Breakdowns.Noise.Quiet
	noise := in.Breakdowns.Noise.Noise
	if quiet.Accuracy < quietReadyAccuracy || quiet.Trials < quietReadyTrials {
		return nil
	}
	if noise.Trials < noiseTryMaxTrials {
		return &Recommendation{
			ID:          IDNoiseTry,
			Priority:    PriorityMedium,
			Type:        TypeNoise,
			Title:       "Try listening in noise",
			Description: "You're doing well in quiet. Add background noise to build real-world listening.",
			ActionPath:  activityPath(erber.ActivityWordIdentification),
			ActionLabel: "Turn on noise",
			Metric:      trialMetric(quiet.Accuracy, quiet.Trials) + " in quiet",
		}
	}
	if noise.Accuracy < noiseTargetAccuracy {
		return &Recommendation{
			ID:          IDNoisePractice,
			Priority:    PriorityLow,
			Type:        TypeNoise,
			Title:       "Keep practicing in noise",
			Description: "Noise is harder than quiet. Regular practice closes the gap.",
			ActionPath:  activityPath(erber.ActivityWordIdentification),
			ActionLabel: "Practice in noise",
			Metric:      trialMetric(noise.Accuracy, noise.Trials) + " in noise",
		}
	}
	return nil
}

// WeakestPosition points at the word position where phonemes are missed
// most, unless a specific phoneme pair was already recommended.
func WeakestPosition(in Input, prior []Recommendation) *Recommendation {
	if hasID(prior, IDPhonemeWeakest) {
		return nil
	}
	var weakest *breakdown.PositionBreakdown
	for i, p := range in.Breakdowns.Position {
		if p.Accuracy >= positionMaxAccuracy || p.Trials < positionMinTrials {
			continue
		}
		if weakest == nil || p.Accuracy < weakest.Accuracy {
			weakest = &in.Breakdowns.Position[i]
		}
	}
	if weakest == nil {
		return nil
	}
	return &Recommendation{
		ID:          IDPositionWeakest,
		Priority:    PriorityLow,
		Type:        TypePosition,
		Title:       fmt.Sprintf("Listen for %s sounds", weakest.Position),
		Description: fmt.Sprintf("Sounds in the %s position of words are the hardest for you right now.", weakest.Position),
		ActionPath:  activityPath(erber.ActivityMinimalPairs),
		ActionLabel: "Practice minimal pairs",
		Metric:      trialMetric(weakest.Accuracy, weakest.Trials),
	}
}

// ConsistencyNudge encourages a learner who has not practiced today and
// practices irregularly.
func ConsistencyNudge(in Input, _ []Recommendation) *Recommendation {
	c := in.Consistency
	if c.CurrentStreak != 0 || c.Last30DaysActive >= nudgeMaxActiveDays {
		return nil
	}
	return &Recommendation{
		ID:          IDConsistency,
		Priority:    PriorityLow,
		Type:        TypeConsistency,
		Title:       "A little every day",
		Description: "Short daily sessions help your brain adapt faster than occasional long ones.",
		ActionPath:  HubPath,
		ActionLabel: "Start a session",
		Metric:      fmt.Sprintf("%d active days in the last 30", c.Last30DaysActive),
	}
}

// TargetedDrills suggests the drill pack when several pairs are struggling
// and the weakest-pair recommendation has not fired.
func TargetedDrills(in Input, prior []Recommendation) *Recommendation {
	n := len(in.Phonemes.StrugglingPairs)
	if n < drillMinPairs || hasID(prior, IDPhonemeWeakest) {
		return nil
	}
	return &Recommendation{
		ID:          IDDrillPack,
		Priority:    PriorityMedium,
		Type:        TypeDrill,
		Title:       "Try a targeted drill pack",
		Description: fmt.Sprintf("%d sound pairs need work. A drill pack cycles through all of them.", n),
		ActionPath:  activityPath(erber.ActivityPhonemeDrill),
		ActionLabel: "Open drills",
		Metric:      fmt.Sprintf("%d struggling pairs", n),
	}
}

// DetectionAwareness nudges learners who have barely practiced detection.
func DetectionAwareness(in Input, _ []Recommendation) *Recommendation {
	d := in.Journey.Level(erber.LevelDetection)
	if d.Trials >= detectionMinTrials || d.Mastered {
		return nil
	}
	act, _ := erber.GetActivity(erber.ActivityEnvironmentalSounds)
	return &Recommendation{
		ID:          IDEnvironmentalAwareness,
		Priority:    PriorityMedium,
		Type:        TypeEnvironment,
		Title:       "Tune in to everyday sounds",
		Description: "Noticing sounds around you is the foundation for understanding speech.",
		ActionPath:  act.Path,
		ActionLabel: "Start " + act.Label,
		Metric:      fmt.Sprintf("%d detection trials", d.Trials),
	}
}

// ConversationReadiness moves strong sentence-level listeners on to
// conversation practice.
func ConversationReadiness(in Input, _ []Recommendation) *Recommendation {
	sentences, ok := in.Breakdowns.ActivityFor(erber.ActivitySentenceTraining)
	if !ok || sentences.Accuracy < sentenceReadyAccuracy || sentences.Trials < sentenceReadyTrials {
		return nil
	}
	conv, _ := in.Breakdowns.ActivityFor(erber.ActivityConversation)
	if conv.Trials >= conversationMaxTrials {
		return nil
	}
	return &Recommendation{
		ID:          IDConversationReady,
		Priority:    PriorityMedium,
		Type:        TypeConversation,
		Title:       "Ready for conversations",
		Description: "You're following sentences well. Conversation practice is the next step.",
		ActionPath:  activityPath(erber.ActivityConversation),
		ActionLabel: "Start conversation practice",
		Metric:      trialMetric(sentences.Accuracy, sentences.Trials) + " on sentences",
	}
}
