package erber

import "strings"

// Tier is a subscription tier that gates access to an activity.
type Tier string

const (
	TierFree     Tier = ""
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
)

// ParseTier reads a tier name case-insensitively. Unknown names mean free.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return TierStandard
	case "premium":
		return TierPremium
	}
	return TierFree
}

// Rank orders tiers so that a higher tier includes everything below it.
func (t Tier) Rank() int {
	switch t {
	case TierStandard:
		return 1
	case TierPremium:
		return 2
	}
	return 0
}

// Activity types recorded in trial content tags.
const (
	ActivitySoundDetection      = "sound_detection"
	ActivityEnvironmentalSounds = "environmental_sounds"
	ActivitySameDifferent       = "same_different"
	ActivityMinimalPairs        = "minimal_pairs"
	ActivityPhonemeDrill        = "phoneme_drill"
	ActivityWordIdentification  = "word_identification"
	ActivitySentenceTraining    = "sentence_training"
	ActivityStoryComprehension  = "story_comprehension"
	ActivityConversation        = "conversation"
)

// Activity is a practice exercise a plan step or recommendation can route to.
type Activity struct {
	ID           string
	Label        string
	Description  string
	Path         string
	Level        Level
	RequiredTier Tier
}

var activities = []Activity{
	{
		ID:          ActivitySoundDetection,
		Label:       "Sound Detection",
		Description: "Tap when you hear a sound.",
		Path:        "/practice/detection",
		Level:       LevelDetection,
	},
	{
		ID:           ActivityEnvironmentalSounds,
		Label:        "Environmental Sounds",
		Description:  "Pick out everyday sounds like doorbells and kettles.",
		Path:         "/practice/environmental",
		Level:        LevelDetection,
		RequiredTier: TierStandard,
	},
	{
		ID:          ActivityMinimalPairs,
		Label:       "Minimal Pairs",
		Description: "Tell apart two words that differ by one sound.",
		Path:        "/practice/minimal-pairs",
		Level:       LevelDiscrimination,
	},
	{
		ID:           ActivitySameDifferent,
		Label:        "Same or Different",
		Description:  "Decide whether two sounds match.",
		Path:         "/practice/same-different",
		Level:        LevelDiscrimination,
		RequiredTier: TierStandard,
	},
	{
		ID:           ActivityPhonemeDrill,
		Label:        "Phoneme Drills",
		Description:  "Focused drills on the sound pairs you mix up most.",
		Path:         "/practice/drills",
		Level:        LevelDiscrimination,
		RequiredTier: TierPremium,
	},
	{
		ID:          ActivityWordIdentification,
		Label:       "Word Identification",
		Description: "Choose the word you heard from a short list.",
		Path:        "/practice/words",
		Level:       LevelIdentification,
	},
	{
		ID:           ActivitySentenceTraining,
		Label:        "Sentence Training",
		Description:  "Repeat back short everyday sentences.",
		Path:         "/practice/sentences",
		Level:        LevelIdentification,
		RequiredTier: TierStandard,
	},
	{
		ID:           ActivityStoryComprehension,
		Label:        "Story Comprehension",
		Description:  "Listen to a short story and answer questions.",
		Path:         "/practice/stories",
		Level:        LevelComprehension,
		RequiredTier: TierStandard,
	},
	{
		ID:           ActivityConversation,
		Label:        "Conversation Practice",
		Description:  "Follow a back-and-forth dialogue.",
		Path:         "/practice/conversation",
		Level:        LevelComprehension,
		RequiredTier: TierPremium,
	},
}

// primary is the activity recommended when a learner advances to a level.
var primary = map[Level]string{
	LevelDetection:      ActivitySoundDetection,
	LevelDiscrimination: ActivityMinimalPairs,
	LevelIdentification: ActivityWordIdentification,
	LevelComprehension:  ActivityStoryComprehension,
}

// levelOf maps every known activity type, including ones that have no
// standalone practice route, to its Erber level.
var levelOf = map[string]Level{
	"gender_identification": LevelDiscrimination,
	"syllable_count":        LevelDiscrimination,
	"category_sort":         LevelIdentification,
}

var byID = make(map[string]*Activity, len(activities))

func init() {
	for i := range activities {
		a := &activities[i]
		byID[a.ID] = a
		levelOf[a.ID] = a.Level
	}
}

// DetectionActivity is the universally accessible fallback activity.
func DetectionActivity() Activity {
	return *byID[ActivitySoundDetection]
}

// AllActivities returns every activity in catalog order.
func AllActivities() []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

// GetActivity looks an activity up by ID.
func GetActivity(id string) (Activity, bool) {
	a, ok := byID[id]
	if !ok {
		return Activity{}, false
	}
	return *a, true
}

// Options returns the activities offered at a level in preference order.
func Options(l Level) []Activity {
	var out []Activity
	for _, a := range activities {
		if a.Level == l {
			out = append(out, a)
		}
	}
	return out
}

// PrimaryActivity returns the activity recommended on reaching a level.
func PrimaryActivity(l Level) Activity {
	return *byID[primary[l]]
}

// LevelFor maps an activity type to its Erber level. Unmapped types
// contribute to no level.
func LevelFor(activityType string) (Level, bool) {
	l, ok := levelOf[activityType]
	return l, ok
}

// IsPhonemeContrast reports whether trials of this activity carry a
// target/contrast phoneme pair.
func IsPhonemeContrast(activityType string) bool {
	return activityType == ActivityMinimalPairs || activityType == ActivityPhonemeDrill
}

// ActivityLabel returns the display label for an activity type, falling
// back to a title-cased form of the raw type.
func ActivityLabel(activityType string) string {
	if a, ok := byID[activityType]; ok {
		return a.Label
	}
	words := strings.Fields(strings.ReplaceAll(activityType, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
