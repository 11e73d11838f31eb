package trial

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Position is where a target phoneme sits within a word.
type Position string

const (
	PositionInitial Position = "initial"
	PositionMedial  Position = "medial"
	PositionFinal   Position = "final"
	PositionUnknown Position = "unknown"
)

// VoiceGender identifies the speaker voice used for a trial.
type VoiceGender string

const (
	VoiceMale   VoiceGender = "male"
	VoiceFemale VoiceGender = "female"
)

// Tag keys as they appear in the stored content tag map.
const (
	TagActivityType    = "activityType"
	TagTargetPhoneme   = "targetPhoneme"
	TagContrastPhoneme = "contrastPhoneme"
	TagPosition        = "position"
	TagVoiceGender     = "voiceGender"
	TagSNR             = "snr"
	TagNoiseEnabled    = "noiseEnabled"
	TagTrialNumber     = "trialNumber"
	TagReplayCount     = "replayCount"
)

// Tags holds the content tags of a trial. Every field is optional: string
// fields are empty and pointer fields are nil when the tag was not recorded.
// Absent numeric tags must never be read as zero.
type Tags struct {
	ActivityType    string
	TargetPhoneme   string
	ContrastPhoneme string
	Position        Position
	VoiceGender     VoiceGender
	SNR             *int
	NoiseEnabled    *bool
	TrialNumber     *int
	ReplayCount     *int

	// Extra keeps tags this package does not interpret.
	Extra map[string]any
}

// ParseTags reads a loosely typed tag map. Values of the wrong shape are
// treated as absent rather than failing the whole event.
func ParseTags(m map[string]any) Tags {
	var t Tags
	for k, v := range m {
		switch k {
		case TagActivityType:
			t.ActivityType = asString(v)
		case TagTargetPhoneme:
			t.TargetPhoneme = asString(v)
		case TagContrastPhoneme:
			t.ContrastPhoneme = asString(v)
		case TagPosition:
			t.Position = parsePosition(asString(v))
		case TagVoiceGender:
			t.VoiceGender = parseVoice(asString(v))
		case TagSNR:
			t.SNR = asInt(v)
		case TagNoiseEnabled:
			t.NoiseEnabled = asBool(v)
		case TagTrialNumber:
			t.TrialNumber = asInt(v)
		case TagReplayCount:
			t.ReplayCount = asInt(v)
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]any)
			}
			t.Extra[k] = v
		}
	}
	return t
}

// Map converts the tags back to the stored map form. Absent tags are omitted.
func (t Tags) Map() map[string]any {
	m := make(map[string]any, len(t.Extra)+9)
	for k, v := range t.Extra {
		m[k] = v
	}
	setString := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	setString(TagActivityType, t.ActivityType)
	setString(TagTargetPhoneme, t.TargetPhoneme)
	setString(TagContrastPhoneme, t.ContrastPhoneme)
	setString(TagPosition, string(t.Position))
	setString(TagVoiceGender, string(t.VoiceGender))
	if t.SNR != nil {
		m[TagSNR] = *t.SNR
	}
	if t.NoiseEnabled != nil {
		m[TagNoiseEnabled] = *t.NoiseEnabled
	}
	if t.TrialNumber != nil {
		m[TagTrialNumber] = *t.TrialNumber
	}
	if t.ReplayCount != nil {
		m[TagReplayCount] = *t.ReplayCount
	}
	return m
}

func parsePosition(s string) Position {
	switch p := Position(strings.ToLower(s)); p {
	case PositionInitial, PositionMedial, PositionFinal, PositionUnknown:
		return p
	case "":
		return ""
	default:
		return PositionUnknown
	}
}

func parseVoice(s string) VoiceGender {
	switch g := VoiceGender(strings.ToLower(s)); g {
	case VoiceMale, VoiceFemale:
		return g
	}
	return ""
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asInt(v any) *int {
	var f float64
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	i := int(math.Round(f))
	return &i
}

func asBool(v any) *bool {
	switch b := v.(type) {
	case bool:
		return &b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil
		}
		return &parsed
	}
	return nil
}

// Int returns a pointer to v. Handy for building tags in code and tests.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
