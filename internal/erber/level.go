package erber

import "fmt"

// Level is one stage of the Erber hierarchy of auditory skill development.
type Level string

const (
	LevelDetection      Level = "detection"
	LevelDiscrimination Level = "discrimination"
	LevelIdentification Level = "identification"
	LevelComprehension  Level = "comprehension"
)

// Levels returns the four levels from easiest to hardest.
func Levels() []Level {
	return []Level{
		LevelDetection,
		LevelDiscrimination,
		LevelIdentification,
		LevelComprehension,
	}
}

// ParseLevel validates a level name.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown Erber level %q", s)
}

// Index returns the level's position in the hierarchy, or -1 if unknown.
func (l Level) Index() int {
	for i, lv := range Levels() {
		if lv == l {
			return i
		}
	}
	return -1
}

// Next returns the level above l, capped at comprehension.
func (l Level) Next() Level {
	levels := Levels()
	i := l.Index()
	if i < 0 || i >= len(levels)-1 {
		return LevelComprehension
	}
	return levels[i+1]
}

// Prev returns the level below l. The second value is false at detection.
func (l Level) Prev() (Level, bool) {
	i := l.Index()
	if i <= 0 {
		return "", false
	}
	return Levels()[i-1], true
}

// DisplayName returns a human-readable name for the level.
func (l Level) DisplayName() string {
	switch l {
	case LevelDetection:
		return "Detection"
	case LevelDiscrimination:
		return "Discrimination"
	case LevelIdentification:
		return "Identification"
	case LevelComprehension:
		return "Comprehension"
	default:
		return string(l)
	}
}
