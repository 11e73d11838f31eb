package trial

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Result is the outcome of a single trial.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
	ResultSkipped   Result = "skipped"
)

// ErrInvalidResult is returned when a result string is not one of the known outcomes.
var ErrInvalidResult = errors.New("invalid trial result")

// ParseResult converts a stored result string to a Result.
func ParseResult(s string) (Result, error) {
	switch r := Result(s); r {
	case ResultCorrect, ResultIncorrect, ResultSkipped:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResult, s)
}

// Event is a single immutable trial outcome read from the event store.
type Event struct {
	ID              string
	UserID          string
	Result          Result
	UserResponse    *string
	CorrectResponse *string
	Tags            Tags
	ResponseTimeMs  *int
	CreatedAt       time.Time
}

// IsCorrect reports whether the learner answered correctly.
func (e Event) IsCorrect() bool {
	return e.Result == ResultCorrect
}

// Accuracy returns round(100 * correct / trials), or 0 for an empty bucket.
func Accuracy(correct, trials int) int {
	if trials <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(trials)))
}

// Counter accumulates trials and correct answers for one bucket.
type Counter struct {
	Trials  int
	Correct int
}

// Add records one trial outcome.
func (c *Counter) Add(correct bool) {
	c.Trials++
	if correct {
		c.Correct++
	}
}

// Accuracy returns the rounded percentage for the bucket.
func (c Counter) Accuracy() int {
	return Accuracy(c.Correct, c.Trials)
}
