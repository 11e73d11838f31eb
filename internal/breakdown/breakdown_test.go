package breakdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/soundstep/internal/trial"
)

var base = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func ev(result trial.Result, tags trial.Tags) trial.Event {
	return trial.Event{Result: result, Tags: tags, CreatedAt: base}
}

func repeat(n int, e trial.Event) []trial.Event {
	out := make([]trial.Event, n)
	for i := range out {
		out[i] = e
	}
	return out
}

func TestCompute_Empty(t *testing.T) {
	b := Compute(nil, time.UTC)

	assert.Empty(t, b.Activity)
	assert.NotNil(t, b.Activity)
	assert.Empty(t, b.Position)
	assert.Empty(t, b.ResponseTime)
	assert.Nil(t, b.Replay)
	require.Len(t, b.Voice, 2)
	for _, v := range b.Voice {
		assert.Zero(t, v.Trials)
		assert.Zero(t, v.Accuracy)
	}
	assert.Equal(t, Bucket{}, b.Noise.Quiet)
	assert.Equal(t, Bucket{}, b.Noise.Noise)
}

func TestCompute_ActivitySortedByTrials(t *testing.T) {
	var events []trial.Event
	events = append(events, repeat(3, ev(trial.ResultCorrect, trial.Tags{ActivityType: "minimal_pairs"}))...)
	events = append(events, repeat(5, ev(trial.ResultIncorrect, trial.Tags{ActivityType: "word_identification"}))...)
	events = append(events, ev(trial.ResultCorrect, trial.Tags{ActivityType: "word_identification"}))
	events = append(events, ev(trial.ResultCorrect, trial.Tags{}))

	b := Compute(events, time.UTC)

	require.Len(t, b.Activity, 2)
	assert.Equal(t, "word_identification", b.Activity[0].ActivityType)
	assert.Equal(t, "Word Identification", b.Activity[0].Label)
	assert.Equal(t, 6, b.Activity[0].Trials)
	assert.Equal(t, 1, b.Activity[0].Correct)
	assert.Equal(t, 17, b.Activity[0].Accuracy)
	assert.Equal(t, "minimal_pairs", b.Activity[1].ActivityType)
	assert.Equal(t, 100, b.Activity[1].Accuracy)
}

func TestCompute_SkippedCountsAsNotCorrect(t *testing.T) {
	events := []trial.Event{
		ev(trial.ResultCorrect, trial.Tags{ActivityType: "sound_detection"}),
		ev(trial.ResultSkipped, trial.Tags{ActivityType: "sound_detection"}),
	}
	b := Compute(events, time.UTC)
	require.Len(t, b.Activity, 1)
	assert.Equal(t, 2, b.Activity[0].Trials)
	assert.Equal(t, 50, b.Activity[0].Accuracy)
}

func TestCompute_VoiceAlwaysShown(t *testing.T) {
	events := repeat(4, ev(trial.ResultCorrect, trial.Tags{VoiceGender: trial.VoiceMale}))
	b := Compute(events, time.UTC)

	assert.Equal(t, VoiceBreakdown{VoiceGender: trial.VoiceFemale}, b.VoiceFor(trial.VoiceFemale))
	assert.Equal(t, VoiceBreakdown{VoiceGender: trial.VoiceMale, Trials: 4, Accuracy: 100}, b.VoiceFor(trial.VoiceMale))
}

func TestCompute_PositionAbsentBucketsOmitted(t *testing.T) {
	events := []trial.Event{
		ev(trial.ResultCorrect, trial.Tags{Position: trial.PositionMedial}),
		ev(trial.ResultIncorrect, trial.Tags{Position: trial.PositionFinal}),
		ev(trial.ResultCorrect, trial.Tags{Position: trial.PositionFinal}),
	}
	b := Compute(events, time.UTC)

	require.Len(t, b.Position, 2)
	assert.Equal(t, trial.PositionFinal, b.Position[0].Position)
	assert.Equal(t, 50, b.Position[0].Accuracy)
	assert.Equal(t, trial.PositionMedial, b.Position[1].Position)
}

func TestCompute_NoiseBucketsByPresence(t *testing.T) {
	events := []trial.Event{
		ev(trial.ResultCorrect, trial.Tags{NoiseEnabled: trial.Bool(false)}),
		ev(trial.ResultCorrect, trial.Tags{NoiseEnabled: trial.Bool(false)}),
		ev(trial.ResultIncorrect, trial.Tags{NoiseEnabled: trial.Bool(true)}),
		ev(trial.ResultIncorrect, trial.Tags{}),
	}
	b := Compute(events, time.UTC)

	assert.Equal(t, Bucket{Trials: 2, Accuracy: 100}, b.Noise.Quiet)
	assert.Equal(t, Bucket{Trials: 1, Accuracy: 0}, b.Noise.Noise)
}

func TestCompute_ReplayCohorts(t *testing.T) {
	events := []trial.Event{
		ev(trial.ResultCorrect, trial.Tags{ReplayCount: trial.Int(0)}),
		ev(trial.ResultCorrect, trial.Tags{ReplayCount: trial.Int(0)}),
		ev(trial.ResultIncorrect, trial.Tags{ReplayCount: trial.Int(0)}),
		ev(trial.ResultIncorrect, trial.Tags{ReplayCount: trial.Int(2)}),
		ev(trial.ResultCorrect, trial.Tags{ReplayCount: trial.Int(3)}),
		ev(trial.ResultCorrect, trial.Tags{}),
	}
	b := Compute(events, time.UTC)

	require.NotNil(t, b.Replay)
	assert.InDelta(t, 1.0, b.Replay.AvgReplays, 0.001)
	assert.Equal(t, 3, b.Replay.ZeroReplayTrials)
	assert.Equal(t, 67, b.Replay.ZeroReplayAccuracy)
	assert.Equal(t, 2, b.Replay.MultiReplayTrials)
	assert.Equal(t, 50, b.Replay.MultiReplayAccuracy)
}

func TestCompute_ResponseTimeByDay(t *testing.T) {
	day1 := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	events := []trial.Event{
		{Result: trial.ResultCorrect, ResponseTimeMs: trial.Int(1000), CreatedAt: day2},
		{Result: trial.ResultCorrect, ResponseTimeMs: trial.Int(1200), CreatedAt: day1},
		{Result: trial.ResultCorrect, ResponseTimeMs: trial.Int(1301), CreatedAt: day1},
		{Result: trial.ResultCorrect, CreatedAt: day1},
	}
	b := Compute(events, time.UTC)

	require.Len(t, b.ResponseTime, 2)
	assert.Equal(t, ResponseTimeTrendPoint{Date: "2026-10-14", AvgMs: 1251}, b.ResponseTime[0])
	assert.Equal(t, ResponseTimeTrendPoint{Date: "2026-10-15", AvgMs: 1000}, b.ResponseTime[1])
}

func TestCompute_AccuracyInvariant(t *testing.T) {
	results := []trial.Result{trial.ResultCorrect, trial.ResultIncorrect, trial.ResultSkipped}
	activities := []string{"sound_detection", "minimal_pairs", "conversation"}
	var events []trial.Event
	for i := 0; i < 97; i++ {
		events = append(events, ev(results[i%3], trial.Tags{
			ActivityType: activities[(i*7)%3],
			VoiceGender:  []trial.VoiceGender{trial.VoiceMale, trial.VoiceFemale}[i%2],
		}))
	}
	b := Compute(events, time.UTC)
	for _, a := range b.Activity {
		assert.LessOrEqual(t, a.Correct, a.Trials)
		assert.Equal(t, trial.Accuracy(a.Correct, a.Trials), a.Accuracy)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 10, 16, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC), WindowStart(now, 30, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), WindowStart(now, 1, time.UTC))
	assert.Equal(t, WindowStart(now, DefaultWindowDays, time.UTC), WindowStart(now, 0, time.UTC))
}
