package plan

import (
	"context"
	"log/slog"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/longitudinal"
	"github.com/abhisek/soundstep/internal/recommend"
)

// Input is what the builder needs to lay out today's plan.
type Input struct {
	UserID            string
	TodayTrials       int
	StreakDays        int
	YesterdayAccuracy *int
	Journey           longitudinal.ErberJourney
	Recommendations   []recommend.Recommendation
}

// Builder picks a working-level and a stretch-level activity.
type Builder struct {
	Access     AccessChecker
	Placements PlacementSource
	Logger     *slog.Logger
}

// NewBuilder creates a Builder. placements may be nil.
func NewBuilder(access AccessChecker, placements PlacementSource, logger *slog.Logger) *Builder {
	return &Builder{Access: access, Placements: placements, Logger: logger}
}

// Build lays out today's plan.
func (b *Builder) Build(ctx context.Context, in Input) TodaysPlan {
	return TodaysPlan{
		Steps:             b.Steps(ctx, in),
		TodayTrials:       in.TodayTrials,
		DailyGoal:         DailyGoalTrials,
		DailyGoalMet:      in.TodayTrials >= DailyGoalTrials,
		StreakDays:        in.StreakDays,
		YesterdayAccuracy: in.YesterdayAccuracy,
	}
}

// Steps returns the working-level step followed by the stretch step.
func (b *Builder) Steps(ctx context.Context, in Input) []Step {
	working := b.WorkingLevel(ctx, in)
	stretch := working.Next()

	prefer := ""
	if len(in.Recommendations) > 0 {
		prefer = in.Recommendations[0].ActionPath
	}

	first, ok := b.pick(working, prefer, "")
	if !ok {
		first = b.fallback(working, "")
	}

	second, ok := b.pick(stretch, prefer, "")
	if !ok || second.ID == first.ID {
		second = b.fallback(working, first.ID)
	}

	return []Step{stepFor(first), stepFor(second)}
}

// WorkingLevel is the placement level for a learner with no history, or
// else the lowest level not yet mastered.
func (b *Builder) WorkingLevel(ctx context.Context, in Input) erber.Level {
	if !in.Journey.HasData() {
		if l, ok := b.placementLevel(ctx, in.UserID); ok {
			return l
		}
	}
	for _, l := range erber.Levels() {
		if !in.Journey.Level(l).Mastered {
			return l
		}
	}
	return erber.LevelComprehension
}

func (b *Builder) placementLevel(ctx context.Context, userID string) (erber.Level, bool) {
	if b.Placements == nil {
		return "", false
	}
	p, err := b.Placements.LatestPlacement(ctx, userID)
	if err != nil {
		b.logger().Warn("placement read failed", "user_id", userID, "err", err)
		return "", false
	}
	if p == nil {
		return "", false
	}
	l, err := erber.ParseLevel(string(p.Level))
	if err != nil {
		b.logger().Warn("ignoring placement", "user_id", userID, "err", err)
		return "", false
	}
	return l, true
}

// fallback finds an alternate at level, then one level down, then the
// detection activity.
func (b *Builder) fallback(level erber.Level, exclude string) erber.Activity {
	if a, ok := b.pick(level, "", exclude); ok {
		return a
	}
	if prev, ok := level.Prev(); ok {
		if a, ok := b.pick(prev, "", exclude); ok {
			return a
		}
	}
	return erber.DetectionActivity()
}

// pick returns the accessible option at level whose path is prefer, or the
// first accessible option.
func (b *Builder) pick(level erber.Level, prefer, exclude string) (erber.Activity, bool) {
	var (
		first erber.Activity
		found bool
	)
	for _, a := range erber.Options(level) {
		if a.ID == exclude || !b.canAccess(a) {
			continue
		}
		if prefer != "" && a.Path == prefer {
			return a, true
		}
		if !found {
			first, found = a, true
		}
	}
	return first, found
}

func (b *Builder) canAccess(a erber.Activity) bool {
	if a.RequiredTier == erber.TierFree {
		return true
	}
	return b.Access != nil && b.Access.HasAccess(a.RequiredTier)
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
