// Package plan builds the learner's two-step daily plan and keeps it in a
// day-scoped cache slot while the learner works through it.
package plan

import (
	"context"
	"time"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/recommend"
)

// DailyGoalTrials is the number of trials that meets the daily goal.
const DailyGoalTrials = 20

// PlanCacheKey names the cache slot holding today's plan.
const PlanCacheKey = "soundstep.todaysPlan"

// HubPath is where a finished plan routes the learner.
const HubPath = recommend.HubPath

// CacheKey returns the slot key for one user.
func CacheKey(userID string) string {
	return PlanCacheKey + ":" + userID
}

// Step is one activity in the daily plan.
type Step struct {
	ActivityID  string      `json:"activityId" yaml:"activityId"`
	Path        string      `json:"path" yaml:"path"`
	Label       string      `json:"label" yaml:"label"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Level       erber.Level `json:"level" yaml:"level"`
}

func stepFor(a erber.Activity) Step {
	return Step{
		ActivityID:  a.ID,
		Path:        a.Path,
		Label:       a.Label,
		Description: a.Description,
		Level:       a.Level,
	}
}

// StoredPlan is the cached form of today's plan.
type StoredPlan struct {
	Steps       []Step `json:"steps"`
	CurrentStep int    `json:"currentStep"`
	Date        string `json:"date"`
}

// Current returns the step the learner is on.
func (p *StoredPlan) Current() Step {
	return p.Steps[p.CurrentStep]
}

func (p *StoredPlan) valid() bool {
	return len(p.Steps) > 0 && p.CurrentStep >= 0 && p.CurrentStep < len(p.Steps)
}

// TodaysPlan is what the plan card shows.
type TodaysPlan struct {
	Steps             []Step `json:"steps" yaml:"steps"`
	CurrentStep       int    `json:"currentStep" yaml:"currentStep"`
	TodayTrials       int    `json:"todayTrials" yaml:"todayTrials"`
	DailyGoal         int    `json:"dailyGoal" yaml:"dailyGoal"`
	DailyGoalMet      bool   `json:"dailyGoalMet" yaml:"dailyGoalMet"`
	StreakDays        int    `json:"streakDays" yaml:"streakDays"`
	YesterdayAccuracy *int   `json:"yesterdayAccuracy,omitempty" yaml:"yesterdayAccuracy,omitempty"`
}

// AccessChecker answers whether the learner may use activities of a tier.
type AccessChecker interface {
	HasAccess(tier erber.Tier) bool
}

// AccessFunc adapts a function to AccessChecker.
type AccessFunc func(tier erber.Tier) bool

// HasAccess implements AccessChecker.
func (f AccessFunc) HasAccess(tier erber.Tier) bool { return f(tier) }

// TierAccess grants every tier at or below the learner's own.
func TierAccess(user erber.Tier) AccessChecker {
	return AccessFunc(func(tier erber.Tier) bool {
		return user.Rank() >= tier.Rank()
	})
}

// Placement is the result of a placement assessment.
type Placement struct {
	Level     erber.Level    `json:"level" yaml:"level"`
	Scores    map[string]int `json:"scores,omitempty" yaml:"scores,omitempty"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

// PlacementSource reads the latest placement for a user. It returns
// (nil, nil) when the user was never assessed.
type PlacementSource interface {
	LatestPlacement(ctx context.Context, userID string) (*Placement, error)
}

// Cache is a key-value slot store scoped to one session.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
