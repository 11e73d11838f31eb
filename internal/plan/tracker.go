package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/soundstep/internal/calendar"
)

// ErrNoPlan is returned when advancing without a plan for today.
var ErrNoPlan = errors.New("no plan for today")

// Tracker stores today's plan in a Cache slot and moves through its steps.
// Advancing is read-then-write; callers serialize it per user.
type Tracker struct {
	Cache    Cache
	Location *time.Location
	Now      func() time.Time
}

// NewTracker creates a Tracker over cache using the wall clock.
func NewTracker(cache Cache, loc *time.Location) *Tracker {
	return &Tracker{Cache: cache, Location: loc, Now: time.Now}
}

func (t *Tracker) today() string {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return calendar.DateOf(now(), t.Location).String()
}

// Load returns today's plan. A plan from another day or an unreadable slot
// is removed and reported as not in plan.
func (t *Tracker) Load(ctx context.Context, userID string) (*StoredPlan, bool, error) {
	key := CacheKey(userID)
	raw, ok, err := t.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("read plan: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var p StoredPlan
	if err := json.Unmarshal(raw, &p); err != nil || !p.valid() || p.Date != t.today() {
		if err := t.Cache.Delete(ctx, key); err != nil {
			return nil, false, fmt.Errorf("discard plan: %w", err)
		}
		return nil, false, nil
	}
	return &p, true, nil
}

// Save stores steps as today's plan, starting at the first step.
func (t *Tracker) Save(ctx context.Context, userID string, steps []Step) (*StoredPlan, error) {
	p := &StoredPlan{Steps: steps, CurrentStep: 0, Date: t.today()}
	if err := t.put(ctx, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (t *Tracker) put(ctx context.Context, userID string, p *StoredPlan) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := t.Cache.Set(ctx, CacheKey(userID), raw); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// AdvanceResult says where the learner goes after finishing a step.
type AdvanceResult struct {
	Step  *Step  `json:"step,omitempty" yaml:"step,omitempty"`
	Done  bool   `json:"done" yaml:"done"`
	Route string `json:"route" yaml:"route"`
}

// Advance moves to the next step. Finishing the last step clears the plan
// and routes to the hub.
func (t *Tracker) Advance(ctx context.Context, userID string) (AdvanceResult, error) {
	p, ok, err := t.Load(ctx, userID)
	if err != nil {
		return AdvanceResult{}, err
	}
	if !ok {
		return AdvanceResult{}, ErrNoPlan
	}

	if p.CurrentStep+1 >= len(p.Steps) {
		if err := t.Cache.Delete(ctx, CacheKey(userID)); err != nil {
			return AdvanceResult{}, fmt.Errorf("clear plan: %w", err)
		}
		return AdvanceResult{Done: true, Route: HubPath}, nil
	}

	p.CurrentStep++
	if err := t.put(ctx, userID, p); err != nil {
		return AdvanceResult{}, err
	}
	step := p.Current()
	return AdvanceResult{Step: &step, Route: step.Path}, nil
}

// Planner returns the cached plan for today, building and storing one on
// first use.
type Planner struct {
	Builder *Builder
	Tracker *Tracker
}

// Today returns today's plan for in.UserID.
func (p *Planner) Today(ctx context.Context, in Input) (TodaysPlan, error) {
	stored, ok, err := p.Tracker.Load(ctx, in.UserID)
	if err != nil {
		return TodaysPlan{}, err
	}
	if !ok {
		stored, err = p.Tracker.Save(ctx, in.UserID, p.Builder.Steps(ctx, in))
		if err != nil {
			return TodaysPlan{}, err
		}
	}

	return TodaysPlan{
		Steps:             stored.Steps,
		CurrentStep:       stored.CurrentStep,
		TodayTrials:       in.TodayTrials,
		DailyGoal:         DailyGoalTrials,
		DailyGoalMet:      in.TodayTrials >= DailyGoalTrials,
		StreakDays:        in.StreakDays,
		YesterdayAccuracy: in.YesterdayAccuracy,
	}, nil
}
