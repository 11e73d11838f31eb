// Package analytics reads a learner's trial history once and runs every
// aggregator, the recommendation engine, and the plan input over it.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/soundstep/internal/breakdown"
	"github.com/abhisek/soundstep/internal/longitudinal"
	"github.com/abhisek/soundstep/internal/phoneme"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/recommend"
	"github.com/abhisek/soundstep/internal/trial"
)

// EventSource is the read side of the event store.
type EventSource interface {
	// FetchTrials returns a user's trials created at or after since, oldest
	// first. A zero since means the whole history.
	FetchTrials(ctx context.Context, userID string, since time.Time) ([]trial.Event, error)
}

// Service computes reports for one event source.
type Service struct {
	source     EventSource
	loc        *time.Location
	windowDays int
	now        func() time.Time
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithWindowDays sets the breakdown window. Non-positive values keep the default.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a Service reading from src.
func NewService(src EventSource, opts ...Option) *Service {
	s := &Service{
		source:     src,
		loc:        time.Local,
		windowDays: breakdown.DefaultWindowDays,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = DefaultMetrics()
	}
	return s
}

// Report is everything the engine derives from one history read.
type Report struct {
	UserID          string                     `json:"userId" yaml:"userId"`
	GeneratedAt     time.Time                  `json:"generatedAt" yaml:"generatedAt"`
	WindowDays      int                        `json:"windowDays" yaml:"windowDays"`
	Degraded        bool                       `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Breakdowns      breakdown.Breakdowns       `json:"breakdowns" yaml:"breakdowns"`
	Longitudinal    longitudinal.Data          `json:"longitudinal" yaml:"longitudinal"`
	Phonemes        phoneme.MasteryData        `json:"phonemes" yaml:"phonemes"`
	Progress        longitudinal.DailyProgress `json:"progress" yaml:"progress"`
	Recommendations []recommend.Recommendation `json:"recommendations" yaml:"recommendations"`
}

// Report reads the user's history and aggregates it. A failed read is
// logged and treated as an empty history, so Report always returns a
// well-formed result.
func (s *Service) Report(ctx context.Context, userID string) *Report {
	now := s.now()
	r := &Report{UserID: userID, GeneratedAt: now, WindowDays: s.windowDays}

	events, err := s.source.FetchTrials(ctx, userID, time.Time{})
	if err != nil {
		s.logger.Warn("store fetch failed", "user_id", userID, "err", err)
		s.metrics.recordStoreError(ctx)
		events = nil
		r.Degraded = true
	}

	start := breakdown.WindowStart(now, s.windowDays, s.loc)
	var window []trial.Event
	for _, e := range events {
		if !e.CreatedAt.Before(start) {
			window = append(window, e)
		}
	}

	// Breakdowns cover the trailing window; the rest use the whole history.
	// Each goroutine writes only its own fields.
	var g errgroup.Group
	g.Go(func() error {
		defer s.metrics.recordDuration(ctx, "breakdown", time.Now())
		r.Breakdowns = breakdown.Compute(window, s.loc)
		return nil
	})
	g.Go(func() error {
		defer s.metrics.recordDuration(ctx, "longitudinal", time.Now())
		r.Longitudinal = longitudinal.Compute(events, now, s.loc)
		r.Progress = longitudinal.Progress(events, now, s.loc)
		return nil
	})
	g.Go(func() error {
		defer s.metrics.recordDuration(ctx, "phoneme", time.Now())
		r.Phonemes = phoneme.Analyze(events)
		return nil
	})
	_ = g.Wait()

	r.Recommendations = recommend.Recommend(recommend.Input{
		Breakdowns:  r.Breakdowns,
		Phonemes:    r.Phonemes,
		Consistency: r.Longitudinal.Consistency,
		Journey:     r.Longitudinal.Journey,
	})
	for _, rec := range r.Recommendations {
		s.metrics.recordRecommendation(ctx, string(rec.Type))
	}

	s.logger.Debug("report computed",
		"user_id", userID,
		"trials", len(events),
		"window_trials", len(window),
		"recommendations", len(r.Recommendations),
	)
	return r
}

// PlanInput returns what the plan builder needs from the report.
func (r *Report) PlanInput() plan.Input {
	return plan.Input{
		UserID:            r.UserID,
		TodayTrials:       r.Progress.TodayTrials,
		StreakDays:        r.Longitudinal.Consistency.CurrentStreak,
		YesterdayAccuracy: r.Progress.YesterdayAccuracy,
		Journey:           r.Longitudinal.Journey,
		Recommendations:   r.Recommendations,
	}
}
