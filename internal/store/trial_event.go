package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/soundstep/internal/trial"
)

var trialColumns = []string{
	"id", "sequence", "user_id", "result", "user_response",
	"correct_response", "content_tags", "response_time_ms", "created_at",
}

// TrialRepo is the append-only trial event log.
type TrialRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Append stores a trial event. A missing ID gets a fresh UUID and a zero
// CreatedAt is set to now; both are written back to e.
func (r *TrialRepo) Append(ctx context.Context, e *trial.Event) error {
	if e.UserID == "" {
		return fmt.Errorf("append trial: missing user id")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	tags, err := json.Marshal(e.Tags.Map())
	if err != nil {
		return fmt.Errorf("marshal content tags: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("trial_events").
		Columns(trialColumns...).
		Values(e.ID, seqNum, e.UserID, string(e.Result), e.UserResponse,
			e.CorrectResponse, string(tags), e.ResponseTimeMs, formatTime(e.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save trial event: %w", err)
	}
	return nil
}

// FetchTrials returns a user's trials created at or after since, oldest
// first. A zero since returns the whole history.
func (r *TrialRepo) FetchTrials(ctx context.Context, userID string, since time.Time) ([]trial.Event, error) {
	return r.Query(ctx, userID, QueryOpts{From: since})
}

// Query returns a user's trials matching opts, oldest first.
func (r *TrialRepo) Query(ctx context.Context, userID string, opts QueryOpts) ([]trial.Event, error) {
	sel := builder().Select(trialColumns...).
		From(entsql.Table("trial_events")).
		Where(entsql.EQ("user_id", userID))
	for _, p := range opts.predicates() {
		sel.Where(p)
	}
	sel.OrderBy("created_at", "sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trial events: %w", err)
	}
	defer rows.Close()

	events := []trial.Event{}
	for rows.Next() {
		e, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trial events: %w", err)
	}
	return events, nil
}

// Count returns how many trials a user has recorded.
func (r *TrialRepo) Count(ctx context.Context, userID string) (int, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table("trial_events")).
		Where(entsql.EQ("user_id", userID)).
		Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trial events: %w", err)
	}
	return n, nil
}

func scanTrial(rows *sql.Rows) (trial.Event, error) {
	var (
		e               trial.Event
		seq             int64
		result          string
		userResponse    sql.NullString
		correctResponse sql.NullString
		tags            string
		responseTime    sql.NullInt64
		createdAt       string
	)
	if err := rows.Scan(&e.ID, &seq, &e.UserID, &result, &userResponse,
		&correctResponse, &tags, &responseTime, &createdAt); err != nil {
		return e, fmt.Errorf("scan trial event: %w", err)
	}

	e.Result = trial.Result(result)
	if userResponse.Valid {
		e.UserResponse = trial.String(userResponse.String)
	}
	if correctResponse.Valid {
		e.CorrectResponse = trial.String(correctResponse.String)
	}
	if responseTime.Valid && responseTime.Int64 > 0 {
		e.ResponseTimeMs = trial.Int(int(responseTime.Int64))
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(tags), &raw); err == nil {
		e.Tags = trial.ParseTags(raw)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return e, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return e, nil
}
