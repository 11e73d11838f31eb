package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/plan"
)

// PlacementRepo records placement assessment results.
type PlacementRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Save records a placement for a user. A zero CreatedAt is set to now.
func (r *PlacementRepo) Save(ctx context.Context, userID string, p plan.Placement) error {
	if _, err := erber.ParseLevel(string(p.Level)); err != nil {
		return fmt.Errorf("save placement: %w", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	scores := p.Scores
	if scores == nil {
		scores = map[string]int{}
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshal placement scores: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("placements").
		Columns("sequence", "user_id", "level", "scores", "created_at").
		Values(seqNum, userID, string(p.Level), string(raw), formatTime(p.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save placement: %w", err)
	}
	return nil
}

// Latest returns the most recent placement for a user, or ErrNotFound.
func (r *PlacementRepo) Latest(ctx context.Context, userID string) (*plan.Placement, error) {
	query, args := builder().Select("level", "scores", "created_at").
		From(entsql.Table("placements")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var level, scores, createdAt string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&level, &scores, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest placement: %w", err)
	}

	p := &plan.Placement{Level: erber.Level(level)}
	if err := json.Unmarshal([]byte(scores), &p.Scores); err != nil {
		return nil, fmt.Errorf("unmarshal placement scores: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse placement time: %w", err)
	}
	return p, nil
}

// LatestPlacement implements plan.PlacementSource: a user who was never
// assessed yields (nil, nil).
func (r *PlacementRepo) LatestPlacement(ctx context.Context, userID string) (*plan.Placement, error) {
	p, err := r.Latest(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}
