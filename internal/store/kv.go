package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// KVRepo is a key-value slot table. It backs the daily plan cache when the
// plan has to survive between CLI invocations.
type KVRepo struct {
	db *sql.DB
}

// Get returns the value stored under key. ok is false when the slot is empty.
func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table("session_kv")).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	query, args := builder().Insert("session_kv").
		Columns("key", "value", "updated_at").
		Values(key, value, formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete clears the slot. Deleting an empty slot is not an error.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete("session_kv").
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
