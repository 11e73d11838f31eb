package store

import (
	"errors"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures trial queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // created_at >= From
	To    time.Time // created_at < To
}

// predicates turns the options into WHERE conditions on a table with
// sequence and created_at columns.
func (o QueryOpts) predicates() []*entsql.Predicate {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("created_at", formatTime(o.From)))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LT("created_at", formatTime(o.To)))
	}
	return ps
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
