package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// llmEventCounter names the counter that numbers LLM request events.
const llmEventCounter = "llm_request_events"

// counter is a named, persistent sequence in the counters table. Event
// numbers come from here rather than from MAX(sequence) so that a number
// is never handed out twice, even after old events are deleted.
type counter struct {
	mu   sync.Mutex
	db   *sql.DB
	name string
}

// newCounter registers name in the counters table if it is not there yet.
func newCounter(ctx context.Context, db *sql.DB, name string) (*counter, error) {
	query, args := builder.Insert(CountersTable.Name).
		Columns("name", "value").
		Values(name, 0).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("register counter %q: %w", name, err)
	}
	return &counter{db: db, name: name}, nil
}

// Next increments the counter and returns the new value. The first call
// on a fresh counter returns 1.
func (c *counter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", c.name, err)
	}
	defer tx.Rollback()

	query, args := builder.Update(CountersTable.Name).
		Add("value", 1).
		Where(entsql.EQ("name", c.name)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("counter %q: increment: %w", c.name, err)
	}

	query, args = builder.Select("value").
		From(builder.Table(CountersTable.Name)).
		Where(entsql.EQ("name", c.name)).
		Query()
	var v int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, fmt.Errorf("counter %q: read: %w", c.name, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("counter %q: commit: %w", c.name, err)
	}
	return v, nil
}
