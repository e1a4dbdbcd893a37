package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/physiq/internal/events"
)

// EventRepo appends engine notifications to the journal and queries them.
type EventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// Append records one notification for a character.
func (r *EventRepo) Append(ctx context.Context, characterID string, e events.Event) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var node any
	if e.NodeID != "" {
		node = e.NodeID
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(EngineEventsTable.Name).
		Columns("sequence", "timestamp", "character_id", "type", "node_id", "payload").
		Values(seq, ts.UnixNano(), characterID, string(e.Type), node, string(payload)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Query returns journal entries matching opts in sequence order.
func (r *EventRepo) Query(ctx context.Context, opts QueryOpts) ([]EventRecord, error) {
	t := entsql.Table(EngineEventsTable.Name)
	sel := entsql.Dialect(dialect.SQLite).
		Select(t.C("sequence"), t.C("timestamp"), t.C("character_id"), t.C("payload")).
		From(t)

	var preds []*entsql.Predicate
	if opts.CharacterID != "" {
		preds = append(preds, entsql.EQ(t.C("character_id"), opts.CharacterID))
	}
	if opts.Type != "" {
		preds = append(preds, entsql.EQ(t.C("type"), string(opts.Type)))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To.UnixNano()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Asc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var (
			rec     EventRecord
			ts      int64
			payload string
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.CharacterID, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(payload), &rec.Event); err != nil {
			return nil, fmt.Errorf("unmarshal event %d: %w", rec.Sequence, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// sequenceCounter manages the global monotonic sequence number of the
// event journal. The journal's own auto-increment id is per-table; this
// counter gives every event a single increasing sequence that survives
// restarts and orders events against progress saves.
//
// Uses raw SQL outside the builder because the increment must be atomic
// at the database level. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic in SQLite.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
