package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/physiq/internal/persistence"
)

// ProgressRepo stores progress documents. It implements
// persistence.ProgressStore.
type ProgressRepo struct {
	drv *entsql.Driver
}

var _ persistence.ProgressStore = (*ProgressRepo)(nil)

// FetchProgress returns the latest document of a character, or
// persistence.ErrNotFound.
func (r *ProgressRepo) FetchProgress(ctx context.Context, characterID string) (persistence.Document, error) {
	t := entsql.Table(ProgressTable.Name)
	query, args := entsql.Dialect(dialect.SQLite).
		Select(t.C("document")).
		From(t).
		Where(entsql.EQ(t.C("character_id"), characterID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return persistence.Document{}, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return persistence.Document{}, fmt.Errorf("query progress: %w", err)
		}
		return persistence.Document{}, persistence.ErrNotFound
	}
	var raw string
	if err := rows.Scan(&raw); err != nil {
		return persistence.Document{}, fmt.Errorf("scan progress: %w", err)
	}
	var doc persistence.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return persistence.Document{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	return doc, nil
}

// SaveProgress upserts the character's current document and appends it to
// the history, in one transaction.
func (r *ProgressRepo) SaveProgress(ctx context.Context, characterID string, doc persistence.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	savedAt := doc.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	now := time.Now().UnixNano()

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	upsert, args := entsql.Dialect(dialect.SQLite).
		Insert(ProgressTable.Name).
		Columns("character_id", "format_version", "save_id", "document", "saved_at", "updated_at").
		Values(characterID, doc.FormatVersion, doc.SaveID, string(b), savedAt.UnixNano(), now).
		OnConflict(
			entsql.ConflictColumns("character_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, upsert, args, &res); err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert progress: %w", err)
	}

	insert, args := entsql.Dialect(dialect.SQLite).
		Insert(ProgressHistoryTable.Name).
		Columns("character_id", "save_id", "document", "saved_at").
		Values(characterID, doc.SaveID, string(b), savedAt.UnixNano()).
		Query()
	if err := tx.Exec(ctx, insert, args, &res); err != nil {
		tx.Rollback()
		return fmt.Errorf("append progress history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}
	return nil
}

// History returns up to limit saves of a character, newest first. A limit
// of 0 returns all of them.
func (r *ProgressRepo) History(ctx context.Context, characterID string, limit int) ([]HistoryEntry, error) {
	t := entsql.Table(ProgressHistoryTable.Name)
	sel := entsql.Dialect(dialect.SQLite).
		Select(t.C("id"), t.C("save_id"), t.C("saved_at"), t.C("document")).
		From(t).
		Where(entsql.EQ(t.C("character_id"), characterID)).
		OrderBy(entsql.Desc(t.C("id")))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query progress history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e       HistoryEntry
			savedAt int64
			raw     string
		)
		if err := rows.Scan(&e.ID, &e.SaveID, &savedAt, &raw); err != nil {
			return nil, fmt.Errorf("scan progress history: %w", err)
		}
		e.SavedAt = time.Unix(0, savedAt).UTC()
		if err := json.Unmarshal([]byte(raw), &e.Document); err != nil {
			return nil, fmt.Errorf("unmarshal progress history %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes all but the keep most recent history entries of a
// character.
func (r *ProgressRepo) Prune(ctx context.Context, characterID string, keep int) error {
	entries, err := r.History(ctx, characterID, keep+1)
	if err != nil {
		return fmt.Errorf("query history for prune: %w", err)
	}
	if len(entries) <= keep {
		return nil // fewer than keep entries exist
	}

	threshold := entries[keep].ID
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(ProgressHistoryTable.Name).
		Where(entsql.And(
			entsql.EQ("character_id", characterID),
			entsql.LTE("id", threshold),
		)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("prune progress history: %w", err)
	}
	return nil
}

// Characters lists every character with saved progress.
func (r *ProgressRepo) Characters(ctx context.Context) ([]string, error) {
	t := entsql.Table(ProgressTable.Name)
	query, args := entsql.Dialect(dialect.SQLite).
		Select(t.C("character_id")).
		From(t).
		OrderBy(entsql.Asc(t.C("character_id"))).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
