// Package sqlite is the default local store, backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

// New opens the database at path, applies the schema and returns a store.
func New(path string, opts store.Options) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewWithDB(db, opts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wires the store to an existing connection.
func NewWithDB(db *sql.DB, opts store.Options) (store.Store, error) {
	// A single connection serializes writers; append+trim runs in one transaction.
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	return &sqliteStore{db: db, opts: opts}, nil
}

type sqliteStore struct {
	db   *sql.DB
	opts store.Options
}

func (s *sqliteStore) Moods() store.Moods               { return &moods{s} }
func (s *sqliteStore) Interactions() store.Interactions { return &interactions{s} }
func (s *sqliteStore) Close() error                     { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqliteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// --- Moods ---
type moods struct{ s *sqliteStore }

func (m *moods) Append(ctx context.Context, e model.MoodEntry) error {
	var acts sql.NullString
	if len(e.Activities) > 0 {
		b, err := json.Marshal(e.Activities)
		if err != nil {
			return err
		}
		acts = sql.NullString{String: string(b), Valid: true}
	}
	ns := m.s.opts.Namespace
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO mood_entries (namespace, recorded_at, mood, intensity, activities, notes)
            VALUES (?,?,?,?,?,?)
        `, ns, e.Timestamp.UTC().Format(time.RFC3339Nano), string(e.Mood), e.Intensity, acts, e.Notes); err != nil {
			return fmt.Errorf("insert mood entry: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            DELETE FROM mood_entries WHERE namespace = ? AND id NOT IN (
                SELECT id FROM mood_entries WHERE namespace = ? ORDER BY id DESC LIMIT ?
            )
        `, ns, ns, m.s.opts.Limit)
		return err
	})
}

func (m *moods) List(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := m.s.db.QueryContext(ctx, `
        SELECT recorded_at, mood, intensity, activities, notes
        FROM mood_entries WHERE namespace = ? ORDER BY id ASC
    `, m.s.opts.Namespace)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.MoodEntry{}
	for rows.Next() {
		var (
			e     model.MoodEntry
			ts    string
			mood  string
			acts  sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&ts, &mood, &e.Intensity, &acts, &notes); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("mood entry timestamp %q: %w", ts, err)
		}
		e.Mood = model.Mood(mood)
		e.Notes = notes.String
		if acts.Valid && acts.String != "" {
			if err := json.Unmarshal([]byte(acts.String), &e.Activities); err != nil {
				return nil, fmt.Errorf("mood entry activities: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (m *moods) Clear(ctx context.Context) error {
	_, err := m.s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE namespace = ?`, m.s.opts.Namespace)
	return err
}

// --- Interactions ---
type interactions struct{ s *sqliteStore }

func (x *interactions) Append(ctx context.Context, in model.Interaction) error {
	ns := x.s.opts.Namespace
	helpful := 0
	if in.Helpful {
		helpful = 1
	}
	return x.s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO interactions (namespace, interaction_id, component, helpful, feedback, recorded_at)
            VALUES (?,?,?,?,?,?)
        `, ns, in.ID, in.Component, helpful, in.Feedback, in.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert interaction: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            DELETE FROM interactions WHERE namespace = ? AND id NOT IN (
                SELECT id FROM interactions WHERE namespace = ? ORDER BY id DESC LIMIT ?
            )
        `, ns, ns, x.s.opts.Limit)
		return err
	})
}

func (x *interactions) List(ctx context.Context) ([]model.Interaction, error) {
	rows, err := x.s.db.QueryContext(ctx, `
        SELECT interaction_id, component, helpful, feedback, recorded_at
        FROM interactions WHERE namespace = ? ORDER BY id ASC
    `, x.s.opts.Namespace)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.Interaction{}
	for rows.Next() {
		var (
			in       model.Interaction
			helpful  int
			feedback sql.NullString
			ts       string
		)
		if err := rows.Scan(&in.ID, &in.Component, &helpful, &feedback, &ts); err != nil {
			return nil, err
		}
		if in.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("interaction timestamp %q: %w", ts, err)
		}
		in.Helpful = helpful == 1
		in.Feedback = feedback.String
		out = append(out, in)
	}
	return out, rows.Err()
}
