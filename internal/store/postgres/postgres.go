// Package postgres stores the logs in PostgreSQL through the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS mood_entries (
        id          BIGSERIAL PRIMARY KEY,
        namespace   TEXT NOT NULL,
        recorded_at TIMESTAMPTZ NOT NULL,
        mood        TEXT NOT NULL,
        intensity   INT NOT NULL,
        activities  JSONB,
        notes       TEXT
    )`,
	`CREATE INDEX IF NOT EXISTS idx_mood_entries_ns ON mood_entries(namespace, id)`,
	`CREATE TABLE IF NOT EXISTS interactions (
        id             BIGSERIAL PRIMARY KEY,
        namespace      TEXT NOT NULL,
        interaction_id TEXT NOT NULL,
        component      TEXT NOT NULL,
        helpful        BOOLEAN NOT NULL,
        feedback       TEXT,
        recorded_at    TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_ns ON interactions(namespace, id)`,
}

// EnsureSchema creates the log tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// NewWithDB applies the schema and returns a store over db.
func NewWithDB(ctx context.Context, db *sql.DB, opts store.Options) (store.Store, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &pgStore{db: db, opts: opts.WithDefaults()}, nil
}

type pgStore struct {
	db   *sql.DB
	opts store.Options
}

func (s *pgStore) Moods() store.Moods               { return &moods{s} }
func (s *pgStore) Interactions() store.Interactions { return &interactions{s} }
func (s *pgStore) Close() error                     { return s.db.Close() }

// HealthPing implements health.HealthPinger for Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

// lockedTx runs fn in a transaction holding an advisory lock on key, so
// concurrent appends to one log are serialized across processes.
func (s *pgStore) lockedTx(ctx context.Context, key string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("advisory lock: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// --- Moods ---
type moods struct{ s *pgStore }

func (m *moods) Append(ctx context.Context, e model.MoodEntry) error {
	var acts []byte
	if len(e.Activities) > 0 {
		b, err := json.Marshal(e.Activities)
		if err != nil {
			return err
		}
		acts = b
	}
	ns := m.s.opts.Namespace
	return m.s.lockedTx(ctx, ns, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO mood_entries (namespace, recorded_at, mood, intensity, activities, notes)
            VALUES ($1,$2,$3,$4,$5,$6)
        `, ns, e.Timestamp.UTC(), string(e.Mood), e.Intensity, nullJSON(acts), e.Notes); err != nil {
			return fmt.Errorf("insert mood entry: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            DELETE FROM mood_entries WHERE namespace = $1 AND id NOT IN (
                SELECT id FROM mood_entries WHERE namespace = $1 ORDER BY id DESC LIMIT $2
            )
        `, ns, m.s.opts.Limit)
		return err
	})
}

func nullJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

func (m *moods) List(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := m.s.db.QueryContext(ctx, `
        SELECT recorded_at, mood, intensity, activities, notes
        FROM mood_entries WHERE namespace = $1 ORDER BY id ASC
    `, m.s.opts.Namespace)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.MoodEntry{}
	for rows.Next() {
		var (
			e     model.MoodEntry
			mood  string
			acts  []byte
			notes sql.NullString
		)
		if err := rows.Scan(&e.Timestamp, &mood, &e.Intensity, &acts, &notes); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		e.Mood = model.Mood(mood)
		e.Notes = notes.String
		if len(acts) > 0 {
			if err := json.Unmarshal(acts, &e.Activities); err != nil {
				return nil, fmt.Errorf("mood entry activities: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (m *moods) Clear(ctx context.Context) error {
	ns := m.s.opts.Namespace
	return m.s.lockedTx(ctx, ns, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM mood_entries WHERE namespace = $1`, ns)
		return err
	})
}

// --- Interactions ---
type interactions struct{ s *pgStore }

func (x *interactions) Append(ctx context.Context, in model.Interaction) error {
	ns := x.s.opts.Namespace
	return x.s.lockedTx(ctx, x.s.opts.InteractionsKey(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO interactions (namespace, interaction_id, component, helpful, feedback, recorded_at)
            VALUES ($1,$2,$3,$4,$5,$6)
        `, ns, in.ID, in.Component, in.Helpful, in.Feedback, in.Timestamp.UTC()); err != nil {
			return fmt.Errorf("insert interaction: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            DELETE FROM interactions WHERE namespace = $1 AND id NOT IN (
                SELECT id FROM interactions WHERE namespace = $1 ORDER BY id DESC LIMIT $2
            )
        `, ns, x.s.opts.Limit)
		return err
	})
}

func (x *interactions) List(ctx context.Context) ([]model.Interaction, error) {
	rows, err := x.s.db.QueryContext(ctx, `
        SELECT interaction_id, component, helpful, feedback, recorded_at
        FROM interactions WHERE namespace = $1 ORDER BY id ASC
    `, x.s.opts.Namespace)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.Interaction{}
	for rows.Next() {
		var (
			in       model.Interaction
			feedback sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.Component, &in.Helpful, &feedback, &in.Timestamp); err != nil {
			return nil, err
		}
		in.Timestamp = in.Timestamp.UTC()
		in.Feedback = feedback.String
		out = append(out, in)
	}
	return out, rows.Err()
}
