package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database at path with WAL journaling and
// a busy timeout so concurrent writers wait instead of failing.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the log tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mood_entries (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            namespace   TEXT NOT NULL,
            recorded_at TEXT NOT NULL,
            mood        TEXT NOT NULL,
            intensity   INTEGER NOT NULL,
            activities  TEXT,
            notes       TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_mood_entries_ns ON mood_entries(namespace, id);`,
		`CREATE TABLE IF NOT EXISTS interactions (
            id             INTEGER PRIMARY KEY AUTOINCREMENT,
            namespace      TEXT NOT NULL,
            interaction_id TEXT NOT NULL,
            component      TEXT NOT NULL,
            helpful        INTEGER NOT NULL,
            feedback       TEXT,
            recorded_at    TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_ns ON interactions(namespace, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}
