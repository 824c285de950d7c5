package store

import (
	"context"

	"github.com/mindflow/mindflow/internal/model"
)

// DefaultNamespace is the key one mood log lives under.
const DefaultNamespace = "mindflow_mood_history"

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., sqlite, postgres, redisstore).
type Store interface {
	Moods() Moods
	Interactions() Interactions
	Close() error
}

// Moods is an append-only log retaining only the newest Options.Limit entries,
// in insertion order. Append+trim is atomic per namespace.
type Moods interface {
	Append(ctx context.Context, e model.MoodEntry) error
	List(ctx context.Context) ([]model.MoodEntry, error)
	Clear(ctx context.Context) error
}

type Interactions interface {
	Append(ctx context.Context, i model.Interaction) error
	List(ctx context.Context) ([]model.Interaction, error)
}

// Options is shared by every backend.
type Options struct {
	Namespace string
	Limit     int
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Limit <= 0 {
		o.Limit = model.HistoryLimit
	}
	return o
}

// InteractionsKey derives the interaction log key from the mood namespace.
func (o Options) InteractionsKey() string { return o.Namespace + ":interactions" }

// Tail returns the last n elements of s (all of s when shorter).
func Tail[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
