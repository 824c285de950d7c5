// Package memstore is a process-local store used in tests and when no
// persistence is configured.
package memstore

import (
	"context"
	"sync"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

// New returns an empty in-memory store.
func New(opts store.Options) store.Store {
	opts = opts.WithDefaults()
	return &memStore{limit: opts.Limit}
}

type memStore struct {
	mu           sync.RWMutex
	limit        int
	moods        []model.MoodEntry
	interactions []model.Interaction
}

func (s *memStore) Moods() store.Moods               { return moods{s} }
func (s *memStore) Interactions() store.Interactions { return interactions{s} }
func (s *memStore) Close() error                     { return nil }

type moods struct{ s *memStore }

func (m moods) Append(_ context.Context, e model.MoodEntry) error {
	e.Activities = append([]string(nil), e.Activities...)
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.moods = store.Tail(append(m.s.moods, e), m.s.limit)
	return nil
}

func (m moods) List(context.Context) ([]model.MoodEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]model.MoodEntry, len(m.s.moods))
	for i, e := range m.s.moods {
		e.Activities = append([]string(nil), e.Activities...)
		out[i] = e
	}
	return out, nil
}

func (m moods) Clear(context.Context) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.moods = nil
	return nil
}

type interactions struct{ s *memStore }

func (x interactions) Append(_ context.Context, in model.Interaction) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	x.s.interactions = store.Tail(append(x.s.interactions, in), x.s.limit)
	return nil
}

func (x interactions) List(context.Context) ([]model.Interaction, error) {
	x.s.mu.RLock()
	defer x.s.mu.RUnlock()
	return append([]model.Interaction{}, x.s.interactions...), nil
}
