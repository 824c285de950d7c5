// Package filestore keeps each log as a JSON array in its own file under a
// data directory. Writes go through a temp file and rename.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

// ErrCorrupt is returned by List when a log file is not a JSON array.
var ErrCorrupt = errors.New("filestore: corrupt log file")

// New creates dir if needed and returns a store rooted there.
func New(dir string, opts store.Options) (store.Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}
	opts = opts.WithDefaults()
	return &fileStore{
		dir:          dir,
		limit:        opts.Limit,
		moodPath:     filepath.Join(dir, fileName(opts.Namespace)),
		interactPath: filepath.Join(dir, fileName(opts.InteractionsKey())),
	}, nil
}

func fileName(key string) string {
	return strings.NewReplacer(":", ".", "/", "_", `\`, "_").Replace(key) + ".json"
}

type fileStore struct {
	mu           sync.Mutex
	dir          string
	limit        int
	moodPath     string
	interactPath string
}

func (s *fileStore) Moods() store.Moods               { return moods{s} }
func (s *fileStore) Interactions() store.Interactions { return interactions{s} }
func (s *fileStore) Close() error                     { return nil }

// HealthPing checks that the data directory is still there.
func (s *fileStore) HealthPing(context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("filestore: %s is not a directory", s.dir)
	}
	return nil
}

// load reads a JSON array. A missing file is an empty log.
func load[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](path string, v []T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// appendTo loads, appends, trims and saves under the store lock. A corrupt
// file is replaced by a fresh log.
func appendTo[T any](s *fileStore, path string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := load[T](path)
	if errors.Is(err, ErrCorrupt) {
		cur, err = []T{}, nil
	}
	if err != nil {
		return err
	}
	return save(path, store.Tail(append(cur, v), s.limit))
}

func list[T any](s *fileStore, path string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[T](path)
}

type moods struct{ s *fileStore }

func (m moods) Append(_ context.Context, e model.MoodEntry) error {
	return appendTo(m.s, m.s.moodPath, e)
}

func (m moods) List(context.Context) ([]model.MoodEntry, error) {
	return list[model.MoodEntry](m.s, m.s.moodPath)
}

func (m moods) Clear(context.Context) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := os.Remove(m.s.moodPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type interactions struct{ s *fileStore }

func (x interactions) Append(_ context.Context, in model.Interaction) error {
	return appendTo(x.s, x.s.interactPath, in)
}

func (x interactions) List(context.Context) ([]model.Interaction, error) {
	return list[model.Interaction](x.s, x.s.interactPath)
}
