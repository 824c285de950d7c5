// Package redisstore keeps each log as a Redis list of JSON documents.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config, opts store.Options) (store.Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, opts), nil
}

// NewWithClient wraps an existing client. Close closes the client.
func NewWithClient(rdb *redis.Client, opts store.Options) store.Store {
	return &redisStore{rdb: rdb, opts: opts.WithDefaults()}
}

type redisStore struct {
	rdb  *redis.Client
	opts store.Options
}

func (s *redisStore) Moods() store.Moods {
	return &moods{list: list[model.MoodEntry]{rdb: s.rdb, key: s.opts.Namespace, limit: s.opts.Limit}}
}

func (s *redisStore) Interactions() store.Interactions {
	return list[model.Interaction]{rdb: s.rdb, key: s.opts.InteractionsKey(), limit: s.opts.Limit}
}

func (s *redisStore) Close() error { return s.rdb.Close() }

// HealthPing implements health.HealthPinger.
func (s *redisStore) HealthPing(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

// list appends with RPUSH and trims with LTRIM inside one MULTI/EXEC.
type list[T any] struct {
	rdb   *redis.Client
	key   string
	limit int
}

func (l list[T]) Append(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe := l.rdb.TxPipeline()
	pipe.RPush(ctx, l.key, b)
	pipe.LTrim(ctx, l.key, int64(-l.limit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append %s: %w", l.key, err)
	}
	return nil
}

func (l list[T]) List(ctx context.Context) ([]T, error) {
	raw, err := l.rdb.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", l.key, err)
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, fmt.Errorf("redis list %s: element %d: %w", l.key, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

type moods struct{ list[model.MoodEntry] }

func (m *moods) Clear(ctx context.Context) error {
	return m.rdb.Del(ctx, m.key).Err()
}
