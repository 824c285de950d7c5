package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/config"
	storepkg "github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/store/filestore"
	"github.com/mindflow/mindflow/internal/store/memstore"
	storepg "github.com/mindflow/mindflow/internal/store/postgres"
	"github.com/mindflow/mindflow/internal/store/redisstore"
	"github.com/mindflow/mindflow/internal/store/sqlite"
)

// NewStore returns the store selected by cfg.StoreDriver.
// For Postgres an async bootstrap check is launched; the store is returned immediately.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	opts := cfg.StoreOptions()

	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; mood history is lost on restart")
		return memstore.New(opts), nil

	case config.DriverFile:
		return filestore.New(cfg.DataDir, opts)

	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath, opts)

	case config.DriverRedis:
		return redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, opts)

	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("MINDFLOW_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		// Open synchronously since health checks need it immediately
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		s, err := storepg.NewWithDB(ctx, db, opts)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		go func() {
			bootstrapCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.BootstrapTimeoutSeconds)*time.Second)
			defer cancel()
			if err := storepg.Bootstrap(bootstrapCtx, cfg.PostgresDSN); err != nil {
				log.Warn().Err(err).Msg("postgres bootstrap failed")
			} else {
				log.Debug().Msg("postgres bootstrap completed")
			}
		}()
		return s, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
}
