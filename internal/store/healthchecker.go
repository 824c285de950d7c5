package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/health"
)

// NewStoreHealthChecker probes s through its own HealthPing when the backend
// has one and otherwise by reading the mood log.
func NewStoreHealthChecker(s Store, log zerolog.Logger, probeTimeout time.Duration) *health.PingChecker {
	return health.NewPingChecker("store", storePinger{s}, log, probeTimeout)
}

type storePinger struct{ s Store }

func (p storePinger) HealthPing(ctx context.Context) error {
	if hp, ok := p.s.(health.HealthPinger); ok {
		return hp.HealthPing(ctx)
	}
	_, err := p.s.Moods().List(ctx)
	return err
}
