package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthPinger is implemented by components with a cheap liveness probe.
// HealthPing returns nil when the component is usable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

const defaultProbeTimeout = 2 * time.Second

// PingChecker caches the result of periodic HealthPing calls.
type PingChecker struct {
	name    string
	pinger  HealthPinger
	timeout time.Duration
	log     zerolog.Logger
	up      atomic.Bool
}

func NewPingChecker(name string, p HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &PingChecker{name: name, pinger: p, timeout: probeTimeout, log: log}
}

func (c *PingChecker) Name() string    { return c.name }
func (c *PingChecker) IsHealthy() bool { return c.up.Load() }

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	Every(ctx, interval, func() { c.probe(ctx) })
}

func (c *PingChecker) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	err := c.pinger.HealthPing(pctx)
	if err != nil {
		c.log.Error().Str("checker", c.name).Err(err).Dur("timeout", c.timeout).Msg("health probe failed")
	}
	c.up.Store(err == nil)
}
