// Package health tracks dependency liveness for startup gating and /api/health.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (store, provider).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Every runs fn immediately and then on every tick until ctx is done.
func Every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	fn()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// ServiceHealthChecker is healthy only while every dependency is.
type ServiceHealthChecker struct {
	up   atomic.Bool
	deps []HealthChecker
	log  zerolog.Logger
}

// NewServiceHealthChecker starts out unhealthy until the first evaluation.
func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

func (h *ServiceHealthChecker) IsHealthy() bool { return h.up.Load() }

// Unhealthy names the dependencies currently reporting down.
func (h *ServiceHealthChecker) Unhealthy() []string {
	var down []string
	for _, d := range h.deps {
		if !d.IsHealthy() {
			down = append(down, d.Name())
		}
	}
	return down
}

// Start re-evaluates on every interval and logs only transitions.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	Every(ctx, interval, func() {
		down := h.Unhealthy()
		now := len(down) == 0
		if h.up.Swap(now) == now {
			return
		}
		if now {
			h.log.Info().Int("dependencies", len(h.deps)).Msg("service health: UP")
		} else {
			h.log.Error().Strs("down", down).Msg("service health: DOWN")
		}
	})
}
