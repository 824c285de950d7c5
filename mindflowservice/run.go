package mindflowservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/api"
	"github.com/mindflow/mindflow/internal/config"
	"github.com/mindflow/mindflow/internal/factory"
	"github.com/mindflow/mindflow/internal/health"
	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/logger"
	"github.com/mindflow/mindflow/internal/selector"
	"github.com/mindflow/mindflow/internal/services"
	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/usage"
)

// usageKeep is how many recent usage events /api/usage reports.
const usageKeep = 100

// deps are the long-lived collaborators built at startup.
type deps struct {
	store    store.Store
	provider llm.Provider // nil when no credential is configured
	tracker  *usage.Tracker
	metrics  *usage.Metrics
	registry *prometheus.Registry
}

// Run starts the wellness HTTP service and blocks until shutdown or error.
func Run() error {
	log := logger.New("mindflow-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Msg("invalid log level; using info")
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Str("llm_provider", cfg.LLMProvider).
		Int("http_port", cfg.HTTPPort).
		Msg("MindFlow service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	d, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.store.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	router, healthHandler, err := buildRouter(cfg, d, log)
	if err != nil {
		return err
	}

	svcHealth := startHealthCheckers(ctx, cfg, log, d)
	healthHandler.BindServiceHealth(svcHealth.IsHealthy)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Strs("down", svcHealth.Unhealthy()).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store, usage sinks and remote provider.
// A missing provider credential is tolerated; a broken store is not.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*deps, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Str("driver", cfg.StoreDriver).Msg("Store adapter unavailable")
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	d := &deps{
		store:    st,
		tracker:  usage.NewTracker(usageKeep),
		metrics:  usage.NewMetrics(reg),
		registry: reg,
	}

	d.provider, err = factory.NewProvider(ctx, cfg, usage.Multi{d.tracker, d.metrics}, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Remote provider unavailable")
		_ = st.Close()
		return nil, err
	}
	return d, nil
}

// buildRouter wires services into the HTTP API.
func buildRouter(cfg *config.Config, d *deps, log zerolog.Logger) (http.Handler, *api.HealthHandler, error) {
	sel, err := selector.NewAISelector(d.provider,
		selector.WithObserver(d.metrics),
		selector.WithTimeout(cfg.SelectorTimeout),
		selector.WithChatOptions(cfg.ChatOptions()),
		selector.WithLogger(log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("selector: %w", err)
	}
	chat := services.NewChatService(sel, log)
	healthHandler := api.NewHealthHandler(chat.AIAvailable)

	router := api.NewRouter(api.Deps{
		Chat:         chat,
		Moods:        services.NewMoodService(d.store, log),
		Interactions: services.NewInteractionService(d.store),
		Usage:        d.tracker,
		Health:       healthHandler,
		Gatherer:     d.registry,
		Log:          log,
	})
	return router, healthHandler, nil
}

// startHealthCheckers starts component checkers and the service-level aggregator.
// The provider is probed only when explicitly enabled since each probe spends tokens.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, d *deps) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(d.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if cfg.HealthProbeProvider && d.provider != nil {
		if p, ok := d.provider.(health.HealthPinger); ok {
			pc := health.NewPingChecker("provider", p, log, probeTimeout)
			go pc.Start(ctx, interval)
			checkers = append(checkers, pc)
		}
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Chat turns may wait on the selector timeout plus retries.
		WriteTimeout: cfg.SelectorTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns interval*2 seconds with a 60 second floor.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth interface{ IsHealthy() bool }) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
