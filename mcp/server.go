// Package mcp serves the wellness tools to MCP hosts over stdio or
// streamable HTTP. Tools run in-process against the configured mood store.
package mcp

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appconfig "github.com/mindflow/mindflow/internal/config"
	"github.com/mindflow/mindflow/internal/factory"
	"github.com/mindflow/mindflow/internal/logger"
	"github.com/mindflow/mindflow/internal/services"
	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/mcp/internal/handlers"
)

// serverConfig holds transport settings; storage comes from the shared config.
type serverConfig struct {
	ServerName       string        `envconfig:"MCP_SERVER_NAME" default:"mindflow-mcp-server"`
	ServerVersion    string        `envconfig:"MCP_SERVER_VERSION" default:"0.1.0"`
	HTTPAddr         string        `envconfig:"MCP_HTTP_ADDR" default:":11546"`
	ShutdownTimeout  time.Duration `envconfig:"MCP_SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout  time.Duration `envconfig:"MCP_HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout  time.Duration `envconfig:"MCP_HTTP_IDLE_TIMEOUT" default:"120s"`
	HeartbeatSeconds int           `envconfig:"MCP_HEARTBEAT_SECONDS" default:"30"`
}

func loadServerConfig() (*serverConfig, error) {
	var c serverConfig
	if err := envconfig.Process("MINDFLOW", &c); err != nil {
		return nil, err
	}
	// Command line flags override env vars
	flag.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "Listen address for the streamable HTTP transport")
	flag.Parse()
	return &c, nil
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds an MCP server with every wellness tool registered.
func NewServer(name, version string, st store.Store, lg zerolog.Logger) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		// Advertise empty resources & prompts so hosts stop returning
		// -32601 for resources/list and prompts/list.
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)

	regs := []struct {
		name string
		h    toolRegisterer
	}{
		{"mood", handlers.NewMoodHandler(services.NewMoodService(st, lg))},
		{"wellness", handlers.NewWellnessHandler()},
		{"interaction", handlers.NewInteractionHandler(services.NewInteractionService(st))},
	}
	for _, r := range regs {
		if err := r.h.RegisterTools(s); err != nil {
			lg.Error().Err(err).Str("handler", r.name).Msg("Failed to register tools")
			return nil, err
		}
	}
	return s, nil
}

// RunMCPServer starts the MCP server and blocks until the transport ends.
func RunMCPServer() error {
	// stdout belongs to the stdio transport
	lg := logger.NewWithWriter(os.Stderr, "mindflow-mcp-server")
	log.Logger = lg

	cfg, err := appconfig.New()
	if err != nil {
		lg.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		lg.Warn().Err(err).Msg("invalid log level; using info")
	}
	scfg, err := loadServerConfig()
	if err != nil {
		lg.Error().Err(err).Msg("Failed to load MCP server configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(ctx, cfg, lg)
	if err != nil {
		lg.Error().Stack().Err(err).Str("driver", cfg.StoreDriver).Msg("Store adapter unavailable")
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			lg.Warn().Err(err).Msg("store close failed")
		}
	}()

	s, err := NewServer(scfg.ServerName, scfg.ServerVersion, st, lg)
	if err != nil {
		return err
	}

	if shouldUseStdio() {
		lg.Info().Str("store_driver", cfg.StoreDriver).Msg("Starting MindFlow MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(ctx, scfg, s, lg)
}

func serveHTTP(ctx context.Context, cfg *serverConfig, s *server.MCPServer, lg zerolog.Logger) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(time.Duration(cfg.HeartbeatSeconds)*time.Second),
	)
	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     streamSrv,
		ReadTimeout: cfg.HTTPReadTimeout,
		// No write deadline; streaming responses stay open.
		WriteTimeout: 0,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", cfg.HTTPAddr).Msg("Starting MindFlow MCP server (Streamable HTTP)")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		lg.Error().Err(err).Msg("HTTP server error")
		return err
	case <-ctx.Done():
	}

	lg.Info().Msg("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("Error during HTTP server shutdown")
	}
	if err := streamSrv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("Error during MCP server shutdown")
	}
	lg.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio determines whether to use stdio transport based on environment
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	// Use stdio if stdin is not a terminal (launched by another process)
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
