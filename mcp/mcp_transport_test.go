//go:build integration
// +build integration

package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/store/memstore"
)

var expectedTools = []string{
	"analyze_mood_patterns",
	"get_journal_prompts",
	"get_emergency_resources",
	"get_mood_context",
	"track_interaction",
	"log_mood",
	"select_components",
}

func initialize(ctx context.Context, t *testing.T, c *client.Client) {
	t.Helper()
	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	if err != nil {
		t.Fatalf("failed to initialize MCP client: %v", err)
	}
}

func assertTools(ctx context.Context, t *testing.T, c *client.Client) {
	t.Helper()
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range expectedTools {
		if !names[want] {
			t.Errorf("expected tool %q not found", want)
		}
	}
}

// TestMCPServerTransports serves the wellness tools over in-process and HTTP transports.
func TestMCPServerTransports(t *testing.T) {
	mcpServer, err := NewServer("test-mcp-server", "1.0.0", memstore.New(store.Options{}), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	t.Run("InProcessTransport", func(t *testing.T) {
		tr := transport.NewInProcessTransport(mcpServer)
		if err := tr.Start(context.Background()); err != nil {
			t.Fatalf("failed to start in-process transport: %v", err)
		}
		defer tr.Close()

		c := client.NewClient(tr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		initialize(ctx, t, c)
		assertTools(ctx, t, c)

		req := mcp.CallToolRequest{}
		req.Params.Name = "log_mood"
		req.Params.Arguments = map[string]any{"mood": "calm", "intensity": 3}
		res, err := c.CallTool(ctx, req)
		if err != nil {
			t.Fatalf("log_mood: %v", err)
		}
		if res.IsError {
			t.Fatalf("log_mood returned tool error: %+v", res.Content)
		}
	})

	t.Run("HTTPTransport", func(t *testing.T) {
		streamSrv := server.NewStreamableHTTPServer(
			mcpServer,
			server.WithEndpointPath("/mcp"),
			server.WithHeartbeatInterval(30*time.Second),
		)
		httpSrv := httptest.NewServer(streamSrv)
		defer httpSrv.Close()

		tr, err := transport.NewStreamableHTTP(httpSrv.URL + "/mcp")
		if err != nil {
			t.Fatalf("failed to create HTTP transport: %v", err)
		}
		if err := tr.Start(context.Background()); err != nil {
			t.Fatalf("failed to start HTTP transport: %v", err)
		}
		defer tr.Close()

		c := client.NewClient(tr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		initialize(ctx, t, c)
		assertTools(ctx, t, c)
	})
}
