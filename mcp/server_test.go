package mcp

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/store/memstore"
)

func TestShouldUseStdioOverrides(t *testing.T) {
	t.Setenv("MCP_STDIO", "true")
	require.True(t, shouldUseStdio())

	t.Setenv("MCP_STDIO", "")
	t.Setenv("MCP_HTTP", "true")
	require.False(t, shouldUseStdio())
}

func TestNewServer(t *testing.T) {
	s, err := NewServer("test", "0.0.0", memstore.New(store.Options{}), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, s)
}
