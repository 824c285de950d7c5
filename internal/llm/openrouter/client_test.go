package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/usage"
)

func fastRetry() llm.RetryPolicy {
	return llm.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithRetryPolicy(fastRetry())}, opts...)
	c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL}, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestChatSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultSiteURL, r.Header.Get("HTTP-Referer"))
		assert.Equal(t, DefaultSiteName, r.Header.Get("X-Title"))

		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, 2000, req.MaxTokens)
		assert.Len(t, req.Messages, 2)

		_, _ = w.Write([]byte(`{"model":"anthropic/claude-sonnet-4.5","choices":[{"message":{"content":"hello there"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	tr := usage.NewTracker(10)
	c := newTestClient(t, srv, WithRecorder(tr))
	out, err := c.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "hi"},
	}, llm.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	st := tr.Stats()
	assert.Equal(t, 1, st.TotalRequests)
	assert.Equal(t, 15, st.TotalTokens)
}

func TestChatAcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"created"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	out, err := c.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "created", out)
}

func TestChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"third time"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	out, err := c.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "third time", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatRateLimitExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, "Rate limit exceeded. Please try again in a moment.", err.Error())
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatDoesNotRetryClientErrors(t *testing.T) {
	cases := map[int]string{
		http.StatusUnauthorized: "Invalid API key. Please check your OpenRouter configuration.",
		http.StatusForbidden:    "Access forbidden. Please check your OpenRouter account permissions.",
		http.StatusBadRequest:   "model not found",
	}
	for status, want := range cases {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
		}))

		c := newTestClient(t, srv)
		_, err := c.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
		srv.Close()

		var pe *llm.ProviderError
		require.True(t, errors.As(err, &pe), "status %d", status)
		assert.Equal(t, status, pe.StatusCode)
		assert.Equal(t, want, pe.Message)
		assert.Equal(t, int32(1), calls.Load(), "status %d", status)
	}
}

func TestChatEmptyChoicesIsMalformed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.Error(t, err)
	assert.True(t, llm.IsIrrecoverable(err))
	assert.Equal(t, int32(1), calls.Load())
}
