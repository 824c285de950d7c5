// Package llm defines the boundary to remote chat-completion providers.
package llm

import (
	"context"
	"errors"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the three chat roles.
func (r Role) Valid() bool {
	return r == RoleSystem || r == RoleUser || r == RoleAssistant
}

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// DefaultOptions returns the sampling settings used when a caller has no preference.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, MaxTokens: 2000}
}

// Provider produces a single assistant reply for a conversation.
type Provider interface {
	Name() string
	Chat(ctx context.Context, msgs []Message, opts Options) (string, error)
}

// ErrNotConfigured is returned when a provider is built without credentials.
var ErrNotConfigured = errors.New("llm provider not configured")
