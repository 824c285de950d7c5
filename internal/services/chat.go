package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/components"
	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/selector"
)

// MaxMessageLength caps user and history content sent to the model, in characters.
const MaxMessageLength = selector.MaxMessageLength

type ChatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history,omitempty"`
}

type ChatResponse struct {
	Response    string                 `json:"response"`
	Components  []components.Selection `json:"components"`
	Source      selector.Source        `json:"source"`
	AIAvailable bool                   `json:"aiAvailable"`
}

type ChatService struct {
	sel *selector.AISelector
	log zerolog.Logger
}

func NewChatService(sel *selector.AISelector, log zerolog.Logger) *ChatService {
	return &ChatService{sel: sel, log: log}
}

// AIAvailable reports whether turns can reach a remote model.
func (s *ChatService) AIAvailable() bool { return s.sel.Available() }

// Turn sanitizes the request and runs one selection. Only malformed input
// produces an error; remote failures degrade to the fallback.
func (s *ChatService) Turn(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	// The full text goes to the selector so crisis keywords past the model
	// cap still count; the selector trims what it forwards.
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return ChatResponse{}, model.Validationf("message is required")
	}
	history := make([]llm.Message, 0, len(req.History))
	for i, h := range req.History {
		if h.Role != llm.RoleUser && h.Role != llm.RoleAssistant {
			return ChatResponse{}, model.Validationf("history[%d]: role must be user or assistant, got %q", i, h.Role)
		}
		history = append(history, llm.Message{Role: h.Role, Content: h.Content})
	}

	res := s.sel.Select(ctx, msg, history)
	s.log.Debug().
		Str("source", string(res.Source)).
		Str("reason", res.Reason).
		Interface("components", components.IDs(res.Components)).
		Msg("chat turn")

	out := ChatResponse{
		Response:    res.Response,
		Components:  res.Components,
		Source:      res.Source,
		AIAvailable: s.sel.Available(),
	}
	if out.Components == nil {
		out.Components = []components.Selection{}
	}
	return out, nil
}
