package selector

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/components"
	"github.com/mindflow/mindflow/internal/llm"
)

// Source tells which path produced a result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Fallback reasons reported to the Observer.
const (
	ReasonNone              = "none"
	ReasonNotConfigured     = "not_configured"
	ReasonProviderError     = "provider_error"
	ReasonTimeout           = "timeout"
	ReasonNoJSON            = "no_json"
	ReasonMalformedJSON     = "malformed_json"
	ReasonMissingComponents = "missing_components"
	ReasonCrisisGuard       = "crisis_guard"
)

// Placeholder is the reply used whenever the remote path fails.
const Placeholder = "I'm here to support you. Let me share some helpful tools."

// historyWindow is how many prior turns are forwarded to the model.
const historyWindow = 5

// MaxMessageLength caps each message forwarded to the model, in characters.
// Crisis detection and the fallback rules always see the full text.
const MaxMessageLength = 10000

// Observer is notified once per turn.
type Observer interface {
	ObserveTurn(source, reason string)
}

// Result is the outcome of one turn.
type Result struct {
	Response   string                 `json:"response"`
	Components []components.Selection `json:"components"`
	Source     Source                 `json:"source"`
	Reason     string                 `json:"-"`
}

// AISelector asks a remote model to pick widgets and falls back to keyword
// rules on any failure. Select never returns an error.
type AISelector struct {
	provider llm.Provider
	opts     llm.Options
	timeout  time.Duration
	observer Observer
	log      zerolog.Logger
}

// Option configures an AISelector.
type Option func(*AISelector) error

// WithObserver reports each turn's source and fallback reason.
func WithObserver(o Observer) Option {
	return func(s *AISelector) error {
		if o == nil {
			return fmt.Errorf("observer must not be nil")
		}
		s.observer = o
		return nil
	}
}

// WithTimeout bounds the remote call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(s *AISelector) error {
		if d <= 0 {
			return fmt.Errorf("selector timeout must be > 0")
		}
		s.timeout = d
		return nil
	}
}

// WithChatOptions overrides sampling settings.
func WithChatOptions(o llm.Options) Option {
	return func(s *AISelector) error {
		s.opts = o
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *AISelector) error {
		s.log = l
		return nil
	}
}

type nopObserver struct{}

func (nopObserver) ObserveTurn(string, string) {}

// NewAISelector builds a selector. A nil provider means AI is unavailable and
// every turn takes the fallback path.
func NewAISelector(p llm.Provider, opts ...Option) (*AISelector, error) {
	s := &AISelector{
		provider: p,
		opts:     llm.DefaultOptions(),
		timeout:  30 * time.Second,
		observer: nopObserver{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Available reports whether a remote provider is configured.
func (s *AISelector) Available() bool { return s.provider != nil }

// Select runs one turn. history holds prior user/assistant turns, oldest first.
func (s *AISelector) Select(ctx context.Context, message string, history []llm.Message) Result {
	if s.provider == nil {
		return s.fallback(message, ReasonNotConfigured)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Chat(callCtx, buildMessages(message, history), s.opts)
	if err != nil {
		reason := ReasonProviderError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		ev := s.log.Warn().Err(err).Str("provider", s.provider.Name())
		var pe *llm.ProviderError
		if errors.As(err, &pe) {
			ev = ev.Str("detail", pe.Detail())
		}
		ev.Msg("remote selection failed; using fallback")
		return s.fallback(message, reason)
	}

	rep, err := extractReply(text)
	if err != nil {
		s.log.Warn().Err(err).Int("reply_len", len(text)).Msg("unusable model reply; using fallback")
		return s.fallback(message, reasonFor(err))
	}
	if len(rep.Dropped) > 0 {
		s.log.Debug().Strs("dropped", rep.Dropped).Msg("model proposed unknown components")
	}

	res := Result{Response: rep.Response, Components: rep.Components, Source: SourceAI, Reason: ReasonNone}
	if IsCrisis(message) {
		res.Components = []components.Selection{crisisPick()}
		res.Reason = ReasonCrisisGuard
	}
	s.observer.ObserveTurn(string(res.Source), res.Reason)
	return res
}

func (s *AISelector) fallback(message, reason string) Result {
	s.observer.ObserveTurn(string(SourceFallback), reason)
	return Result{
		Response:   Placeholder,
		Components: Fallback(message),
		Source:     SourceFallback,
		Reason:     reason,
	}
}

// buildMessages assembles system prompt, the recent history window and the new message.
func buildMessages(message string, history []llm.Message) []llm.Message {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt()})
	for _, h := range history {
		msgs = append(msgs, llm.Message{Role: h.Role, Content: truncate(h.Content, MaxMessageLength)})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: truncate(message, MaxMessageLength)})
	return msgs
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
