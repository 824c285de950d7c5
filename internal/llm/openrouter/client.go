// Package openrouter implements llm.Provider against the OpenRouter chat completions API.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/usage"
)

const (
	DefaultBaseURL  = "https://openrouter.ai/api/v1"
	DefaultModel    = "anthropic/claude-sonnet-4.5"
	DefaultSiteURL  = "https://mindflow-app.com"
	DefaultSiteName = "MindFlow"

	displayName = "OpenRouter"
)

// Config holds connection settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	SiteURL  string
	SiteName string
	Timeout  time.Duration
}

// Client calls OpenRouter with retry and usage reporting.
type Client struct {
	http     *resty.Client
	model    string
	retry    llm.RetryPolicy
	recorder usage.Recorder
	log      zerolog.Logger
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithRecorder reports token usage of every successful completion to r.
func WithRecorder(r usage.Recorder) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("recorder must not be nil")
		}
		c.recorder = r
		return nil
	}
}

// WithRetryPolicy overrides the default three-attempt policy.
func WithRetryPolicy(p llm.RetryPolicy) Option {
	return func(c *Client) error {
		if p.MaxAttempts <= 0 {
			return fmt.Errorf("retry attempts must be > 0")
		}
		c.retry = p
		return nil
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// New returns a client. It fails with llm.ErrNotConfigured when no API key is set.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenRouter API key is not set", llm.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = DefaultSiteURL
	}
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey).
		SetHeader("HTTP-Referer", cfg.SiteURL).
		SetHeader("X-Title", cfg.SiteName).
		SetTimeout(cfg.Timeout)

	c := &Client{
		http:     hc,
		model:    cfg.Model,
		retry:    llm.DefaultRetryPolicy(),
		recorder: usage.Nop{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Name() string { return "openrouter" }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

var errNoChoices = errors.New("no completion returned")

// Chat sends msgs and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, msgs []llm.Message, opts llm.Options) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	policy := c.retry
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("openrouter request failed, retrying")
	}

	var content string
	err := llm.Retry(ctx, policy, func(ctx context.Context) error {
		out, err := c.complete(ctx, &req)
		if err != nil {
			return err
		}
		content = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, req *chatRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", llm.NewNetworkError("openrouter chat", err)
	}
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		var er errorResponse
		_ = json.Unmarshal(resp.Body(), &er)
		return "", llm.ClassifyStatus(displayName, resp.StatusCode(), er.Error.Message)
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", llm.NewMalformedError("openrouter chat", fmt.Errorf("decode response: %w", err))
	}
	if len(cr.Choices) == 0 {
		return "", llm.NewMalformedError("openrouter chat", errNoChoices)
	}

	if cr.Usage != nil {
		model := cr.Model
		if model == "" {
			model = c.model
		}
		c.recorder.Record(usage.Event{
			Timestamp:        time.Now(),
			Provider:         c.Name(),
			Model:            model,
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
			TotalTokens:      cr.Usage.TotalTokens,
			EstimatedCost:    usage.EstimateCost(cr.Usage.TotalTokens),
		})
	}
	return cr.Choices[0].Message.Content, nil
}

// HealthPing sends a tiny completion without retries. It spends tokens, so
// callers should only probe when explicitly enabled.
func (c *Client) HealthPing(ctx context.Context) error {
	req := chatRequest{
		Model:     c.model,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: `Hello! Please respond with "ok" if you can read this.`}},
		MaxTokens: 10,
	}
	_, err := c.complete(ctx, &req)
	return err
}
