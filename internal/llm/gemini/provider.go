// Package gemini implements llm.Provider with the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/usage"
)

const (
	DefaultModel = "gemini-2.5-flash"
	displayName  = "Gemini"
)

// generator is the slice of genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider talks to the Gemini API.
type Provider struct {
	models   generator
	model    string
	retry    llm.RetryPolicy
	recorder usage.Recorder
	log      zerolog.Logger
}

// Config holds connection settings.
type Config struct {
	APIKey string
	Model  string
}

// New builds a provider. It fails with llm.ErrNotConfigured when no API key is set.
func New(ctx context.Context, cfg Config, recorder usage.Recorder, retry llm.RetryPolicy, log zerolog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is not set", llm.ErrNotConfigured)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithModels(client.Models, cfg.Model, recorder, retry, log), nil
}

func newWithModels(models generator, model string, recorder usage.Recorder, retry llm.RetryPolicy, log zerolog.Logger) *Provider {
	if model == "" {
		model = DefaultModel
	}
	if recorder == nil {
		recorder = usage.Nop{}
	}
	return &Provider{models: models, model: model, retry: retry, recorder: recorder, log: log}
}

func (p *Provider) Name() string { return "gemini" }

// Chat maps system messages onto the system instruction and the rest onto
// user/model contents.
func (p *Provider) Chat(ctx context.Context, msgs []llm.Message, opts llm.Options) (string, error) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
		MaxOutputTokens:  int32(opts.MaxTokens),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	policy := p.retry
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		p.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("gemini request failed, retrying")
	}

	var text string
	err := llm.Retry(ctx, policy, func(ctx context.Context) error {
		res, err := p.models.GenerateContent(ctx, p.model, contents, config)
		if err != nil {
			return classify(err)
		}
		if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
			return llm.NewMalformedError("gemini generate", errors.New("no candidates returned"))
		}
		var b strings.Builder
		for _, part := range res.Candidates[0].Content.Parts {
			b.WriteString(part.Text)
		}
		text = b.String()
		p.recordUsage(res.UsageMetadata)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (p *Provider) recordUsage(md *genai.GenerateContentResponseUsageMetadata) {
	if md == nil {
		return
	}
	total := int(md.TotalTokenCount)
	p.recorder.Record(usage.Event{
		Timestamp:        time.Now(),
		Provider:         p.Name(),
		Model:            p.model,
		PromptTokens:     int(md.PromptTokenCount),
		CompletionTokens: int(md.CandidatesTokenCount),
		TotalTokens:      total,
		EstimatedCost:    usage.EstimateCost(total),
	})
}

// classify turns SDK errors into llm.ProviderError so retry can decide.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.ClassifyStatus(displayName, apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return llm.ClassifyStatus(displayName, apiErrPtr.Code, apiErrPtr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return llm.NewNetworkError("gemini generate", err)
}
