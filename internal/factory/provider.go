package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/config"
	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/llm/gemini"
	"github.com/mindflow/mindflow/internal/llm/openrouter"
	"github.com/mindflow/mindflow/internal/usage"
)

// NewProvider builds the configured remote model client. A missing API key
// is not an error: it returns a nil provider and the service runs on the
// keyword fallback alone.
func NewProvider(ctx context.Context, cfg *config.Config, rec usage.Recorder, log zerolog.Logger) (llm.Provider, error) {
	retry := cfg.RetryPolicy()

	var (
		p   llm.Provider
		err error
	)
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		var c *openrouter.Client
		c, err = openrouter.New(openrouter.Config{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.OpenRouterSiteURL,
			SiteName: cfg.OpenRouterSiteName,
			Timeout:  cfg.LLMTimeout,
		}, openrouter.WithRecorder(rec), openrouter.WithRetryPolicy(retry), openrouter.WithLogger(log))
		if err == nil {
			p = c
		}
	case config.ProviderGemini:
		var g *gemini.Provider
		g, err = gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, rec, retry, log)
		if err == nil {
			p = g
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}

	if errors.Is(err, llm.ErrNotConfigured) {
		log.Warn().Str("provider", cfg.LLMProvider).Msg("no API key configured; AI selection disabled, using fallback rules")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", p.Name()).Str("model", cfg.Model()).Msg("remote provider ready")
	return p, nil
}
