package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/store"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverFile     = "file"
	DriverMemory   = "memory"

	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config holds the configuration for the wellness service.
// Environment variables are parsed with the MINDFLOW_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	HTTPPort    int         `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	StoreDriver   string `envconfig:"STORE_DRIVER" default:"auto"`
	DataDir       string `envconfig:"DATA_DIR" default:""`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN   string `envconfig:"POSTGRES_DSN" default:""`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	Namespace     string `envconfig:"NAMESPACE" default:"mindflow_mood_history"`
	HistoryLimit  int    `envconfig:"HISTORY_LIMIT" default:"100"`

	// Remote model
	LLMProvider        string        `envconfig:"LLM_PROVIDER" default:"auto"`
	OpenRouterAPIKey   string        `envconfig:"OPENROUTER_API_KEY" default:""`
	OpenRouterBaseURL  string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	OpenRouterModel    string        `envconfig:"OPENROUTER_MODEL" default:"anthropic/claude-sonnet-4.5"`
	OpenRouterSiteURL  string        `envconfig:"OPENROUTER_SITE_URL" default:"https://mindflow-app.com"`
	OpenRouterSiteName string        `envconfig:"OPENROUTER_SITE_NAME" default:"MindFlow"`
	GeminiAPIKey       string        `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel        string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	LLMTemperature     float64       `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	LLMMaxTokens       int           `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	LLMTimeout         time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	SelectorTimeout    time.Duration `envconfig:"SELECTOR_TIMEOUT" default:"30s"`
	RetryMaxAttempts   int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`
	RetryMaxDelay      time.Duration `envconfig:"RETRY_MAX_DELAY" default:"10s"`

	// Health
	HealthIntervalSeconds     int  `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int  `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	HealthProbeProvider       bool `envconfig:"HEALTH_PROBE_PROVIDER" default:"false"`
	BootstrapTimeoutSeconds   int  `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults derives StoreDriver, LLMProvider and paths left on "auto"
// or empty, then validates the result.
func (c *Config) ResolveDefaults() error {
	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = DriverSQLite
	}
	allowedDB := map[string]bool{DriverSQLite: true, DriverPostgres: true, DriverRedis: true, DriverFile: true, DriverMemory: true}
	if !allowedDB[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.StoreDriver == DriverSQLite && c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "mindflow.db")
	}
	if c.StoreDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
	}
	if c.StoreDriver == DriverRedis && c.RedisAddr == "" {
		return fmt.Errorf("STORE_DRIVER=redis requires REDIS_ADDR")
	}
	if c.Namespace == "" {
		c.Namespace = store.DefaultNamespace
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}

	if c.LLMProvider == "" || c.LLMProvider == "auto" {
		c.LLMProvider = ProviderOpenRouter
		if c.OpenRouterAPIKey == "" && c.GeminiAPIKey != "" {
			c.LLMProvider = ProviderGemini
		}
	}
	if c.LLMProvider != ProviderOpenRouter && c.LLMProvider != ProviderGemini {
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0,2], got %v", c.LLMTemperature)
	}
	if c.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLMMaxTokens)
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.RetryBaseDelay > c.RetryMaxDelay {
		return fmt.Errorf("RETRY_BASE_DELAY (%s) exceeds RETRY_MAX_DELAY (%s)", c.RetryBaseDelay, c.RetryMaxDelay)
	}
	if c.HealthIntervalSeconds <= 0 {
		c.HealthIntervalSeconds = 30
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mindflow"
	}
	return filepath.Join(home, ".mindflow")
}

// New creates a Config from MINDFLOW_* environment variables.
// Example: MINDFLOW_HTTP_PORT, MINDFLOW_STORE_DRIVER.
// The unprefixed OPENROUTER_API_KEY and GEMINI_API_KEY are honored when the
// prefixed keys are unset.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MINDFLOW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if cfg.OpenRouterAPIKey == "" {
		cfg.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("store_driver", cfg.StoreDriver).
		Str("namespace", cfg.Namespace).
		Int("history_limit", cfg.HistoryLimit).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.Model()).
		Bool("llm_key_present", cfg.APIKey() != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Dur("selector_timeout", cfg.SelectorTimeout).
		Int("retry_max_attempts", cfg.RetryMaxAttempts).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing: in-memory store,
// no remote credentials, short timeouts.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		LogLevel:                  "debug",
		StoreDriver:               DriverMemory,
		Namespace:                 store.DefaultNamespace,
		HistoryLimit:              100,
		LLMProvider:               ProviderOpenRouter,
		OpenRouterBaseURL:         "http://localhost:0",
		OpenRouterModel:           "anthropic/claude-sonnet-4.5",
		OpenRouterSiteURL:         "https://mindflow-app.com",
		OpenRouterSiteName:        "MindFlow",
		GeminiModel:               "gemini-2.5-flash",
		LLMTemperature:            0.7,
		LLMMaxTokens:              2000,
		LLMTimeout:                5 * time.Second,
		SelectorTimeout:           5 * time.Second,
		RetryMaxAttempts:          3,
		RetryBaseDelay:            time.Millisecond,
		RetryMaxDelay:             5 * time.Millisecond,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}

// Model returns the model name of the selected provider.
func (c *Config) Model() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenRouterModel
}

func (c *Config) RetryPolicy() llm.RetryPolicy {
	return llm.RetryPolicy{
		MaxAttempts: c.RetryMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.RetryMaxDelay,
	}
}

func (c *Config) ChatOptions() llm.Options {
	return llm.Options{Temperature: c.LLMTemperature, MaxTokens: c.LLMMaxTokens}
}

func (c *Config) StoreOptions() store.Options {
	return store.Options{Namespace: c.Namespace, Limit: c.HistoryLimit}
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}
