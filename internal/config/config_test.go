package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var managedEnv = []string{
	"MINDFLOW_STORE_DRIVER", "MINDFLOW_SQLITE_PATH", "MINDFLOW_DATA_DIR", "MINDFLOW_POSTGRES_DSN",
	"MINDFLOW_LLM_PROVIDER", "MINDFLOW_OPENROUTER_API_KEY", "MINDFLOW_GEMINI_API_KEY",
	"OPENROUTER_API_KEY", "GEMINI_API_KEY", "MINDFLOW_HTTP_PORT", "MINDFLOW_RETRY_BASE_DELAY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINDFLOW_DATA_DIR", t.TempDir())

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.StoreDriver != DriverSQLite || cfg.LLMProvider != ProviderOpenRouter {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SQLitePath != filepath.Join(cfg.DataDir, "mindflow.db") {
		t.Fatalf("sqlite path not derived from data dir: %s", cfg.SQLitePath)
	}
	rp := cfg.RetryPolicy()
	if rp.MaxAttempts != 3 || rp.BaseDelay != time.Second || rp.MaxDelay != 10*time.Second {
		t.Fatalf("unexpected retry policy: %+v", rp)
	}
	if opts := cfg.ChatOptions(); opts.Temperature != 0.7 || opts.MaxTokens != 2000 {
		t.Fatalf("unexpected chat options: %+v", opts)
	}
	if cfg.SelectorTimeout != 30*time.Second {
		t.Fatalf("unexpected selector timeout: %s", cfg.SelectorTimeout)
	}
	if so := cfg.StoreOptions(); so.Limit != 100 || so.Namespace != "mindflow_mood_history" {
		t.Fatalf("unexpected store options: %+v", so)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINDFLOW_HTTP_PORT", "9191")
	t.Setenv("MINDFLOW_STORE_DRIVER", "memory")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9191 || cfg.GetHTTPAddr() != ":9191" || cfg.StoreDriver != DriverMemory {
		t.Fatalf("env override failed: %+v", cfg)
	}
}

func TestConfigLoad_UnprefixedKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINDFLOW_STORE_DRIVER", "memory")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.LLMProvider != ProviderGemini || cfg.APIKey() != "g-key" || cfg.Model() != "gemini-2.5-flash" {
		t.Fatalf("auto provider should pick gemini when only its key is set: %+v", cfg)
	}
}

func TestResolveDefaults_Errors(t *testing.T) {
	cases := map[string]func(c *Config){
		"unknown driver":     func(c *Config) { c.StoreDriver = "mongo" },
		"postgres no dsn":    func(c *Config) { c.StoreDriver = DriverPostgres },
		"unknown provider":   func(c *Config) { c.LLMProvider = "ollama" },
		"temperature":        func(c *Config) { c.LLMTemperature = 3 },
		"zero attempts":      func(c *Config) { c.RetryMaxAttempts = 0 },
		"base over max":      func(c *Config) { c.RetryBaseDelay = time.Minute },
		"non-positive limit": func(c *Config) { c.HistoryLimit = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewForTesting()
			mutate(c)
			if err := c.ResolveDefaults(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewForTesting(t *testing.T) {
	c := NewForTesting()
	if !c.IsTesting() || c.IsProduction() {
		t.Fatalf("unexpected environment %s", c.Environment)
	}
	if err := c.ResolveDefaults(); err != nil {
		t.Fatalf("testing config must resolve: %v", err)
	}
	if c.APIKey() != "" {
		t.Fatalf("testing config must not carry credentials")
	}
}
