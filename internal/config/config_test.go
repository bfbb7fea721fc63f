package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "wordbuddy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
  read_timeout: "5s"

log:
  level: "debug"
  format: "text"

dictionary:
  base_url: "http://dict.local/entries/en"
  timeout: "3s"

cache:
  backend: "memory"
  ttl: "24h"

settings:
  backend: "memory"
  env_override: true

llm:
  request_timeout: "15s"
  max_tokens: 400
  gemini_model: "gemini-2.0-flash"
`

// validConfig returns a Config that passes Validate with in-memory backends.
func validConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{BaseURL: "https://api.dictionaryapi.dev/api/v2/entries/en", Timeout: 10 * time.Second},
		Cache:      CacheConfig{Backend: BackendMemory, TTL: 168 * time.Hour, Prefix: "wordbuddy-cache-"},
		Settings:   SettingsConfig{Backend: BackendMemory},
		RateLimit:  RateLimitConfig{RefreshPerMinute: 10, CleanupInterval: 5 * time.Minute},
		LLM:        LLMConfig{RequestTimeout: 30 * time.Second, MaxTokens: 600, Temperature: 0.7},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	if cfg.Dictionary.BaseURL != "http://dict.local/entries/en" {
		t.Errorf("dictionary.base_url = %q", cfg.Dictionary.BaseURL)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("cache.ttl = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Cache.Prefix != "wordbuddy-cache-" {
		t.Errorf("cache.prefix = %q, want default", cfg.Cache.Prefix)
	}
	if !cfg.Settings.EnvOverride {
		t.Error("settings.env_override should be true")
	}

	if cfg.LLM.MaxTokens != 400 {
		t.Errorf("llm.max_tokens = %d, want 400", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("llm.gemini_model = %q", cfg.LLM.GeminiModel)
	}
	if cfg.LLM.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("llm.openai_model = %q, want default", cfg.LLM.OpenAIModel)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache.ttl = %v, want 1h (ENV override)", cfg.Cache.TTL)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("SETTINGS_BACKEND", "memory")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 168*time.Hour {
		t.Errorf("cache.ttl = %v, want 168h (default)", cfg.Cache.TTL)
	}
	if cfg.Dictionary.BaseURL != "https://api.dictionaryapi.dev/api/v2/entries/en" {
		t.Errorf("dictionary.base_url = %q, want default", cfg.Dictionary.BaseURL)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	_, err := LoadFrom("/nonexistent/wordbuddy.yaml")
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_NegativeCleanupInterval(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML+`
rate_limit:
  cleanup_interval: "-1s"
`)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for negative rate_limit.cleanup_interval")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "redis" }},
		{"unknown settings backend", func(c *Config) { c.Settings.Backend = "" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"empty prefix", func(c *Config) { c.Cache.Prefix = "" }},
		{"postgres without dsn", func(c *Config) { c.Cache.Backend = BackendPostgres }},
		{"sqlite without path", func(c *Config) { c.Settings.Backend = BackendSQLite }},
		{"empty dictionary url", func(c *Config) { c.Dictionary.BaseURL = "" }},
		{"zero llm timeout", func(c *Config) { c.LLM.RequestTimeout = 0 }},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 3 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.RefreshPerMinute = 0 }},
		{"negative cleanup interval", func(c *Config) { c.RateLimit.CleanupInterval = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_PostgresWithDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = BackendPostgres
	cfg.Database.DSN = "postgres://u:p@localhost:5432/wordbuddy"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UsesBackend(BackendPostgres) {
		t.Error("UsesBackend(postgres) = false")
	}
	if cfg.UsesBackend(BackendSQLite) {
		t.Error("UsesBackend(sqlite) = true")
	}
}
