package config

import (
	"fmt"
	"slices"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(validBackends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend must be one of %v (got %q)", validBackends, c.Cache.Backend)
	}
	if !slices.Contains(validBackends, c.Settings.Backend) {
		return fmt.Errorf("settings.backend must be one of %v (got %q)", validBackends, c.Settings.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 (got %v)", c.Cache.TTL)
	}
	if c.Cache.Prefix == "" {
		return fmt.Errorf("cache.prefix is required")
	}

	if c.UsesBackend(BackendPostgres) && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when a postgres backend is selected")
	}
	if c.UsesBackend(BackendSQLite) && c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required when a sqlite backend is selected")
	}

	if c.Dictionary.BaseURL == "" {
		return fmt.Errorf("dictionary.base_url is required")
	}
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.RateLimit.RefreshPerMinute <= 0 {
		return fmt.Errorf("rate_limit.refresh_per_minute must be > 0 (got %d)", c.RateLimit.RefreshPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (l *LLMConfig) validate() error {
	if l.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %v)", l.RequestTimeout)
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2] (got %v)", l.Temperature)
	}
	return nil
}
