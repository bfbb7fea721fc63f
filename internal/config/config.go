package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Settings   SettingsConfig   `yaml:"settings"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
}

// Storage backends for the cache and the settings store.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the HTTP API.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// RateLimitConfig bounds how often a single client can trigger LLM calls.
type RateLimitConfig struct {
	RefreshPerMinute int           `yaml:"refresh_per_minute" env:"RATE_LIMIT_REFRESH_PER_MINUTE" env-default:"10"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"   env:"RATE_LIMIT_CLEANUP_INTERVAL"   env-default:"5m"`
}

// DictionaryConfig holds dictionary source settings.
type DictionaryConfig struct {
	BaseURL string        `yaml:"base_url" env:"DICT_BASE_URL" env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout time.Duration `yaml:"timeout"  env:"DICT_TIMEOUT"  env-default:"10s"`
}

// CacheConfig holds word cache settings.
type CacheConfig struct {
	Backend string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"sqlite"`
	TTL     time.Duration `yaml:"ttl"     env:"CACHE_TTL"     env-default:"168h"`
	Prefix  string        `yaml:"prefix"  env:"CACHE_PREFIX"  env-default:"wordbuddy-cache-"`
}

// SettingsConfig holds settings store (API keys, provider order, language) options.
type SettingsConfig struct {
	Backend string `yaml:"backend" env:"SETTINGS_BACKEND" env-default:"sqlite"`
	// EnvOverride lets WORDBUDDY_<PROVIDER>_API_KEY win over stored keys (local development).
	EnvOverride bool `yaml:"env_override" env:"SETTINGS_ENV_OVERRIDE" env-default:"false"`
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./data/wordbuddy.db"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when a
// backend is set to "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// LLMConfig holds per-provider model and endpoint settings. API keys are not
// part of the static config; they live in the settings store.
type LLMConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"30s"`
	MaxTokens      int           `yaml:"max_tokens"      env:"LLM_MAX_TOKENS"      env-default:"600"`
	Temperature    float64       `yaml:"temperature"     env:"LLM_TEMPERATURE"     env-default:"0.7"`

	GeminiModel   string `yaml:"gemini_model"    env:"LLM_GEMINI_MODEL"    env-default:"gemini-1.5-flash"`
	GeminiBaseURL string `yaml:"gemini_base_url" env:"LLM_GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/models"`
	OpenAIModel   string `yaml:"openai_model"    env:"LLM_OPENAI_MODEL"    env-default:"gpt-4o-mini"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"LLM_OPENAI_BASE_URL"`
	ClaudeModel   string `yaml:"claude_model"    env:"LLM_CLAUDE_MODEL"    env-default:"claude-3-5-haiku-latest"`
	ClaudeBaseURL string `yaml:"claude_base_url" env:"LLM_CLAUDE_BASE_URL"`
}

// UsesBackend reports whether the cache or the settings store is configured
// for the given backend.
func (c *Config) UsesBackend(backend string) bool {
	return c.Cache.Backend == backend || c.Settings.Backend == backend
}
