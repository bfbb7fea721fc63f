// Package app wires configuration, storage, adapters and services into a
// runnable application. Both the HTTP server and the CLI build on App.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordbuddy/internal/adapter/llm"
	"github.com/heartmarshall/wordbuddy/internal/adapter/llm/claude"
	"github.com/heartmarshall/wordbuddy/internal/adapter/llm/gemini"
	"github.com/heartmarshall/wordbuddy/internal/adapter/llm/openai"
	"github.com/heartmarshall/wordbuddy/internal/adapter/provider/freedict"
	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
	"github.com/heartmarshall/wordbuddy/internal/service/cache"
	"github.com/heartmarshall/wordbuddy/internal/service/dictionary"
	"github.com/heartmarshall/wordbuddy/internal/service/enrichment"
	"github.com/heartmarshall/wordbuddy/internal/service/resolver"
	"github.com/heartmarshall/wordbuddy/internal/service/settings"
	"github.com/heartmarshall/wordbuddy/internal/transport/middleware"
	"github.com/heartmarshall/wordbuddy/internal/transport/rest"
)

// App is the wired application graph.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	storage *storage

	Cache      *cache.Service
	Settings   *settings.Service
	Dictionary *dictionary.Service
	Enrichment *enrichment.Service
	Resolver   *resolver.Service
}

// New opens storage and builds every service. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	cacheSvc := cache.NewService(logger, st.backend(cfg.Cache.Backend), cfg.Cache.TTL, cfg.Cache.Prefix)
	settingsSvc := settings.NewService(logger, st.backend(cfg.Settings.Backend),
		settings.WithEnvOverride(cfg.Settings.EnvOverride),
	)

	source := freedict.NewProvider(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout, logger)
	dictSvc := dictionary.NewService(logger, cacheSvc, source)
	enrichSvc := enrichment.NewService(logger, settingsSvc, newEnhancers(cfg.LLM, logger), cfg.LLM.RequestTimeout)

	return &App{
		cfg:        cfg,
		log:        logger,
		storage:    st,
		Cache:      cacheSvc,
		Settings:   settingsSvc,
		Dictionary: dictSvc,
		Enrichment: enrichSvc,
		Resolver:   resolver.NewService(logger, dictSvc, enrichSvc),
	}, nil
}

func newEnhancers(cfg config.LLMConfig, logger *slog.Logger) map[domain.ProviderID]provider.Enhancer {
	opts := func(model, baseURL string) llm.Options {
		return llm.Options{
			Model:       model,
			BaseURL:     baseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.RequestTimeout,
		}
	}

	return map[domain.ProviderID]provider.Enhancer{
		domain.ProviderGemini: gemini.New(opts(cfg.GeminiModel, cfg.GeminiBaseURL), logger),
		domain.ProviderOpenAI: openai.New(opts(cfg.OpenAIModel, cfg.OpenAIBaseURL), logger),
		domain.ProviderClaude: claude.New(opts(cfg.ClaudeModel, cfg.ClaudeBaseURL), logger),
	}
}

// Handler builds the HTTP API. rl may be nil to disable rate limiting.
func (a *App) Handler(rl *middleware.RateLimiter) http.Handler {
	pingers := make(map[string]rest.Pinger, 2)
	pingers["cache"] = a.storage.backend(a.cfg.Cache.Backend)
	pingers["settings"] = a.storage.backend(a.cfg.Settings.Backend)

	return rest.NewRouter(rest.RouterDeps{
		Logger:          a.log,
		CORS:            a.cfg.CORS,
		RateLimiter:     rl,
		EnrichPerMinute: a.cfg.RateLimit.RefreshPerMinute,
		Health:          rest.NewHealthHandler(pingers, BuildVersion()),
		Words:           rest.NewWordHandler(a.Resolver, a.log),
		Settings:        rest.NewSettingsHandler(a.Settings, a.log),
		Cache:           rest.NewCacheHandler(a.Cache),
	})
}

// Close releases storage handles.
func (a *App) Close() {
	a.storage.Close()
}
