package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/transport/middleware"
)

// RouterDeps collects everything NewRouter mounts.
type RouterDeps struct {
	Logger      *slog.Logger
	CORS        config.CORSConfig
	RateLimiter *middleware.RateLimiter
	// EnrichPerMinute is the per-client budget shared by every request that
	// can reach the LLM providers: POST /words/refresh and GET /words/{word}
	// unless enrich=false.
	EnrichPerMinute int

	Health   *HealthHandler
	Words    *WordHandler
	Settings *SettingsHandler
	Cache    *CacheHandler
}

// NewRouter builds the HTTP API.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORS),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)

	var limit middleware.Middleware
	if d.RateLimiter != nil {
		limit = d.RateLimiter.Limit(d.EnrichPerMinute)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.Chain(unlessDictionaryOnly(limit))).Get("/words/{word}", d.Words.Get)
		r.With(middleware.Chain(limit)).Post("/words/refresh", d.Words.Refresh)

		r.Delete("/cache", d.Cache.Clear)

		r.Get("/settings", d.Settings.Get)
		r.Put("/settings", d.Settings.Update)
		r.Delete("/settings/api-keys", d.Settings.ClearAPIKeys)
	})

	return r
}

// unlessDictionaryOnly applies limit except to lookups that opt out of
// enrichment with ?enrich=false. Unparsable values stay limited; the handler
// rejects them.
func unlessDictionaryOnly(limit middleware.Middleware) middleware.Middleware {
	if limit == nil {
		return nil
	}
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enrich, err := strconv.ParseBool(r.URL.Query().Get("enrich")); err == nil && !enrich {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}
