package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/domain"
)

const crateJSON = `[{
	"word": "crate",
	"phonetics": [{"text": "/kreɪt/", "audio": "//ssl.gstatic.com/crate.mp3"}],
	"meanings": [{
		"partOfSpeech": "noun",
		"definitions": [{"definition": "A large wooden box.", "example": "A crate of apples."}]
	}]
}]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDictServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/crate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, crateJSON)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(dictURL string) *config.Config {
	return &config.Config{
		CORS:       config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST", AllowedHeaders: "Content-Type"},
		RateLimit:  config.RateLimitConfig{RefreshPerMinute: 10, CleanupInterval: time.Minute},
		Dictionary: config.DictionaryConfig{BaseURL: dictURL, Timeout: 5 * time.Second},
		Cache:      config.CacheConfig{Backend: config.BackendMemory, TTL: time.Hour, Prefix: "wordbuddy-cache-"},
		Settings:   config.SettingsConfig{Backend: config.BackendMemory},
		LLM: config.LLMConfig{
			RequestTimeout: 5 * time.Second,
			MaxTokens:      600,
			Temperature:    0.7,
			GeminiModel:    "gemini-test",
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestApp_ResolveWithoutKeys(t *testing.T) {
	var calls atomic.Int32
	dict := newDictServer(t, &calls)
	a := newTestApp(t, testConfig(dict.URL))

	rec, err := a.Resolver.Resolve(context.Background(), "Crate")
	require.NoError(t, err)
	assert.Equal(t, "crate", rec.Word)
	assert.Equal(t, "https://ssl.gstatic.com/crate.mp3", rec.AudioURL)
	assert.Equal(t, domain.EnrichmentFailed, rec.EnrichmentState)

	_, err = a.Resolver.Resolve(context.Background(), "crate")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestApp_ResolveWithGemini(t *testing.T) {
	var calls atomic.Int32
	dict := newDictServer(t, &calls)

	reply := `{"simplifiedDefinition":"A big box.","examples":[{"english":"Put it in the crate.","translation":"x"},{"english":"The crate is heavy.","translation":"y"}]}`
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "gem-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]string{{"text": reply}}},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(llmSrv.Close)

	cfg := testConfig(dict.URL)
	cfg.LLM.GeminiBaseURL = llmSrv.URL
	a := newTestApp(t, cfg)

	require.NoError(t, a.Settings.SetAPIKey(context.Background(), domain.ProviderGemini, "gem-key"))

	rec, err := a.Resolver.Resolve(context.Background(), "crate")
	require.NoError(t, err)
	assert.Equal(t, domain.EnrichmentSucceeded, rec.EnrichmentState)
	assert.Equal(t, "A big box.", rec.SimplifiedDefinition)
	assert.Len(t, rec.Examples, 2)
}

func TestApp_Handler(t *testing.T) {
	var calls atomic.Int32
	dict := newDictServer(t, &calls)
	a := newTestApp(t, testConfig(dict.URL))

	h := a.Handler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/words/crate?enrich=false", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enrichmentState":"not_attempted"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/words/qwzx", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache"`)
	assert.Contains(t, rec.Body.String(), `"settings"`)
}

func TestApp_SQLiteBackendShared(t *testing.T) {
	var calls atomic.Int32
	dict := newDictServer(t, &calls)

	cfg := testConfig(dict.URL)
	cfg.Cache.Backend = config.BackendSQLite
	cfg.Settings.Backend = config.BackendSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "wordbuddy.db")

	a := newTestApp(t, cfg)

	require.Len(t, a.storage.backends, 1)
	require.NoError(t, a.Settings.SetTargetLanguage(context.Background(), "de"))
	assert.Equal(t, "de", a.Settings.TargetLanguage(context.Background()))

	_, err := a.Resolver.Lookup(context.Background(), "crate")
	require.NoError(t, err)
	_, ok := a.Cache.Get(context.Background(), "crate")
	assert.True(t, ok)

	a.Cache.Clear(context.Background())
	_, ok = a.Cache.Get(context.Background(), "crate")
	assert.False(t, ok)
	assert.Equal(t, "de", a.Settings.TargetLanguage(context.Background()))
}

func TestApp_UnknownBackend(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.Cache.Backend = "redis"

	_, err := New(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestMigrate_NoPostgres(t *testing.T) {
	require.NoError(t, Migrate(context.Background(), testConfig("http://127.0.0.1:0"), discardLogger()))
}

func TestApp_ServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.Server = config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
