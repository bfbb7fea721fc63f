package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbuddy/internal/adapter/llm"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

func newTestProvider(baseURL string) *Provider {
	return New(llm.Options{
		Model:       "gemini-test",
		BaseURL:     baseURL,
		MaxTokens:   600,
		Temperature: 0.7,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func input() provider.EnhanceInput {
	return provider.EnhanceInput{Word: "crate", Definition: "A large box.", PartOfSpeech: "noun", TargetLanguage: "zh-CN"}
}

func TestProvider_Enhance_Success(t *testing.T) {
	t.Parallel()

	reply := "```json\n" + `{"simplifiedDefinition":"A big box.","examples":[{"english":"e1","translation":"t1"},{"english":"e2","translation":"t2"}]}` + "\n```"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "crate")
		assert.Equal(t, 600, req.GenerationConfig.MaxOutputTokens)
		assert.InDelta(t, 0.7, req.GenerationConfig.Temperature, 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{
				Content:      &content{Role: "model", Parts: []part{{Text: reply}}},
				FinishReason: "STOP",
			}},
		})
	}))
	defer srv.Close()

	out, err := newTestProvider(srv.URL).Enhance(context.Background(), input(), "secret")
	require.NoError(t, err)
	assert.Equal(t, "A big box.", out.SimplifiedDefinition)
	assert.Len(t, out.Examples, 2)
}

func TestProvider_Enhance_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Enhance(context.Background(), input(), "bad")

	var httpErr *provider.HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "API key not valid", httpErr.Body)
}

func TestProvider_Enhance_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Enhance(context.Background(), input(), "k")
	assert.Error(t, err)
}

func TestProvider_Enhance_NonJSONText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I can't do that."}]}}]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Enhance(context.Background(), input(), "k")
	assert.ErrorIs(t, err, llm.ErrNoJSON)
}
