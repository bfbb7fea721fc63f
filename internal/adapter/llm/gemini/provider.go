// Package gemini enhances word records with the Google Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/wordbuddy/internal/adapter/llm"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel   = "gemini-1.5-flash"
)

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Provider calls the generateContent endpoint.
type Provider struct {
	opts   llm.Options
	client *http.Client
	log    *slog.Logger
}

// New creates a Gemini provider.
func New(opts llm.Options, logger *slog.Logger) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	return &Provider{
		opts:   opts,
		client: opts.Client(),
		log:    logger.With("adapter", "gemini"),
	}
}

// Enhance asks Gemini for a simplified definition and translated examples.
func (p *Provider) Enhance(ctx context.Context, in provider.EnhanceInput, apiKey string) (*provider.EnhanceOutput, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: llm.BuildPrompt(in)}},
		}},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: p.opts.MaxTokens,
			Temperature:     p.opts.Temperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(p.opts.BaseURL, "/"), url.PathEscape(p.opts.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read body: %w", err)
	}

	var gr generateResponse
	decodeErr := json.Unmarshal(respBody, &gr)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && gr.Error != nil {
			return nil, fmt.Errorf("gemini: %w", &provider.HTTPError{StatusCode: resp.StatusCode, Body: gr.Error.Message})
		}
		return nil, fmt.Errorf("gemini: %w", &provider.HTTPError{StatusCode: resp.StatusCode})
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", decodeErr)
	}

	if len(gr.Candidates) == 0 || gr.Candidates[0].Content == nil || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}
	text := gr.Candidates[0].Content.Parts[0].Text

	p.log.DebugContext(ctx, "gemini response",
		slog.String("word", in.Word),
		slog.String("finish_reason", gr.Candidates[0].FinishReason),
	)

	out, err := llm.ParseResponse(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return out, nil
}
