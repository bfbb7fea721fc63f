// Package openai enhances word records with the OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/wordbuddy/internal/adapter/llm"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

const defaultModel = openai.GPT4oMini

// Provider calls chat completions in JSON mode.
type Provider struct {
	opts llm.Options
	log  *slog.Logger
}

// New creates an OpenAI provider. An empty BaseURL uses the public API.
func New(opts llm.Options, logger *slog.Logger) *Provider {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	return &Provider{
		opts: opts,
		log:  logger.With("adapter", "openai"),
	}
}

// Enhance asks the model for a simplified definition and translated examples.
// The key differs per call, so a client is built per request.
func (p *Provider) Enhance(ctx context.Context, in provider.EnhanceInput, apiKey string) (*provider.EnhanceOutput, error) {
	cfg := openai.DefaultConfig(apiKey)
	if p.opts.BaseURL != "" {
		cfg.BaseURL = p.opts.BaseURL
	}
	cfg.HTTPClient = p.opts.Client()
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: llm.BuildPrompt(in)},
		},
		MaxTokens:   p.opts.MaxTokens,
		Temperature: float32(p.opts.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", mapAPIError(err))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	p.log.DebugContext(ctx, "openai response",
		slog.String("word", in.Word),
		slog.String("model", resp.Model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	out, err := llm.ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return out, nil
}

// mapAPIError exposes the HTTP status of API failures as *provider.HTTPError.
func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &provider.HTTPError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &provider.HTTPError{StatusCode: reqErr.HTTPStatusCode}
	}
	return err
}
