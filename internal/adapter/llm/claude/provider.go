// Package claude enhances word records with the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/wordbuddy/internal/adapter/llm"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

const defaultModel = "claude-3-5-haiku-latest"

// Provider sends one user message per enrichment.
type Provider struct {
	opts llm.Options
	log  *slog.Logger
}

// New creates a Claude provider. An empty BaseURL uses the public API.
func New(opts llm.Options, logger *slog.Logger) *Provider {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	return &Provider{
		opts: opts,
		log:  logger.With("adapter", "claude"),
	}
}

// Enhance asks Claude for a simplified definition and translated examples.
func (p *Provider) Enhance(ctx context.Context, in provider.EnhanceInput, apiKey string) (*provider.EnhanceOutput, error) {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(p.opts.Client()),
		// The engine falls back to the next provider instead of retrying.
		option.WithMaxRetries(0),
	}
	if p.opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(p.opts.BaseURL))
	}
	client := anthropic.NewClient(reqOpts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.opts.Model),
		MaxTokens:   int64(p.opts.MaxTokens),
		Temperature: anthropic.Float(p.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(llm.BuildPrompt(in))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("claude: %w", &provider.HTTPError{StatusCode: apiErr.StatusCode})
		}
		return nil, fmt.Errorf("claude: messages: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("claude: empty response for %q", in.Word)
	}

	p.log.DebugContext(ctx, "claude response",
		slog.String("word", in.Word),
		slog.String("stop_reason", string(msg.StopReason)),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	out, err := llm.ParseResponse(text)
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}
	return out, nil
}
