// Package enrichment enhances word records through LLM providers tried in the
// user's fallback order. It never fails outward: every failure path returns
// the input record marked EnrichmentFailed.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// minExamples is the fewest examples a provider answer may carry.
const minExamples = 2

var (
	errNoEnhancer     = errors.New("no enhancer registered")
	errEmptyDef       = errors.New("missing simplified definition")
	errFewExamples    = errors.New("fewer than two examples")
	errEmptyExample   = errors.New("example without english sentence")
	errNilEnhancement = errors.New("nil response")
)

type settingsReader interface {
	TargetLanguage(ctx context.Context) string
	FallbackPolicy(ctx context.Context) domain.FallbackPolicy
	APIKey(ctx context.Context, p domain.ProviderID) string
}

// Service runs the provider fallback loop.
type Service struct {
	log       *slog.Logger
	settings  settingsReader
	enhancers map[domain.ProviderID]provider.Enhancer
	timeout   time.Duration
}

// NewService creates an enrichment service. timeout bounds each provider
// call; zero means no bound beyond ctx.
func NewService(
	logger *slog.Logger,
	settings settingsReader,
	enhancers map[domain.ProviderID]provider.Enhancer,
	timeout time.Duration,
) *Service {
	return &Service{
		log:       logger.With("service", "enrichment"),
		settings:  settings,
		enhancers: enhancers,
		timeout:   timeout,
	}
}

// Enhance returns rec with an LLM-simplified definition and translated
// examples, or rec marked EnrichmentFailed when no provider succeeds.
//
// forceRegenerate only records that the caller bypassed a result it already
// held; the service keeps no enrichment cache of its own.
func (s *Service) Enhance(ctx context.Context, rec domain.WordRecord, forceRegenerate bool) domain.WordRecord {
	lang := s.settings.TargetLanguage(ctx)
	order := s.settings.FallbackPolicy(ctx).EffectiveOrder()

	in := provider.EnhanceInput{
		Word:           rec.Word,
		Definition:     rec.Definition(),
		PartOfSpeech:   rec.PartOfSpeech,
		TargetLanguage: lang,
	}

	s.log.DebugContext(ctx, "enrichment started",
		slog.String("word", rec.Word),
		slog.String("order", domain.FormatProviderList(order)),
		slog.Bool("force_regenerate", forceRegenerate),
	)

	for _, id := range order {
		if ctx.Err() != nil {
			s.log.InfoContext(ctx, "enrichment abandoned", slog.String("word", rec.Word))
			break
		}

		key := s.settings.APIKey(ctx, id)
		if key == "" {
			s.log.DebugContext(ctx, "provider unconfigured, skipping", slog.String("provider", id.String()))
			continue
		}

		out, err := s.attempt(ctx, id, in, key)
		if err != nil {
			s.log.WarnContext(ctx, "provider failed",
				slog.String("provider", id.String()),
				slog.String("word", rec.Word),
				slog.String("error", err.Error()),
			)
			continue
		}

		enhanced := rec.Clone()
		enhanced.SimplifiedDefinition = strings.TrimSpace(out.SimplifiedDefinition)
		enhanced.Examples = toExamples(out.Examples)
		enhanced.EnrichmentState = domain.EnrichmentSucceeded

		s.log.InfoContext(ctx, "enrichment succeeded",
			slog.String("provider", id.String()),
			slog.String("word", rec.Word),
		)
		return enhanced
	}

	s.log.WarnContext(ctx, "all providers failed or unconfigured", slog.String("word", rec.Word))
	failed := rec.Clone()
	failed.EnrichmentState = domain.EnrichmentFailed
	return failed
}

func (s *Service) attempt(ctx context.Context, id domain.ProviderID, in provider.EnhanceInput, key string) (*provider.EnhanceOutput, error) {
	enhancer, ok := s.enhancers[id]
	if !ok || enhancer == nil {
		return nil, errNoEnhancer
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := enhancer.Enhance(ctx, in, key)
	if err != nil {
		return nil, err
	}
	if err := validate(out); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return out, nil
}

func validate(out *provider.EnhanceOutput) error {
	if out == nil {
		return errNilEnhancement
	}
	if strings.TrimSpace(out.SimplifiedDefinition) == "" {
		return errEmptyDef
	}
	if len(out.Examples) < minExamples {
		return errFewExamples
	}
	for _, ex := range out.Examples {
		if strings.TrimSpace(ex.English) == "" {
			return errEmptyExample
		}
	}
	return nil
}

func toExamples(in []provider.EnhanceExample) []domain.Example {
	out := make([]domain.Example, len(in))
	for i, ex := range in {
		out[i] = domain.Example{
			English:     strings.TrimSpace(ex.English),
			Translation: strings.TrimSpace(ex.Translation),
		}
	}
	return out
}
