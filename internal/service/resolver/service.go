// Package resolver turns a typed word into an enriched WordRecord: dictionary
// lookup first, LLM enrichment second.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

type dictionaryClient interface {
	FetchDefinition(ctx context.Context, word string) (domain.WordRecord, error)
}

type enricher interface {
	Enhance(ctx context.Context, rec domain.WordRecord, forceRegenerate bool) domain.WordRecord
}

// Service orchestrates the dictionary and enrichment stages.
type Service struct {
	log        *slog.Logger
	dictionary dictionaryClient
	enricher   enricher
}

// NewService creates a new resolver.
func NewService(logger *slog.Logger, dictionary dictionaryClient, enricher enricher) *Service {
	return &Service{
		log:        logger.With("service", "resolver"),
		dictionary: dictionary,
		enricher:   enricher,
	}
}

// Resolve looks word up and enriches the result. Blank input fails with a
// ValidationError before any I/O. Dictionary errors are returned unchanged;
// enrichment never fails.
func (s *Service) Resolve(ctx context.Context, word string) (domain.WordRecord, error) {
	rec, err := s.Lookup(ctx, word)
	if err != nil {
		return domain.WordRecord{}, err
	}
	return s.enricher.Enhance(ctx, rec, false), nil
}

// Lookup runs the dictionary stage only. Callers that render in two steps
// show this first and call Refresh afterwards.
func (s *Service) Lookup(ctx context.Context, word string) (domain.WordRecord, error) {
	if strings.TrimSpace(word) == "" {
		return domain.WordRecord{}, domain.NewValidationError("word", "required")
	}

	rec, err := s.dictionary.FetchDefinition(ctx, word)
	if err != nil {
		s.log.InfoContext(ctx, "lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		return domain.WordRecord{}, err
	}
	return rec, nil
}

// Refresh re-runs enrichment on an already resolved record with
// forceRegenerate set. The dictionary is not consulted.
func (s *Service) Refresh(ctx context.Context, rec domain.WordRecord) (domain.WordRecord, error) {
	if strings.TrimSpace(rec.Word) == "" {
		return domain.WordRecord{}, domain.NewValidationError("word", "required")
	}
	if rec.Examples == nil {
		rec.Examples = []domain.Example{}
	}
	return s.enricher.Enhance(ctx, rec, true), nil
}
