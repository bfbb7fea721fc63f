package dictionary

import (
	"context"
	"errors"
	"log/slog"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordCache interface {
	Get(ctx context.Context, word string) (domain.WordRecord, bool)
	Set(ctx context.Context, word string, rec domain.WordRecord)
}

type dictionarySource interface {
	FetchEntries(ctx context.Context, word string) ([]provider.DictionaryEntry, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service fetches dictionary data and normalizes it into WordRecords, reading
// and writing through the word cache.
type Service struct {
	log    *slog.Logger
	cache  wordCache
	source dictionarySource
}

// NewService creates a new dictionary service.
func NewService(logger *slog.Logger, cache wordCache, source dictionarySource) *Service {
	return &Service{
		log:    logger.With("service", "dictionary"),
		cache:  cache,
		source: source,
	}
}

// FetchDefinition returns the canonical record for word. A cache hit skips
// the network. Fails with *domain.NotFoundError when the source has no entry
// and *domain.UpstreamError for any other failure.
func (s *Service) FetchDefinition(ctx context.Context, word string) (domain.WordRecord, error) {
	normalized := domain.NormalizeText(word)

	if rec, ok := s.cache.Get(ctx, normalized); ok {
		s.log.DebugContext(ctx, "cache hit", slog.String("word", normalized))
		return rec, nil
	}

	entries, err := s.source.FetchEntries(ctx, normalized)
	if err != nil {
		s.log.ErrorContext(ctx, "dictionary source error",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return domain.WordRecord{}, toUpstreamError(domain.DisplayText(word), err)
	}
	if len(entries) == 0 {
		return domain.WordRecord{}, &domain.NotFoundError{Word: domain.DisplayText(word)}
	}

	rec := normalizeEntry(normalized, entries[0])
	s.cache.Set(ctx, normalized, rec)

	s.log.InfoContext(ctx, "definition fetched",
		slog.String("word", normalized),
		slog.Int("examples", len(rec.Examples)),
	)

	return rec, nil
}

func toUpstreamError(word string, err error) *domain.UpstreamError {
	var httpErr *provider.HTTPError
	if errors.As(err, &httpErr) {
		return &domain.UpstreamError{Word: word, StatusCode: httpErr.StatusCode, Detail: httpErr.Body}
	}
	return &domain.UpstreamError{Word: word, Detail: err.Error()}
}
