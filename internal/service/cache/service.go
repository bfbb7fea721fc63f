// Package cache is a best-effort TTL cache of resolved word records.
// Store faults and corrupt payloads are logged and surface as a miss or a
// no-op; no method returns an error.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// DefaultTTL is how long an entry stays valid after it was stored.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultPrefix namespaces cache keys inside a shared store.
const DefaultPrefix = "wordbuddy-cache-"

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// entry is the persisted form of a cached record.
type entry struct {
	Data     domain.WordRecord `json:"data"`
	StoredAt time.Time         `json:"storedAt"`
}

// Service caches WordRecords keyed by lowercase word.
type Service struct {
	log    *slog.Logger
	store  kvStore
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a cache over store. A zero ttl or empty prefix selects
// the defaults. A nil store makes every read a miss.
func NewService(logger *slog.Logger, store kvStore, ttl time.Duration, prefix string, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Service{
		log:    logger.With("service", "cache"),
		store:  store,
		ttl:    ttl,
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key for word.
func (s *Service) Key(word string) string {
	return s.prefix + domain.NormalizeText(word)
}

// Get returns the cached record for word. Entries older than the TTL are
// deleted on access and reported as a miss.
func (s *Service) Get(ctx context.Context, word string) (domain.WordRecord, bool) {
	if s.store == nil {
		return domain.WordRecord{}, false
	}
	key := s.Key(word)

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return domain.WordRecord{}, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.log.WarnContext(ctx, "cache entry corrupt, evicting", slog.String("key", key), slog.String("error", err.Error()))
		s.evict(ctx, key)
		return domain.WordRecord{}, false
	}

	if age := s.now().Sub(e.StoredAt); age > s.ttl {
		s.log.DebugContext(ctx, "cache entry expired", slog.String("key", key), slog.Duration("age", age))
		s.evict(ctx, key)
		return domain.WordRecord{}, false
	}

	if e.Data.Examples == nil {
		e.Data.Examples = []domain.Example{}
	}
	return e.Data, true
}

// Set stores rec under word, replacing any previous entry.
func (s *Service) Set(ctx context.Context, word string, rec domain.WordRecord) {
	if s.store == nil {
		return
	}
	key := s.Key(word)

	raw, err := json.Marshal(entry{Data: rec, StoredAt: s.now().UTC()})
	if err != nil {
		s.log.WarnContext(ctx, "cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		s.log.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Clear removes every entry under the cache prefix. Unrelated keys in the
// same store are left alone.
func (s *Service) Clear(ctx context.Context) {
	if s.store == nil {
		return
	}
	n, err := s.store.DeletePrefix(ctx, s.prefix)
	if err != nil {
		s.log.WarnContext(ctx, "cache clear failed", slog.String("error", err.Error()))
		return
	}
	s.log.InfoContext(ctx, "cache cleared", slog.Int64("entries", n))
}

// Words lists the normalized words that currently have an entry, expired
// ones included, in ascending order.
func (s *Service) Words(ctx context.Context) []string {
	if s.store == nil {
		return nil
	}
	keys, err := s.store.Keys(ctx, s.prefix)
	if err != nil {
		s.log.WarnContext(ctx, "cache list failed", slog.String("error", err.Error()))
		return nil
	}
	words := make([]string, len(keys))
	for i, k := range keys {
		words[i] = strings.TrimPrefix(k, s.prefix)
	}
	return words
}

func (s *Service) evict(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.WarnContext(ctx, "cache evict failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
