// Package settings is the typed layer over the key-value config store that
// holds API keys, provider preferences and the target language.
//
// Reads never fail: an unavailable or erroring store yields the documented
// defaults. Writes to a failing store are logged and dropped.
package settings

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// Storage keys.
const (
	KeyDefaultProvider = "llm_default_provider"
	KeyFallbackOrder   = "llm_fallback_order"
	KeyTargetLanguage  = "target_language"
)

// DefaultTargetLanguage is used when no language is stored.
const DefaultTargetLanguage = "zh-CN"

// APIKeyKey returns the storage key of a provider's API key.
func APIKeyKey(p domain.ProviderID) string {
	return "llm_" + string(p) + "_api_key"
}

// EnvVar returns the environment variable that overrides a provider's key
// when env override is enabled.
func EnvVar(p domain.ProviderID) string {
	return "WORDBUDDY_" + strings.ToUpper(string(p)) + "_API_KEY"
}

type kvStore interface {
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Snapshot is a consistent view of all settings.
type Snapshot struct {
	DefaultProvider domain.ProviderID
	FallbackOrder   []domain.ProviderID
	TargetLanguage  string
	// Configured reports which providers have a non-empty key.
	Configured map[domain.ProviderID]bool
}

// Update is a partial change; nil fields are left untouched. An empty
// string in APIKeys removes that key.
type Update struct {
	DefaultProvider *domain.ProviderID
	FallbackOrder   []domain.ProviderID
	TargetLanguage  *string
	APIKeys         map[domain.ProviderID]string
}

// Service reads and writes settings.
type Service struct {
	log         *slog.Logger
	store       kvStore
	envOverride bool
	lookupEnv   func(string) (string, bool)
}

// Option configures a Service.
type Option func(*Service)

// WithEnvOverride lets WORDBUDDY_<PROVIDER>_API_KEY take precedence over
// stored keys.
func WithEnvOverride(enabled bool) Option {
	return func(s *Service) { s.envOverride = enabled }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(s *Service) { s.lookupEnv = fn }
}

// NewService creates a settings service. A nil store behaves as an empty,
// read-only store.
func NewService(logger *slog.Logger, store kvStore, opts ...Option) *Service {
	s := &Service{
		log:       logger.With("service", "settings"),
		store:     store,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Raw key-value operations
// ---------------------------------------------------------------------------

// Get returns the stored values for keys. Missing keys are absent from the
// result; a failing store yields an empty map.
func (s *Service) Get(ctx context.Context, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	if s.store == nil || len(keys) == 0 {
		return out
	}
	raw, err := s.store.GetMany(ctx, keys)
	if err != nil {
		s.log.WarnContext(ctx, "settings read failed, using defaults", slog.String("error", err.Error()))
		return out
	}
	for k, v := range raw {
		out[k] = string(v)
	}
	return out
}

// Set stores all pairs. Store faults are logged, never returned.
func (s *Service) Set(ctx context.Context, values map[string]string) {
	if s.store == nil || len(values) == 0 {
		return
	}
	raw := make(map[string][]byte, len(values))
	for k, v := range values {
		raw[k] = []byte(v)
	}
	if err := s.store.SetMany(ctx, raw); err != nil {
		s.log.WarnContext(ctx, "settings write failed", slog.Int("keys", len(values)), slog.String("error", err.Error()))
	}
}

// Remove deletes keys. Store faults are logged, never returned.
func (s *Service) Remove(ctx context.Context, keys ...string) {
	if s.store == nil || len(keys) == 0 {
		return
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		s.log.WarnContext(ctx, "settings remove failed", slog.Int("keys", len(keys)), slog.String("error", err.Error()))
	}
}

// ---------------------------------------------------------------------------
// Typed reads
// ---------------------------------------------------------------------------

// APIKey returns the key for p, or "" when the provider is unconfigured.
func (s *Service) APIKey(ctx context.Context, p domain.ProviderID) string {
	if s.envOverride {
		if v, ok := s.lookupEnv(EnvVar(p)); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(s.Get(ctx, APIKeyKey(p))[APIKeyKey(p)])
}

// FallbackPolicy returns the stored policy with defaults for missing or
// unusable values.
func (s *Service) FallbackPolicy(ctx context.Context) domain.FallbackPolicy {
	vals := s.Get(ctx, KeyDefaultProvider, KeyFallbackOrder)
	return policyFrom(vals)
}

// TargetLanguage returns the stored language code or DefaultTargetLanguage.
func (s *Service) TargetLanguage(ctx context.Context) string {
	return languageFrom(s.Get(ctx, KeyTargetLanguage))
}

// Snapshot reads all settings in one round trip.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	keys := []string{KeyDefaultProvider, KeyFallbackOrder, KeyTargetLanguage}
	for _, p := range domain.KnownProviders() {
		keys = append(keys, APIKeyKey(p))
	}
	vals := s.Get(ctx, keys...)

	policy := policyFrom(vals)
	snap := Snapshot{
		DefaultProvider: policy.DefaultProvider,
		FallbackOrder:   policy.Order,
		TargetLanguage:  languageFrom(vals),
		Configured:      make(map[domain.ProviderID]bool, len(domain.KnownProviders())),
	}
	for _, p := range domain.KnownProviders() {
		configured := strings.TrimSpace(vals[APIKeyKey(p)]) != ""
		if !configured && s.envOverride {
			v, ok := s.lookupEnv(EnvVar(p))
			configured = ok && strings.TrimSpace(v) != ""
		}
		snap.Configured[p] = configured
	}
	return snap
}

func policyFrom(vals map[string]string) domain.FallbackPolicy {
	policy := domain.DefaultFallbackPolicy()
	if p, ok := domain.ParseProviderID(vals[KeyDefaultProvider]); ok {
		policy.DefaultProvider = p
	}
	if order := domain.ParseProviderList(vals[KeyFallbackOrder]); len(order) > 0 {
		policy.Order = order
	}
	return policy
}

func languageFrom(vals map[string]string) string {
	if lang := strings.TrimSpace(vals[KeyTargetLanguage]); lang != "" {
		return lang
	}
	return DefaultTargetLanguage
}

// ---------------------------------------------------------------------------
// Typed writes
// ---------------------------------------------------------------------------

// SetAPIKey stores key for p; an empty key removes it.
func (s *Service) SetAPIKey(ctx context.Context, p domain.ProviderID, key string) error {
	return s.Apply(ctx, Update{APIKeys: map[domain.ProviderID]string{p: key}})
}

// SetDefaultProvider stores the preferred provider.
func (s *Service) SetDefaultProvider(ctx context.Context, p domain.ProviderID) error {
	return s.Apply(ctx, Update{DefaultProvider: &p})
}

// SetFallbackOrder stores the attempt order.
func (s *Service) SetFallbackOrder(ctx context.Context, order []domain.ProviderID) error {
	if len(order) == 0 {
		return domain.NewValidationError("fallback_order", "at least one provider required")
	}
	return s.Apply(ctx, Update{FallbackOrder: order})
}

// SetTargetLanguage stores the translation language code.
func (s *Service) SetTargetLanguage(ctx context.Context, lang string) error {
	return s.Apply(ctx, Update{TargetLanguage: &lang})
}

// ClearAPIKeys removes every provider key.
func (s *Service) ClearAPIKeys(ctx context.Context) {
	keys := make([]string, 0, len(domain.KnownProviders()))
	for _, p := range domain.KnownProviders() {
		keys = append(keys, APIKeyKey(p))
	}
	s.Remove(ctx, keys...)
	s.log.InfoContext(ctx, "api keys cleared")
}

// Apply validates u and writes it in one batch. Only validation errors are
// returned.
func (s *Service) Apply(ctx context.Context, u Update) error {
	var errs []domain.FieldError

	set := make(map[string]string)
	var remove []string

	if u.DefaultProvider != nil {
		if !u.DefaultProvider.IsValid() {
			errs = append(errs, domain.FieldError{Field: "default_provider", Message: "unknown provider"})
		} else {
			set[KeyDefaultProvider] = string(*u.DefaultProvider)
		}
	}

	if u.FallbackOrder != nil {
		valid := true
		for _, p := range u.FallbackOrder {
			if !p.IsValid() {
				errs = append(errs, domain.FieldError{Field: "fallback_order", Message: "unknown provider " + string(p)})
				valid = false
			}
		}
		if valid {
			set[KeyFallbackOrder] = domain.FormatProviderList(u.FallbackOrder)
		}
	}

	if u.TargetLanguage != nil {
		lang := strings.TrimSpace(*u.TargetLanguage)
		if lang == "" {
			errs = append(errs, domain.FieldError{Field: "target_language", Message: "required"})
		} else {
			set[KeyTargetLanguage] = lang
		}
	}

	for p, key := range u.APIKeys {
		if !p.IsValid() {
			errs = append(errs, domain.FieldError{Field: "api_keys", Message: "unknown provider " + string(p)})
			continue
		}
		if key = strings.TrimSpace(key); key == "" {
			remove = append(remove, APIKeyKey(p))
		} else {
			set[APIKeyKey(p)] = key
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}

	s.Set(ctx, set)
	s.Remove(ctx, remove...)

	s.log.InfoContext(ctx, "settings updated", slog.Int("set", len(set)), slog.Int("removed", len(remove)))
	return nil
}
