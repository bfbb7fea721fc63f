package domain

import (
	"slices"
	"strings"
)

// ProviderID identifies an LLM provider. The set is closed: adding a provider
// means adding a constant here and an enhancer implementation.
type ProviderID string

const (
	ProviderGemini ProviderID = "gemini"
	ProviderOpenAI ProviderID = "openai"
	ProviderClaude ProviderID = "claude"
)

// KnownProviders returns every provider in canonical order. The first element
// is the default provider.
func KnownProviders() []ProviderID {
	return []ProviderID{ProviderGemini, ProviderOpenAI, ProviderClaude}
}

func (p ProviderID) String() string { return string(p) }

func (p ProviderID) IsValid() bool {
	return slices.Contains(KnownProviders(), p)
}

// ParseProviderID converts user input into a ProviderID (case-insensitive).
func ParseProviderID(s string) (ProviderID, bool) {
	p := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// ParseProviderList parses a comma-separated list, dropping unknown ids.
func ParseProviderList(s string) []ProviderID {
	var out []ProviderID
	for _, part := range strings.Split(s, ",") {
		if p, ok := ParseProviderID(part); ok {
			out = append(out, p)
		}
	}
	return out
}

// FormatProviderList is the inverse of ParseProviderList.
func FormatProviderList(ps []ProviderID) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// FallbackPolicy is the user-declared provider preference.
type FallbackPolicy struct {
	DefaultProvider ProviderID
	Order           []ProviderID
}

// DefaultFallbackPolicy is used when nothing is stored.
func DefaultFallbackPolicy() FallbackPolicy {
	known := KnownProviders()
	return FallbackPolicy{DefaultProvider: known[0], Order: known}
}

// EffectiveOrder returns [DefaultProvider] followed by Order with the default
// removed, deduplicated, keeping the user's order for the remainder.
func (p FallbackPolicy) EffectiveOrder() []ProviderID {
	out := make([]ProviderID, 0, len(p.Order)+1)
	seen := make(map[ProviderID]bool, len(p.Order)+1)
	if p.DefaultProvider != "" {
		out = append(out, p.DefaultProvider)
		seen[p.DefaultProvider] = true
	}
	for _, id := range p.Order {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
