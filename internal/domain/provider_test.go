package domain

import (
	"reflect"
	"testing"
)

func TestFallbackPolicy_EffectiveOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy FallbackPolicy
		want   []ProviderID
	}{
		{
			name: "default moved to front",
			policy: FallbackPolicy{
				DefaultProvider: ProviderGemini,
				Order:           []ProviderID{ProviderClaude, ProviderGemini, ProviderOpenAI},
			},
			want: []ProviderID{ProviderGemini, ProviderClaude, ProviderOpenAI},
		},
		{
			name: "default not in order",
			policy: FallbackPolicy{
				DefaultProvider: ProviderClaude,
				Order:           []ProviderID{ProviderOpenAI},
			},
			want: []ProviderID{ProviderClaude, ProviderOpenAI},
		},
		{
			name: "duplicates removed",
			policy: FallbackPolicy{
				DefaultProvider: ProviderOpenAI,
				Order:           []ProviderID{ProviderGemini, ProviderGemini, ProviderOpenAI, ProviderClaude},
			},
			want: []ProviderID{ProviderOpenAI, ProviderGemini, ProviderClaude},
		},
		{
			name:   "defaults",
			policy: DefaultFallbackPolicy(),
			want:   []ProviderID{ProviderGemini, ProviderOpenAI, ProviderClaude},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.policy.EffectiveOrder(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EffectiveOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseProviderID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   ProviderID
		wantOK bool
	}{
		{"gemini", ProviderGemini, true},
		{" Claude ", ProviderClaude, true},
		{"OPENAI", ProviderOpenAI, true},
		{"mistral", ProviderID("mistral"), false},
		{"", ProviderID(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseProviderID(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseProviderID(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseProviderList_DropsUnknown(t *testing.T) {
	t.Parallel()

	got := ParseProviderList("claude, mistral,gemini,,")
	want := []ProviderID{ProviderClaude, ProviderGemini}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseProviderList = %v, want %v", got, want)
	}
	if s := FormatProviderList(want); s != "claude,gemini" {
		t.Errorf("FormatProviderList = %q", s)
	}
}
