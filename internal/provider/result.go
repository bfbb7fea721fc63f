package provider

import (
	"context"
	"fmt"
)

// DictionaryEntry is one entry of a dictionary source response. Sources may
// return several entries per word (one per etymology).
type DictionaryEntry struct {
	Word      string
	Phonetic  string
	Phonetics []PhoneticResult
	Meanings  []MeaningResult
}

// PhoneticResult is a single pronunciation item. Either field may be empty.
type PhoneticResult struct {
	Text  string
	Audio string
}

// MeaningResult groups definitions sharing a part of speech.
type MeaningResult struct {
	PartOfSpeech string
	Definitions  []DefinitionResult
}

// DefinitionResult is one definition with an optional usage example.
type DefinitionResult struct {
	Definition string
	Example    string
}

// HTTPError is returned by HTTP-backed providers for non-success responses
// other than the provider's "not found" signal.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// EnhanceInput is what every LLM provider receives.
type EnhanceInput struct {
	Word           string
	Definition     string
	PartOfSpeech   string
	TargetLanguage string
}

// EnhanceExample is one example sentence returned by a provider.
type EnhanceExample struct {
	English     string `json:"english"`
	Translation string `json:"translation"`
}

// EnhanceOutput is the structured answer of an LLM provider.
type EnhanceOutput struct {
	SimplifiedDefinition string           `json:"simplifiedDefinition"`
	Examples             []EnhanceExample `json:"examples"`
}

// Enhancer is implemented by every LLM provider. Implementations are
// interchangeable; callers treat any returned error as "try the next one".
type Enhancer interface {
	Enhance(ctx context.Context, in EnhanceInput, apiKey string) (*EnhanceOutput, error)
}
