// Package llm holds what the LLM enhancers share: client options, the
// enrichment prompt, and tolerant parsing of model output.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// ErrNoJSON is returned when a model reply contains no decodable JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// Options configures one provider client.
type Options struct {
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	// HTTPClient overrides the client built from Timeout (tests).
	HTTPClient *http.Client
}

// Client returns the HTTP client to use for these options.
func (o Options) Client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.Timeout}
}

// BuildPrompt renders the enrichment instruction for a word.
func BuildPrompt(in provider.EnhanceInput) string {
	pos := in.PartOfSpeech
	if pos == "" {
		pos = "unknown"
	}
	return fmt.Sprintf(`You are an English teaching assistant helping language learners understand English words.

Requirements:
1. Give a simplified definition suitable for B1 level learners.
2. Write EXACTLY 2 natural example sentences that use the word "%[1]s" correctly.
3. Translate both examples into %[4]s.
4. Never return an empty examples array, even for very common words.

Word: %[1]s
Part of Speech: %[2]s
Dictionary Definition: %[3]s

Respond with JSON only, no markdown:
{
  "simplifiedDefinition": "simplified definition",
  "examples": [
    {"english": "example sentence with the word", "translation": "translation in %[4]s"},
    {"english": "another example sentence", "translation": "translation in %[4]s"}
  ]
}`, in.Word, pos, in.Definition, in.TargetLanguage)
}

// ParseResponse decodes the first well-formed JSON object in text. A
// surrounding markdown code fence is removed first.
func ParseResponse(text string) (*provider.EnhanceOutput, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var out provider.EnhanceOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// ExtractJSON returns the first balanced {...} span of text that is valid
// JSON. Braces inside string literals are ignored.
func ExtractJSON(text string) (string, error) {
	s := stripCodeFence(text)

	for start := strings.IndexByte(s, '{'); start != -1; {
		if end := matchBrace(s, start); end != -1 {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		// Drop the info string (```json).
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// matchBrace returns the index of the brace closing s[start], or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
