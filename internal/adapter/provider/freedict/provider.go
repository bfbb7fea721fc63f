package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/provider"
)

// DefaultBaseURL is the public FreeDictionary API endpoint for English.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const (
	defaultTimeout = 10 * time.Second
	retryDelay     = 500 * time.Millisecond
	maxErrorBody   = 512
)

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL selects DefaultBaseURL and
// a non-positive timeout selects 10s.
func NewProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		log:        logger.With("adapter", "freedict"),
	}
}

// FetchEntries fetches the raw dictionary entries for word.
// Returns nil, nil if the word is not found (HTTP 404 or an empty array).
// Other non-success responses are returned as *provider.HTTPError.
func (p *Provider) FetchEntries(ctx context.Context, word string) ([]provider.DictionaryEntry, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(strings.ToLower(word))

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.doWithRetry(ctx, req, word)
	if err != nil {
		p.log.ErrorContext(ctx, "freedict request failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("freedict: %w", &provider.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}

	if len(entries) == 0 {
		return nil, nil
	}

	result := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("status", resp.StatusCode),
		slog.Int("entries", len(result)),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "freedict retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}

	return p.httpClient.Do(req)
}

func mapAPIResponse(entries []apiEntry) []provider.DictionaryEntry {
	out := make([]provider.DictionaryEntry, 0, len(entries))
	for _, e := range entries {
		entry := provider.DictionaryEntry{
			Word:      e.Word,
			Phonetic:  e.Phonetic,
			Phonetics: make([]provider.PhoneticResult, 0, len(e.Phonetics)),
			Meanings:  make([]provider.MeaningResult, 0, len(e.Meanings)),
		}
		for _, ph := range e.Phonetics {
			entry.Phonetics = append(entry.Phonetics, provider.PhoneticResult{
				Text:  strings.TrimSpace(ph.Text),
				Audio: strings.TrimSpace(ph.Audio),
			})
		}
		for _, m := range e.Meanings {
			meaning := provider.MeaningResult{
				PartOfSpeech: m.PartOfSpeech,
				Definitions:  make([]provider.DefinitionResult, 0, len(m.Definitions)),
			}
			for _, d := range m.Definitions {
				meaning.Definitions = append(meaning.Definitions, provider.DefinitionResult{
					Definition: d.Definition,
					Example:    d.Example,
				})
			}
			entry.Meanings = append(entry.Meanings, meaning)
		}
		out = append(out, entry)
	}
	return out
}
