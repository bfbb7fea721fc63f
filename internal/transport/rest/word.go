package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

// ActionRefresh is offered on records whose enrichment failed.
const ActionRefresh = "refresh"

type wordResolver interface {
	Resolve(ctx context.Context, word string) (domain.WordRecord, error)
	Lookup(ctx context.Context, word string) (domain.WordRecord, error)
	Refresh(ctx context.Context, rec domain.WordRecord) (domain.WordRecord, error)
}

// WordHandler serves word lookups.
type WordHandler struct {
	resolver wordResolver
	log      *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(resolver wordResolver, logger *slog.Logger) *WordHandler {
	return &WordHandler{resolver: resolver, log: logger.With("handler", "words")}
}

// WordResponse is a WordRecord plus the follow-up actions a client may offer.
type WordResponse struct {
	domain.WordRecord
	Actions []string `json:"actions,omitempty"`
}

func newWordResponse(rec domain.WordRecord) WordResponse {
	resp := WordResponse{WordRecord: rec}
	if rec.EnrichmentState == domain.EnrichmentFailed {
		resp.Actions = []string{ActionRefresh}
	}
	return resp
}

// Get handles GET /api/v1/words/{word}. With ?enrich=false only the
// dictionary stage runs.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, so the param is still escaped
	// only in that case.
	word := chi.URLParam(r, "word")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(word); err == nil {
			word = unescaped
		}
	}

	enrich := true
	if v := r.URL.Query().Get("enrich"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, h.log, domain.NewValidationError("enrich", "must be a boolean"))
			return
		}
		enrich = parsed
	}

	var (
		rec domain.WordRecord
		err error
	)
	if enrich {
		rec, err = h.resolver.Resolve(r.Context(), word)
	} else {
		rec, err = h.resolver.Lookup(r.Context(), word)
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newWordResponse(rec))
}

// Refresh handles POST /api/v1/words/refresh. The body is a previously
// returned record, actions included; enrichment is re-run with regeneration
// forced.
func (h *WordHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req WordResponse
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	out, err := h.resolver.Refresh(r.Context(), req.WordRecord)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newWordResponse(out))
}
