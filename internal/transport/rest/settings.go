package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/service/settings"
)

type settingsService interface {
	Snapshot(ctx context.Context) settings.Snapshot
	Apply(ctx context.Context, u settings.Update) error
	ClearAPIKeys(ctx context.Context)
}

// SettingsHandler exposes the settings store. API keys are write-only.
type SettingsHandler struct {
	settings settingsService
	log      *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc settingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: svc, log: logger.With("handler", "settings")}
}

// ProviderStatus reports whether a provider has a key, never the key itself.
type ProviderStatus struct {
	ID         string `json:"id"`
	Configured bool   `json:"configured"`
}

// SettingsResponse is the body of GET /api/v1/settings.
type SettingsResponse struct {
	DefaultProvider string           `json:"defaultProvider"`
	FallbackOrder   []string         `json:"fallbackOrder"`
	EffectiveOrder  []string         `json:"effectiveOrder"`
	TargetLanguage  string           `json:"targetLanguage"`
	Providers       []ProviderStatus `json:"providers"`
}

// UpdateSettingsRequest is the body of PUT /api/v1/settings. Omitted fields
// are left untouched; an empty API key removes it.
type UpdateSettingsRequest struct {
	DefaultProvider *string           `json:"defaultProvider"`
	FallbackOrder   []string          `json:"fallbackOrder"`
	TargetLanguage  *string           `json:"targetLanguage"`
	APIKeys         map[string]string `json:"apiKeys"`
}

func (req UpdateSettingsRequest) toUpdate() (settings.Update, error) {
	var u settings.Update

	if req.DefaultProvider != nil {
		p := parseProvider(*req.DefaultProvider)
		u.DefaultProvider = &p
	}
	if req.FallbackOrder != nil {
		if len(req.FallbackOrder) == 0 {
			return u, domain.NewValidationError("fallback_order", "at least one provider required")
		}
		u.FallbackOrder = make([]domain.ProviderID, len(req.FallbackOrder))
		for i, s := range req.FallbackOrder {
			u.FallbackOrder[i] = parseProvider(s)
		}
	}
	u.TargetLanguage = req.TargetLanguage
	if len(req.APIKeys) > 0 {
		u.APIKeys = make(map[domain.ProviderID]string, len(req.APIKeys))
		for id, key := range req.APIKeys {
			u.APIKeys[parseProvider(id)] = key
		}
	}
	return u, nil
}

// parseProvider normalises case; unknown ids are kept so Apply reports them.
func parseProvider(s string) domain.ProviderID {
	p, _ := domain.ParseProviderID(s)
	return p
}

func newSettingsResponse(snap settings.Snapshot) SettingsResponse {
	policy := domain.FallbackPolicy{DefaultProvider: snap.DefaultProvider, Order: snap.FallbackOrder}

	resp := SettingsResponse{
		DefaultProvider: snap.DefaultProvider.String(),
		FallbackOrder:   providerStrings(snap.FallbackOrder),
		EffectiveOrder:  providerStrings(policy.EffectiveOrder()),
		TargetLanguage:  snap.TargetLanguage,
	}
	for _, p := range domain.KnownProviders() {
		resp.Providers = append(resp.Providers, ProviderStatus{ID: p.String(), Configured: snap.Configured[p]})
	}
	return resp
}

func providerStrings(ps []domain.ProviderID) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSettingsResponse(h.settings.Snapshot(r.Context())))
}

// Update handles PUT /api/v1/settings and returns the resulting settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	u, err := req.toUpdate()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.settings.Apply(r.Context(), u); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newSettingsResponse(h.settings.Snapshot(r.Context())))
}

// ClearAPIKeys handles DELETE /api/v1/settings/api-keys.
func (h *SettingsHandler) ClearAPIKeys(w http.ResponseWriter, r *http.Request) {
	h.settings.ClearAPIKeys(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
