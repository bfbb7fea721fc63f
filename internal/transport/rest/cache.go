package rest

import (
	"context"
	"net/http"
)

type cacheClearer interface {
	Clear(ctx context.Context)
}

// CacheHandler administers the word cache.
type CacheHandler struct {
	cache cacheClearer
}

// NewCacheHandler creates a CacheHandler.
func NewCacheHandler(cache cacheClearer) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// Clear handles DELETE /api/v1/cache. Only keys under the cache prefix are
// removed.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
