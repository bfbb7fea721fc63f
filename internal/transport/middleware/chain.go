// Package middleware holds the HTTP middleware shared by every route of the
// wordbuddy API.
package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler. It has the same shape
// as chi middleware, so values can be passed to chi.Router.Use directly.
type Middleware func(http.Handler) http.Handler

// Chain combines middleware into one. Chain(a, b)(h) is a(b(h)): a runs
// first. Nil entries are skipped so optional middleware can be passed inline.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] == nil {
				continue
			}
			final = mws[i](final)
		}
		return final
	}
}
