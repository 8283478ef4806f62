package middleware

import (
	"net/http"
)

// CacheControl sets the Cache-Control header on GET and HEAD responses.
// Catalog routes use "no-store" so clients always observe the latest write.
func CacheControl(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
