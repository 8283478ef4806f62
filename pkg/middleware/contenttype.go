package middleware

import (
	"mime"
	"net/http"

	"github.com/utafrali/product-catalog/pkg/httputil"
	"github.com/utafrali/product-catalog/pkg/logger"
)

// RequireJSON rejects POST, PUT and PATCH requests whose body is not
// declared as application/json with 415 Unsupported Media Type.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				const msg = "Content-Type must be application/json"
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Message: msg,
					Error: &httputil.ErrorResponse{
						Code:      "UNSUPPORTED_MEDIA_TYPE",
						Message:   msg,
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
