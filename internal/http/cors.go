package http

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS wraps handler with a CORS policy for the browser client.
// Credentials are allowed so the session cookie is sent cross-origin, which
// rules out a wildcard origin.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
}
