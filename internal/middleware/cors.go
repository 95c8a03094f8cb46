package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware opens the read-only status endpoints to any origin so the
// storefront admin UI can call them cross-site. Nothing here mutates state
// or carries credentials, so a wildcard is acceptable.
func CORSMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}
