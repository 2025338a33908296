package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
)

// NewCORS creates the CORS middleware for the configured origins.
// Credentials are only allowed when no wildcard origin is configured.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
		MaxAge:           300,
	})
}
