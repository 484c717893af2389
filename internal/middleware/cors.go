// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/librisys/backend/internal/config"
)

// CORS applies the configured origin allow-list. The request id header is
// exposed so browser clients can quote it in bug reports.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
