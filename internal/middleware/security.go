// AngelaMos | 2026
// security.go

package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

const hstsMaxAge = 365 * 24 * 60 * 60

// SecurityHeaders sets the hardening headers for a JSON API. HSTS is only
// emitted in production and only for requests that arrived over TLS,
// directly or via a proxy setting X-Forwarded-Proto.
func SecurityHeaders(isProduction bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:               true,
		ContentTypeNosniff:      true,
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy: "same-origin",
		ContentSecurityPolicy:   "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:              hstsMaxAge,
		STSIncludeSubdomains:    true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:           !isProduction,
	}).Handler
}
