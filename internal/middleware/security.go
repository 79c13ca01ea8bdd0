package middleware

import (
	"net/http"
	"strings"

	"github.com/DukeRupert/kuidash/internal/ui"
)

// SecurityHeadersMiddleware adds HTTP security headers to all responses and
// asks browsers for the viewport client hint the sidebar collapse uses.
type SecurityHeadersMiddleware struct {
	isSecure bool // Whether to enable HTTPS-specific headers (true in production)
}

// NewSecurityHeadersMiddleware creates a new security headers middleware.
func NewSecurityHeadersMiddleware(isSecure bool) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{
		isSecure: isSecure,
	}
}

// Handler returns middleware that sets the headers.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if m.isSecure {
			// max-age=31536000 = 1 year
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Viewport width arrives on the next request once the browser has
		// seen Accept-CH; Critical-CH makes it retry the first one with it.
		hints := strings.Join([]string{ui.HeaderViewportWidth, ui.HeaderLegacyViewportWidth}, ", ")
		h.Set("Accept-CH", hints)
		h.Set("Critical-CH", ui.HeaderViewportWidth)
		h.Add("Vary", hints)

		next.ServeHTTP(w, r)
	})
}

// contentSecurityPolicy allows the shell's own assets only.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"
