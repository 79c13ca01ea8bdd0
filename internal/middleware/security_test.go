package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		isSecure bool
		wantHSTS bool
	}{
		{"development", false, false},
		{"production", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSecurityHeadersMiddleware(tt.isSecure).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

			h := rec.Header()
			if h.Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q", h.Get("X-Frame-Options"))
			}
			if h.Get("X-Content-Type-Options") != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q", h.Get("X-Content-Type-Options"))
			}
			if !strings.Contains(h.Get("Content-Security-Policy"), "frame-ancestors 'none'") {
				t.Errorf("CSP = %q", h.Get("Content-Security-Policy"))
			}
			if got := h.Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}

func TestSecurityHeadersMiddleware_RequestsViewportHint(t *testing.T) {
	handler := NewSecurityHeadersMiddleware(false).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	acceptCH := rec.Header().Get("Accept-CH")
	if !strings.Contains(acceptCH, "Sec-CH-Viewport-Width") || !strings.Contains(acceptCH, "Viewport-Width") {
		t.Errorf("Accept-CH = %q", acceptCH)
	}
	if rec.Header().Get("Critical-CH") != "Sec-CH-Viewport-Width" {
		t.Errorf("Critical-CH = %q", rec.Header().Get("Critical-CH"))
	}
	if !strings.Contains(rec.Header().Get("Vary"), "Sec-CH-Viewport-Width") {
		t.Errorf("Vary = %q", rec.Header().Get("Vary"))
	}
}
