package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetricsAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name       string
		user, pass string
		auth       bool
		reqUser    string
		reqPass    string
		wantStatus int
	}{
		{"disabled", "", "", false, "", "", http.StatusOK},
		{"missing credentials", "prom", "s3cret", false, "", "", http.StatusUnauthorized},
		{"wrong password", "prom", "s3cret", true, "prom", "nope", http.StatusUnauthorized},
		{"wrong user", "prom", "s3cret", true, "admin", "s3cret", http.StatusUnauthorized},
		{"valid", "prom", "s3cret", true, "prom", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewMetricsAuthMiddleware(tt.user, tt.pass).Handler(ok)
			req := httptest.NewRequest("GET", "/metrics", nil)
			if tt.auth {
				req.SetBasicAuth(tt.reqUser, tt.reqPass)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 should carry WWW-Authenticate")
			}
		})
	}
}
