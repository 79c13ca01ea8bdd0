// Package csrf protects the dashboard's state-changing forms (sign in,
// sign out, sidebar toggle) with the double-submit cookie pattern: a random
// token is set in a cookie and echoed in a hidden form field, and POSTs are
// accepted only when both match.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	// CookieName is the name of the CSRF token cookie.
	CookieName = "csrf_token"

	// FormFieldName is the name of the hidden form field.
	FormFieldName = "csrf_token"

	// tokenLength is the number of random bytes per token (256 bits).
	tokenLength = 32

	// cookieMaxAge is the token lifetime in seconds (1 hour).
	cookieMaxAge = 3600
)

// GenerateToken returns a random base64 URL-encoded token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ValidateToken compares the cookie and form tokens in constant time.
func ValidateToken(cookieToken, formToken string) bool {
	if cookieToken == "" || formToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}

// ValidateRequest checks the form field of a POST against its cookie.
func ValidateRequest(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return ValidateToken(cookie.Value, r.FormValue(FormFieldName))
}

// EnsureToken returns the request's token, issuing a new cookie when the
// request has none.
func EnsureToken(w http.ResponseWriter, r *http.Request, isSecure bool) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true, // Only ever echoed through server-rendered forms
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}
