package session

import "net/http"

const (
	// CookiePath ensures cookies are sent with all requests.
	CookiePath = "/"

	// CookieMaxAge sets the token cookie expiration (7 days = 604800 seconds).
	CookieMaxAge = 7 * 24 * 60 * 60
)

// CookieStore exposes the cookies of a request as a Store. Each storage key
// maps to the cookie of the same name.
type CookieStore struct {
	r *http.Request
}

// NewCookieStore wraps a request.
func NewCookieStore(r *http.Request) CookieStore {
	return CookieStore{r: r}
}

func (s CookieStore) Get(key string) (string, bool) {
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// SetCookie writes a storage value as a cookie.
//
// Cookie settings:
// - HttpOnly: true - Prevents JavaScript access (XSS protection)
// - Secure: configurable - Set true in production (HTTPS only)
// - SameSite: Lax - Prevents CSRF while allowing normal navigation
func SetCookie(w http.ResponseWriter, key, value string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes a storage value from the client.
func ClearCookie(w http.ResponseWriter, key string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1, // Delete immediately
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

var _ Store = CookieStore{}
