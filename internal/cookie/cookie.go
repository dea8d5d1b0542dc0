// Package cookie provides the storefront session cookie helpers.
// The session cookie carries only the opaque session id; all session state
// lives server-side in the session manager.
package cookie

import (
	"net/http"
	"time"
)

// DefaultSessionCookieName is used when Config.Name is empty.
const DefaultSessionCookieName = "techstore_session"

// Config holds cookie configuration.
type Config struct {
	// Name of the session cookie.
	Name string

	// Domain scopes the cookie. Empty means host-only.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool

	// MaxAge is the lifetime of the session cookie.
	MaxAge time.Duration
}

// NewConfig creates a cookie configuration with the default name.
func NewConfig(secure bool, maxAge time.Duration) *Config {
	return &Config{
		Name:   DefaultSessionCookieName,
		Secure: secure,
		MaxAge: maxAge,
	}
}

func (c *Config) name() string {
	if c.Name == "" {
		return DefaultSessionCookieName
	}
	return c.Name
}

// SetSession sets the session cookie.
//
// The cookie is HttpOnly, SameSite=Lax and scoped to "/".
func (c *Config) SetSession(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the session id carried by the request, or "".
func (c *Config) SessionID(r *http.Request) string {
	return Get(r, c.name())
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
