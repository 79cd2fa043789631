// Package theme resolves the visitor's dark/light preference.
package theme

import (
	"net/http"
	"strings"
	"time"
)

// Preference is the active color scheme.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

const (
	// CookieName holds the persisted preference.
	CookieName = "theme"
	// HintHeader is the user-agent client hint consulted when no cookie is set.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"

	cookieMaxAge = 365 * 24 * time.Hour
)

// Parse maps a stored value to a Preference. Unknown values report ok=false.
func Parse(s string) (Preference, bool) {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return Light, false
}

// IsDark is used by templates.
func (p Preference) IsDark() bool { return p == Dark }

// Toggle flips the preference.
func (p Preference) Toggle() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Preference) String() string { return string(p) }

// FromRequest reads the cookie, then the client hint, and defaults to Light.
func FromRequest(r *http.Request) Preference {
	if c, err := r.Cookie(CookieName); err == nil {
		if p, ok := Parse(c.Value); ok {
			return p
		}
	}
	if p, ok := Parse(r.Header.Get(HintHeader)); ok {
		return p
	}
	return Light
}

// Cookie builds the cookie that persists p.
func Cookie(p Preference, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    p.String(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
