package config

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://admin.example.com").
	// Used when generating absolute URLs in responses.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}

	// Refuse to scope cookies to a public suffix (e.g. "com" or "co.uk"):
	// browsers drop such cookies and a typo here would silently break login.
	domain := strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), ".")
	if domain != "" {
		if suffix, icann := publicsuffix.PublicSuffix(domain); icann && suffix == domain {
			h.CookieDomain = ""
			return
		}
		h.CookieDomain = domain
	}
}
