package config

import (
	"strings"
	"time"
)

// RevalidateConfig contains storefront revalidation configuration.
//
// After catalog mutations the admin API notifies the storefront so it can
// rebuild the affected pages. The call is asynchronous and best-effort.
type RevalidateConfig struct {
	// Enabled toggles revalidation dispatch. Disabled by default so local
	// development does not need a running storefront.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// URL is the storefront revalidation endpoint.
	URL string `env:"URL" envDefault:"http://localhost:3000/api/revalidate"`

	// Secret is the shared secret sent in the x-revalidate-secret header.
	Secret string `env:"SECRET" envDefault:""`

	// AckExpr is a JMESPath expression evaluated against the storefront
	// response body; it must yield true for the call to count as acknowledged.
	AckExpr string `env:"ACK_EXPR" envDefault:"revalidated"`

	// Timeout bounds each revalidation request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to revalidation configuration values.
func (r *RevalidateConfig) Sanitize() {
	r.URL = strings.TrimSpace(r.URL)
	if r.Timeout <= 0 {
		r.Timeout = 10 * time.Second
	}
	// A revalidation target without a URL cannot be dispatched to.
	if r.URL == "" {
		r.Enabled = false
	}
}
