package config

import "strings"

// StatsdConfig contains metrics emission configuration. Metrics are
// best-effort UDP; a missing collector never affects request handling.
type StatsdConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR"    envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"shopmill.admin"`
}

// Sanitize applies guardrails to statsd configuration values.
func (s *StatsdConfig) Sanitize() {
	s.Addr = strings.TrimSpace(s.Addr)
	if s.Addr == "" {
		s.Enabled = false
	}
}
