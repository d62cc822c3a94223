package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromEnv(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-signing-key")

	cfg := loadFromEnv(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, time.Hour, cfg.Session.RefreshWindow)
	assert.Equal(t, 2*time.Hour, cfg.Session.NearExpiryWindow)
	assert.Equal(t, 15*time.Minute, cfg.Session.WarningWindow)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, "csrf-token", cfg.Session.CSRFCookieName)
	assert.Equal(t, 12, cfg.Login.BcryptCost)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Revalidate.Enabled)
	assert.False(t, cfg.Statsd.Enabled)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-signing-key")
	t.Setenv("NODE_ENV", "development")

	cfg := loadFromEnv(t)

	assert.True(t, cfg.IsDev)
}

func TestSessionConfig_SanitizeClampsWindows(t *testing.T) {
	s := SessionConfig{
		Lifetime:         -1,
		RefreshWindow:    48 * time.Hour, // wider than lifetime
		NearExpiryWindow: time.Minute,    // narrower than refresh window
	}
	s.Sanitize()

	assert.Equal(t, 24*time.Hour, s.Lifetime)
	assert.Equal(t, time.Hour, s.RefreshWindow)
	assert.Equal(t, 2*time.Hour, s.NearExpiryWindow)
	assert.Equal(t, 15*time.Minute, s.WarningWindow)
}

func TestLoginConfig_SanitizeEnforcesMinimumCost(t *testing.T) {
	l := LoginConfig{BcryptCost: 4}
	l.Sanitize()
	assert.Equal(t, 12, l.BcryptCost)

	l = LoginConfig{BcryptCost: 99}
	l.Sanitize()
	assert.Equal(t, 31, l.BcryptCost)
}

func TestHTTPConfig_SanitizeRejectsPublicSuffixCookieDomain(t *testing.T) {
	h := HTTPConfig{CookieDomain: ".com"}
	h.Sanitize()
	assert.Empty(t, h.CookieDomain)

	h = HTTPConfig{CookieDomain: ".admin.example.com"}
	h.Sanitize()
	assert.Equal(t, "admin.example.com", h.CookieDomain)
}

func TestRevalidateConfig_SanitizeDisablesWithoutURL(t *testing.T) {
	r := RevalidateConfig{Enabled: true, URL: "  "}
	r.Sanitize()

	assert.False(t, r.Enabled)
	assert.Equal(t, 10*time.Second, r.Timeout)
}
