package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_STORE", "")
	cfg := Load()
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, "sqlite", cfg.SessionStore)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.shop.test/")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	cfg := Load()
	assert.Equal(t, "https://api.shop.test", cfg.APIBaseURL)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestGetDurationRejectsGarbage(t *testing.T) {
	t.Setenv("X_DUR", "soon")
	assert.Equal(t, time.Minute, getDuration("X_DUR", time.Minute))
	t.Setenv("X_DUR", "-5s")
	assert.Equal(t, time.Minute, getDuration("X_DUR", time.Minute))
}

func TestRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "")
	assert.Equal(t, 120, Load().RateLimit)
	t.Setenv("RATE_LIMIT", "30")
	assert.Equal(t, 30, Load().RateLimit)
	t.Setenv("RATE_LIMIT", "0")
	assert.Equal(t, 120, Load().RateLimit)
}
