package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("MAIL_WORKERS", "7")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 2525, c.SMTPPort)
	assert.False(t, c.CookieSecure)
	assert.Equal(t, 7, c.MailWorkers)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	t.Setenv("CLEANUP_INTERVAL", "often")
	t.Setenv("SMTP_PORT", "smtp")

	var c Config
	c.LoadDefaults()
	err := parseEnv(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLEANUP_INTERVAL")
	assert.Contains(t, err.Error(), "SMTP_PORT")
	assert.Equal(t, 24*time.Hour, c.CleanupInterval)
}
