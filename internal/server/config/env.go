package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(c *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	envString("HTTP_ADDR", &c.EndpointAddrHTTP)
	envString("GRPC_ADDR", &c.EndpointAddrGRPC)
	envString("DATABASE_DSN", &c.DatabaseDSN)
	envString("SECRET_KEY", &c.SecretKey)
	envString("PUBLIC_URL", &c.PublicURL)
	envString("SMTP_HOST", &c.SMTPHost)
	envString("SMTP_USER", &c.SMTPUser)
	envString("SMTP_PASSWORD", &c.SMTPPassword)
	envString("SMTP_FROM", &c.SMTPFrom)
	envString("LOG_LEVEL", &c.LogLevel)

	return errors.Join(
		envDuration("ACCESS_TOKEN_TTL", &c.AccessTokenValidityDuration),
		envDuration("REFRESH_TOKEN_TTL", &c.RefreshTokenValidityDuration),
		envDuration("VERIFICATION_TOKEN_TTL", &c.VerificationTokenValidityDuration),
		envDuration("UNVERIFIED_RETENTION", &c.UnverifiedRetention),
		envDuration("CLEANUP_INTERVAL", &c.CleanupInterval),
		envInt("SMTP_PORT", &c.SMTPPort),
		envInt("MAIL_QUEUE_SIZE", &c.MailQueueSize),
		envInt("MAIL_WORKERS", &c.MailWorkers),
		envInt("MAX_CONCURRENT_HASHES", &c.MaxConcurrentHashes),
		envBool("COOKIE_SECURE", &c.CookieSecure),
	)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
