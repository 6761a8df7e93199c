package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophaccounts/internal/flagx"
	"github.com/dmitrijs2005/gophaccounts/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. Pointer fields distinguish "absent" from zero, so a file only
// overrides the keys it names.
type JsonConfig struct {
	EndpointAddrHTTP                  *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC                  *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                       *string         `json:"database_dsn"`
	SecretKey                         *string         `json:"secret_key"`
	AccessTokenValidityDuration       *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration      *timex.Duration `json:"refresh_token_validity_duration"`
	VerificationTokenValidityDuration *timex.Duration `json:"verification_token_validity_duration"`
	UnverifiedRetention               *timex.Duration `json:"unverified_retention"`
	CleanupInterval                   *timex.Duration `json:"cleanup_interval"`
	PublicURL                         *string         `json:"public_url"`
	SMTPHost                          *string         `json:"smtp_host"`
	SMTPPort                          *int            `json:"smtp_port"`
	SMTPUser                          *string         `json:"smtp_user"`
	SMTPPassword                      *string         `json:"smtp_password"`
	SMTPFrom                          *string         `json:"smtp_from"`
	MailQueueSize                     *int            `json:"mail_queue_size"`
	MailWorkers                       *int            `json:"mail_workers"`
	MaxConcurrentHashes               *int            `json:"max_concurrent_hashes"`
	CookieSecure                      *bool           `json:"cookie_secure"`
	LogLevel                          *string         `json:"log_level"`
}

// jsonConfigPath returns the file given with -c or -config, if any.
func jsonConfigPath() string {
	return flagx.JsonConfigFlags()
}

// parseJson loads configuration values from the JSON file at path into the
// provided Config. An empty path loads nothing.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PublicURL, c.PublicURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.VerificationTokenValidityDuration != nil {
		config.VerificationTokenValidityDuration = c.VerificationTokenValidityDuration.Duration
	}
	if c.UnverifiedRetention != nil {
		config.UnverifiedRetention = c.UnverifiedRetention.Duration
	}
	if c.CleanupInterval != nil {
		config.CleanupInterval = c.CleanupInterval.Duration
	}

	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.MailQueueSize != nil {
		config.MailQueueSize = *c.MailQueueSize
	}
	if c.MailWorkers != nil {
		config.MailWorkers = *c.MailWorkers
	}
	if c.MaxConcurrentHashes != nil {
		config.MaxConcurrentHashes = *c.MaxConcurrentHashes
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
