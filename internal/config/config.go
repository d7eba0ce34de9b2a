package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Session token signing. The secret is process-wide; no rotation.
	TokenSecret   string        `mapstructure:"token_secret" yaml:"token_secret"`
	TokenIssuer   string        `mapstructure:"token_issuer" yaml:"token_issuer"`
	TokenAudience string        `mapstructure:"token_audience" yaml:"token_audience"`
	TokenTTL      time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`

	// AdminIdentity is the identity id allowed to run moderation actions.
	AdminIdentity string `mapstructure:"admin_identity" yaml:"admin_identity"`

	// IdentityProviderURL is the credential verification endpoint.
	IdentityProviderURL string `mapstructure:"identity_provider_url" yaml:"identity_provider_url"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "cove.db",
		LogLevel:          "info",
		TokenIssuer:       "cove",
		TokenAudience:     "cove",
		TokenTTL:          30 * 24 * time.Hour,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.TokenSecret != "" {
		c.TokenSecret = other.TokenSecret
	}
	if other.TokenIssuer != "" {
		c.TokenIssuer = other.TokenIssuer
	}
	if other.TokenAudience != "" {
		c.TokenAudience = other.TokenAudience
	}
	if other.TokenTTL != 0 {
		c.TokenTTL = other.TokenTTL
	}
	if other.AdminIdentity != "" {
		c.AdminIdentity = other.AdminIdentity
	}
	if other.IdentityProviderURL != "" {
		c.IdentityProviderURL = other.IdentityProviderURL
	}
}
