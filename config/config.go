// Package config loads identikit configuration from a YAML file and/or
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// ProjectID is the identity platform project. Falls back to the
	// GOOGLE_CLOUD_PROJECT environment variable when empty.
	ProjectID string `yaml:"project_id"`

	// CredentialsFile is an optional service-account key file. When empty,
	// application-default credential discovery applies.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents token-verification settings
type AuthConfig struct {
	// EmulatorHost points verification at a local emulator ("host:port").
	EmulatorHost string `yaml:"emulator_host,omitempty"`

	// KeyRefreshInterval is a duration string ("1h", "30m") bounding
	// signing-key staleness. Empty means the library default.
	KeyRefreshInterval string `yaml:"key_refresh_interval,omitempty"`

	// TenantID scopes verification to a single tenant when set.
	TenantID string `yaml:"tenant_id,omitempty"`
}

// Load reads configuration from the specified YAML file.
// An empty path loads entirely from environment variables.
// Environment variables override file values:
// - IDENTIKIT_PROJECT_ID overrides project_id
// - IDENTIKIT_CREDENTIALS_FILE overrides credentials_file
// - IDENTIKIT_AUTH_EMULATOR_HOST overrides auth.emulator_host
// - IDENTIKIT_AUTH_TENANT_ID overrides auth.tenant_id
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv builds a configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("IDENTIKIT_PROJECT_ID"); v != "" {
		c.ProjectID = v
	}
	if c.ProjectID == "" {
		c.ProjectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if v := os.Getenv("IDENTIKIT_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("IDENTIKIT_AUTH_EMULATOR_HOST"); v != "" {
		c.ensureAuth().EmulatorHost = v
	}
	if v := os.Getenv("IDENTIKIT_AUTH_TENANT_ID"); v != "" {
		c.ensureAuth().TenantID = v
	}
}

func (c *Config) ensureAuth() *AuthConfig {
	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	return c.Auth
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project_id is required (or set IDENTIKIT_PROJECT_ID / GOOGLE_CLOUD_PROJECT)")
	}

	if c.Auth != nil && c.Auth.KeyRefreshInterval != "" {
		if _, err := time.ParseDuration(c.Auth.KeyRefreshInterval); err != nil {
			return fmt.Errorf("auth.key_refresh_interval %q is not a valid duration", c.Auth.KeyRefreshInterval)
		}
	}

	return nil
}

// KeyRefreshInterval returns the parsed refresh interval, or zero when unset
// so the library default applies.
func (c *Config) KeyRefreshInterval() time.Duration {
	if c.Auth == nil || c.Auth.KeyRefreshInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Auth.KeyRefreshInterval)
	if err != nil {
		return 0
	}
	return d
}
