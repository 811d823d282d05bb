// Package config provides configuration management for snowloader.
//
// The config file holds non-secret settings only: the instance, the
// username, where to look in 1Password, the ledger path and logging.
// Values from it act as explicit arguments to credential resolution unless
// a CLI flag overrides them.
//
// Config file locations (priority order):
//  1. $SNOWLOADER_CONFIG
//  2. ./snowloader.yaml
//  3. $XDG_CONFIG_HOME/snowloader/config.yaml
//  4. ~/.config/snowloader/config.yaml
//  5. /etc/snowloader/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"snowloader/internal/credentials"
	"snowloader/internal/logger"
)

const (
	DefaultDatabasePath  = "./snowloader.db"
	DefaultTimeout       = 30 * time.Second
	DefaultSecretTimeout = 5 * time.Second
	DefaultQueryLimit    = 100
	DefaultOPBinary      = "op"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnvOverrides(os.Getenv); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, os.Getenv)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Parse decodes a config document and applies defaults and env overrides
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnvOverrides(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.ServiceNow.Timeout == 0 {
		c.ServiceNow.Timeout = Duration(DefaultTimeout)
	}
	if c.ServiceNow.QueryLimit == 0 {
		c.ServiceNow.QueryLimit = DefaultQueryLimit
	}
	if c.Secrets.Binary == "" {
		c.Secrets.Binary = DefaultOPBinary
	}
	if c.Secrets.Item == "" {
		c.Secrets.Item = credentials.DefaultItem
	}
	if c.Secrets.Timeout == 0 {
		c.Secrets.Timeout = Duration(DefaultSecretTimeout)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
}

// Validate rejects settings no component can use
func (c *Config) Validate() error {
	if c.ServiceNow.QueryLimit < 0 {
		return fmt.Errorf("servicenow.query_limit must be positive")
	}
	for slot := range c.Secrets.Fields {
		if !knownSlot(credentials.Slot(slot)) {
			return fmt.Errorf("secrets.fields: unknown credential slot %q", slot)
		}
	}
	return nil
}

func knownSlot(slot credentials.Slot) bool {
	for _, s := range credentials.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// SecretsEnabled reports whether 1Password should be consulted
func (c *Config) SecretsEnabled() bool {
	return c.Secrets.Enabled == nil || *c.Secrets.Enabled
}

// SecretFields returns the per-slot 1Password field overrides
func (c *Config) SecretFields() map[credentials.Slot]string {
	if len(c.Secrets.Fields) == 0 {
		return nil
	}
	out := make(map[credentials.Slot]string, len(c.Secrets.Fields))
	for slot, field := range c.Secrets.Fields {
		out[credentials.Slot(slot)] = field
	}
	return out
}

// ExplicitCredentials returns the config file's credential values. Only
// non-secret slots are ever taken from the file.
func (c *Config) ExplicitCredentials() credentials.ExplicitValues {
	return credentials.ExplicitValues{
		Instance: c.ServiceNow.Instance,
		Username: c.ServiceNow.Username,
	}
}

// LoggerConfig merges the logging block over the environment defaults
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	if c.Logging.Level != "" {
		cfg.Level = c.Logging.Level
	}
	if c.Logging.Debug {
		cfg.Debug = true
	}
	if c.Logging.Output != "" {
		cfg.Output = c.Logging.Output
	}
	if c.Logging.TimeFormat != "" {
		cfg.TimeFormat = c.Logging.TimeFormat
	}
	return cfg
}

// Summary returns a human-readable config summary without secrets
func (c *Config) Summary() string {
	instance := c.ServiceNow.Instance
	if instance == "" {
		instance = "(from " + credentials.SlotInstance.EnvVar() + " or 1Password)"
	}

	summary := fmt.Sprintf("Instance: %s, Timeout: %s, Query limit: %d\n",
		instance, c.ServiceNow.Timeout.Duration(), c.ServiceNow.QueryLimit)
	if c.SecretsEnabled() {
		summary += fmt.Sprintf("1Password: item %q via %s", c.Secrets.Item, c.Secrets.Binary)
		if c.Secrets.Vault != "" {
			summary += fmt.Sprintf(" (vault %q)", c.Secrets.Vault)
		}
	} else {
		summary += "1Password: disabled"
	}
	summary += fmt.Sprintf("\nLedger: %s", c.Database.Path)

	return summary
}
