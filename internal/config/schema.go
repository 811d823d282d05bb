package config

import (
	"time"
)

// Config is the root configuration structure. It never holds secrets:
// passwords, API keys and tokens come from the environment or 1Password.
type Config struct {
	Version    int              `yaml:"version"`
	ServiceNow ServiceNowConfig `yaml:"servicenow"`
	Secrets    SecretsConfig    `yaml:"secrets"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceNowConfig holds non-secret connection settings
type ServiceNowConfig struct {
	Instance   string   `yaml:"instance,omitempty"`
	Username   string   `yaml:"username,omitempty"`
	Timeout    Duration `yaml:"timeout,omitempty"`
	QueryLimit int      `yaml:"query_limit,omitempty"`
}

// SecretsConfig describes where 1Password lookups go (item names, not values)
type SecretsConfig struct {
	Enabled *bool             `yaml:"enabled,omitempty"` // nil = enabled
	Binary  string            `yaml:"binary,omitempty"`
	Vault   string            `yaml:"vault,omitempty"`
	Item    string            `yaml:"item,omitempty"`
	Fields  map[string]string `yaml:"fields,omitempty"` // slot -> item field label
	Timeout Duration          `yaml:"timeout,omitempty"`
}

// DatabaseConfig holds the load ledger location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig mirrors logger.Config
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`
	Debug      bool   `yaml:"debug,omitempty"`
	Output     string `yaml:"output,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
