package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment overrides for non-secret settings
const (
	EnvDatabasePath = "SNOWLOADER_DB"
	EnvSecrets      = "SNOWLOADER_SECRETS"
	EnvOPVault      = "SNOWLOADER_OP_VAULT"
	EnvOPItem       = "SNOWLOADER_OP_ITEM"
	EnvTimeout      = "SNOWLOADER_TIMEOUT"
	EnvQueryLimit   = "SNOWLOADER_QUERY_LIMIT"
)

// applyEnvOverrides overrides config values with environment variables if set.
// Invalid values fail fast.
func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	if path := getenv(EnvDatabasePath); path != "" {
		c.Database.Path = path
	}
	if enabled := getenv(EnvSecrets); enabled != "" {
		e, err := parseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSecrets, enabled, err)
		}
		c.Secrets.Enabled = &e
	}
	if vault := getenv(EnvOPVault); vault != "" {
		c.Secrets.Vault = vault
	}
	if item := getenv(EnvOPItem); item != "" {
		c.Secrets.Item = item
	}
	if timeout := getenv(EnvTimeout); timeout != "" {
		t, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, timeout, err)
		}
		c.ServiceNow.Timeout = Duration(t)
	}
	if limit := getenv(EnvQueryLimit); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l <= 0 {
			return fmt.Errorf("invalid %s %q", EnvQueryLimit, limit)
		}
		c.ServiceNow.QueryLimit = l
	}

	return nil
}

// parseBool accepts "true", "1", "yes", "on" for true and "false", "0",
// "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
