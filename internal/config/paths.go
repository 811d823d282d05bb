package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "SNOWLOADER_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "snowloader.yaml"
	// ConfigDirName is the per-user and system config directory name
	ConfigDirName = "snowloader"

	userConfigFile = "config.yaml"
)

// ErrConfigExists is returned by WriteNew when the target file is present
var ErrConfigExists = errors.New("config file already exists")

// searchPaths lists config locations in lookup order. Unset variables
// contribute no entry.
func searchPaths(getenv func(string) string) []string {
	var paths []string
	if p := getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	paths = append(paths, userPaths(getenv)...)
	return append(paths, filepath.Join("/etc", ConfigDirName, userConfigFile))
}

// userPaths returns the XDG location, then the ~/.config fallback
func userPaths(getenv func(string) string) []string {
	var paths []string
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, userConfigFile))
	}
	if home := getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, userConfigFile))
	}
	return paths
}

// FindConfigPath returns the first existing config file, or "" when there is none.
// A relative match in the working directory is returned as an absolute path.
func FindConfigPath() string {
	for _, p := range searchPaths(os.Getenv) {
		if !fileExists(p) {
			continue
		}
		if p == ConfigFileName {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
		}
		return p
	}
	return ""
}

// DefaultConfigPath is where `snowloader init` writes when no path is given
func DefaultConfigPath() string {
	if paths := userPaths(os.Getenv); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

// WriteNew saves cfg to path. An existing file is only replaced when
// overwrite is set.
func WriteNew(cfg *Config, path string, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	return cfg.Save(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
