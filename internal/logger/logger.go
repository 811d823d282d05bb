// Package logger owns the process-wide zerolog logger. Commands call Init
// once after reading config; packages take a component-tagged child.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var root = zerolog.New(os.Stderr).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Config selects level, destination and timestamp layout
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"` // stderr or stdout
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

// DefaultConfig reads LOG_LEVEL, LOG_OUTPUT, LOG_TIME_FORMAT and DEBUG.
func DefaultConfig() Config {
	cfg := Config{
		Level:      os.Getenv("LOG_LEVEL"),
		Output:     os.Getenv("LOG_OUTPUT"),
		TimeFormat: os.Getenv("LOG_TIME_FORMAT"),
	}
	switch os.Getenv("DEBUG") {
	case "1", "true", "TRUE", "True", "yes", "on":
		cfg.Debug = true
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
	return cfg
}

func (c Config) level() (zerolog.Level, error) {
	if c.Debug {
		return zerolog.DebugLevel, nil
	}
	if c.Level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(c.Level)
}

func (c Config) writer() (io.Writer, error) {
	switch c.Output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}
	return nil, fmt.Errorf("unknown log output %q", c.Output)
}

// Init rebuilds the process logger from cfg. On error the previous logger stays.
func Init(cfg Config) error {
	lvl, err := cfg.level()
	if err != nil {
		return err
	}
	w, err := cfg.writer()
	if err != nil {
		return err
	}
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	root = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	log.Logger = root
	return nil
}

func Info() *zerolog.Event {
	return root.Info()
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
