package secretstore

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"snowloader/internal/logger"
)

const (
	// DefaultBinary is the 1Password CLI executable name
	DefaultBinary = "op"
	// DefaultTimeout bounds every CLI invocation
	DefaultTimeout = 5 * time.Second
)

// OnePassword looks up item fields through the 1Password CLI.
type OnePassword struct {
	binary   string
	vault    string
	timeout  time.Duration
	runner   Runner
	lookPath func(string) (string, error)
	log      zerolog.Logger
}

// Option configures a OnePassword store
type Option func(*OnePassword)

// WithBinary overrides the CLI executable name or path
func WithBinary(binary string) Option {
	return func(o *OnePassword) {
		if binary != "" {
			o.binary = binary
		}
	}
}

// WithVault restricts item lookups to a vault
func WithVault(vault string) Option {
	return func(o *OnePassword) {
		o.vault = vault
	}
}

// WithTimeout sets the per-invocation timeout
func WithTimeout(d time.Duration) Option {
	return func(o *OnePassword) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRunner replaces the process runner
func WithRunner(r Runner) Option {
	return func(o *OnePassword) {
		o.runner = r
	}
}

// WithLookPath replaces the PATH lookup used by Available
func WithLookPath(fn func(string) (string, error)) Option {
	return func(o *OnePassword) {
		o.lookPath = fn
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *OnePassword) {
		o.log = l
	}
}

// New creates a 1Password CLI store
func New(opts ...Option) *OnePassword {
	o := &OnePassword{
		binary:   DefaultBinary,
		timeout:  DefaultTimeout,
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
		log:      logger.WithComponent("secretstore"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Available reports whether the CLI binary can be found
func (o *OnePassword) Available() bool {
	_, err := o.lookPath(o.binary)
	return err == nil
}

// SignedIn reports whether the CLI has an authenticated session
func (o *OnePassword) SignedIn(ctx context.Context) bool {
	_, err := o.run(ctx, "whoami")
	return err == nil
}

// Lookup returns the value of field in item, or false if it cannot be read
// for any reason.
func (o *OnePassword) Lookup(ctx context.Context, item, field string) (string, bool) {
	if item == "" || field == "" {
		return "", false
	}

	log := o.log.With().Str("item", item).Str("field", field).Logger()

	if !o.Available() {
		log.Debug().Str("binary", o.binary).Msg("1Password CLI not installed, skipping")
		return "", false
	}

	if !o.SignedIn(ctx) {
		log.Debug().Msg("1Password CLI not signed in, skipping")
		return "", false
	}

	args := []string{"item", "get", item, "--fields", "label=" + field, "--reveal"}
	if o.vault != "" {
		args = append(args, "--vault", o.vault)
	}

	out, err := o.run(ctx, args...)
	if err != nil {
		log.Debug().Err(err).Msg("1Password lookup failed")
		return "", false
	}

	value := strings.TrimRight(string(out), "\r\n")
	if value == "" {
		log.Debug().Msg("1Password field empty or not found")
		return "", false
	}

	return value, true
}

func (o *OnePassword) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.runner.Run(ctx, o.binary, args...)
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return out, nil
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args, returning stdout. A non-zero exit status is
// returned as an error carrying the trimmed stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Join(err, errors.New(msg))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}
