package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved is returned when an unresolved decision is asked for credentials
var ErrUnresolved = errors.New("auth: no authentication method resolved")

// ConfigError reports an unusable configuration: a missing instance or no
// satisfiable authentication method. Checked lists what was inspected, in
// order.
type ConfigError struct {
	Reason  string
	Checked []string
}

func (e *ConfigError) Error() string {
	if len(e.Checked) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (checked: %s)", e.Reason, strings.Join(e.Checked, "; "))
}

// IsConfigError reports whether err is or wraps a *ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
