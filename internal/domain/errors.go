package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a required field that could not be populated.
type ValidationError struct {
	Record string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required field %q is missing", e.Record, e.Field)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
