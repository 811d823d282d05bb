package servicenow

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx Table API response
type APIError struct {
	StatusCode int
	Method     string
	Table      string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("servicenow %s %s: status %d: %s", e.Method, e.Table, e.StatusCode, e.Body)
}

// IsAPIError reports whether err is or wraps an *APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// ErrEmptySysID is returned for record operations without a sys_id
var ErrEmptySysID = errors.New("servicenow: sys_id is required")
