package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthRequired is returned when an authenticated call is attempted without
// an access token. Callers surface it to the UI layer for a login prompt.
var ErrAuthRequired = errors.New("authentication required")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err carries an upstream 401 or is ErrAuthRequired.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrAuthRequired) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}
