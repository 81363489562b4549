package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend answers 401. Callers treat it
// as "session revoked", not as a displayable failure.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotModified is an internal signal for HTTP 304; profile calls convert it
// to [ProfileNotModified] before it crosses the package boundary.
var ErrNotModified = errors.New("not modified")

// APIError is any non-2xx backend answer other than 401/304. The identity
// held by the caller stays valid; the error is for optional display only.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s returned %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api: %s returned %d: %s", e.Path, e.Status, e.Message)
}

// IsUnauthorized reports whether err represents a 401 from any endpoint.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}
