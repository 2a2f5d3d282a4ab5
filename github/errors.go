package github

import (
	"errors"
	"fmt"
)

// ErrInvalidRepo is returned by ParseRepo when the input is neither an
// owner/repo pair nor a github.com HTTPS URL.
var ErrInvalidRepo = errors.New("invalid repository reference")

// APIError is a non-2xx response from the GitHub API with the provider's
// message preserved for display.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GitHub %s (%d): %s", e.Endpoint, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("GitHub %s returned status %d", e.Endpoint, e.StatusCode)
}

// AuthError wraps an error caused by a rejected credential (401/403).
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError, meaning the token was rejected and retrying is pointless.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// NotFoundError wraps a 404 from the API. Callers distinguish a missing
// branch (recoverable, first push) from a missing repository (fatal).
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string { return e.Err.Error() }
func (e *NotFoundError) Unwrap() error { return e.Err }

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
