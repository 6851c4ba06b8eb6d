package api

import (
	"errors"
	"net/http"
)

// APIError represents a remote API error response. Message comes from
// the response body (detail or error field) and falls back to the HTTP
// status line.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuthRequired reports whether err is a remote authorization failure
// (missing, invalid, or expired credential). Pages use this to render
// "please log in" instead of a generic error.
func IsAuthRequired(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a remote 409, e.g. a duplicate
// review or a taken username.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsValidation reports whether err is a remote 4xx carrying a
// field-level message, excluding the classes above.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
