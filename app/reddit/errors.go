package reddit

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Reddit API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit: http %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a revoked or invalid credential
// response. Reddit answers 400 on a bad refresh grant and 401 on a bad
// access token.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response, e.g. an item that was
// already deleted. Callers treat this as skip-equivalent, not fatal.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound
}

// IsTransient reports whether err is a 5xx response from Reddit.
func IsTransient(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 500
}
