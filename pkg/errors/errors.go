package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any StatusError carrying a 404.
var ErrNotFound = NewStatusError(http.MethodGet, "", http.StatusNotFound)

// StatusError represents a non-2xx response from the users backend
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// NewStatusError creates a new status error
func NewStatusError(method, url string, statusCode int) *StatusError {
	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
	}
}

// Error implements the error interface
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is reports whether target is a StatusError with the same status code.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// TransportError represents a failure to reach the users backend
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// NewTransportError creates a new transport error
func NewTransportError(method, url string, err error) *TransportError {
	return &TransportError{
		Method: method,
		URL:    url,
		Err:    err,
	}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the wrapped error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError represents a response body that could not be decoded
type DecodeError struct {
	URL string
	Err error
}

// NewDecodeError creates a new decode error
func NewDecodeError(url string, err error) *DecodeError {
	return &DecodeError{
		URL: url,
		Err: err,
	}
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

// Unwrap returns the wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a backend response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
