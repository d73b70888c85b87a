package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind separates transport failures from application failures.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindTimeout   ErrorKind = "timeout"
	KindHTTP      ErrorKind = "http"
	KindDecode    ErrorKind = "decode"
)

// APIError is returned for every failed exchange with the backend.
type APIError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`

	Kind   ErrorKind `json:"-"`
	Status int       `json:"-"`
	cause  error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Code)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// AsAPIError reports whether err carries an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an HTTP failure with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindHTTP && apiErr.Status == status
}
