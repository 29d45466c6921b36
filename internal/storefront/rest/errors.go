package rest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no session token is present for an operation
	// that needs one. It is raised before any network call.
	ErrUnauthenticated = errors.New("please login to continue")
	// ErrSessionExpired means the server answered 401; the stored session has
	// already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired, please login again")
)

// APIError is a failed request: non-2xx status or a success:false envelope.
// Message carries the payload message when the server sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// NetworkError wraps a transport-level failure (connection refused, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
