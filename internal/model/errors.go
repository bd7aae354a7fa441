package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores and caches for missing entries.
	ErrNotFound = errors.New("not found")
	// ErrSessionExpired means the stored session could not be renewed and was cleared.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoRefreshToken means a refresh was needed but no refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrNotAuthenticated means the operation needs a stored session and there is none.
	ErrNotAuthenticated = errors.New("not signed in")
)

// SessionError is returned when a token refresh fails. Credentials have been
// cleared by the time the caller sees it.
type SessionError struct {
	Status  int
	Message string
	Err     error
}

func (e *SessionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("session expired: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("session expired: refresh rejected with status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("session expired: refresh rejected with status %d", e.Status)
	}
}

// Is makes every SessionError match ErrSessionExpired.
func (e *SessionError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// TransportError wraps failures that produced no usable response:
// the server was unreachable or answered with a body that is not JSON.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
