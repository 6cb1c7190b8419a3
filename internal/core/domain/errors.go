package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCorruptCredential marks an unreadable stored credential. Hydration
	// recovers from it locally; it is only ever logged.
	ErrCorruptCredential = errors.New("corrupt stored credential")
	// ErrAuthRejected is a 4xx answer to a credential submission (login,
	// signup, forgot-password). The session is left untouched.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrSessionExpired is a 401 on an endpoint that requires a session.
	ErrSessionExpired = errors.New("session expired")
	// ErrTransport means no response was received at all.
	ErrTransport = errors.New("transport failure")

	ErrNoUser            = errors.New("no user in session")
	ErrEmptyToken        = errors.New("credentials require a user and a non-empty token")
	ErrMalformedResponse = errors.New("malformed server response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
	// Exempt is set when Path is a credential-submission endpoint.
	Exempt bool
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Is lets callers branch on the error kind with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.Status == http.StatusUnauthorized && !e.Exempt
	case ErrAuthRejected:
		return e.Exempt && e.Status >= 400 && e.Status < 500
	}
	return false
}

// TransportError wraps a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
