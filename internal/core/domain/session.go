package domain

import (
	"errors"
	"time"
)

// Credential store slot names.
const (
	SlotToken = "token"
	SlotUser  = "user"
)

// Session is a point-in-time view of who is logged in. It is the only
// authority on authentication state; values handed out are copies.
type Session struct {
	User          *User
	Token         string
	Authenticated bool
	// Initialized is true once startup hydration has finished. Until then an
	// absent user means "unknown", not "logged out".
	Initialized bool
}

var errSessionInvariant = errors.New("session invariant violated")

// Check verifies that user and token are either both present on an
// authenticated session or both absent on an anonymous one.
func (s Session) Check() error {
	if s.Authenticated {
		if s.User == nil || s.Token == "" {
			return errSessionInvariant
		}
		return nil
	}
	if s.User != nil || s.Token != "" {
		return errSessionInvariant
	}
	return nil
}

// Role returns the user's role, or "" for an anonymous session.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Clone returns a deep copy so callers cannot reach the owner's user record.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// SessionInvalidated is published by the request gateway after a
// server-asserted 401 logged the session out.
type SessionInvalidated struct {
	Method    string
	Path      string
	Status    int
	RequestID string
	At        time.Time
}

// ReturnState is auxiliary navigation state attached to a login redirect so
// the user can be sent back after signing in. It is never persisted.
type ReturnState struct {
	From string
}
