package ports

import (
	"context"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// SessionReader is the read side of the session state machine.
type SessionReader interface {
	Snapshot() domain.Session
	Subscribe(fn func(domain.Session)) (unsubscribe func())
}

// TokenAuthority is what the request gateway needs: the current token at
// injection time and the compare-and-logout used by the reauth protocol.
type TokenAuthority interface {
	Token() string
	InvalidateToken(ctx context.Context, token string) (bool, error)
}

// SessionWriter exposes the named transitions to the auth service.
type SessionWriter interface {
	SessionReader
	SetCredentials(ctx context.Context, user domain.User, token string) error
	UpdateUser(ctx context.Context, patch domain.UserPatch) error
	Logout(ctx context.Context) error
}
