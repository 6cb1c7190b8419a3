package ports

import (
	"context"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// SignupInput is the registration form. The role is always assigned by the
// client, never taken from the form.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
	RefreshProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error)
	Logout(ctx context.Context) error
}

// DashboardService loads the opaque payloads shown by a dashboard variant.
type DashboardService interface {
	Load(ctx context.Context, variant domain.Variant) (*domain.Dashboard, error)
}
