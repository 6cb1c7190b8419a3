package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// Backend endpoints used by the auth flows.
const (
	PathLogin          = "/auth/login"
	PathSignup         = "/auth/signup"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathProfile        = "/auth/profile"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

type signupRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

type signupResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// AuthService drives the credential flows against the backend and feeds the
// results into the session state machine.
type AuthService struct {
	api      ports.APIClient
	sessions ports.SessionWriter
	log      zerolog.Logger
}

func NewAuthService(api ports.APIClient, sessions ports.SessionWriter, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, log: log}
}

// Login submits credentials and, on success, replaces the session. A
// rejected login leaves the session untouched and returns an error matching
// domain.ErrAuthRejected.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var resp loginResponse
	if err := s.api.Do(ctx, http.MethodPost, PathLogin, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		s.log.Warn().Bool("has_token", resp.AccessToken != "").Bool("has_user", resp.User != nil).Msg("incomplete login response")
		return nil, fmt.Errorf("login: %w", domain.ErrMalformedResponse)
	}

	if err := s.sessions.SetCredentials(ctx, *resp.User, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	user := *resp.User
	return &user, nil
}

// Signup registers a normal user. It does not sign the user in.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	req := signupRequest{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      domain.RoleNormal,
	}
	var resp signupResponse
	if err := s.api.Do(ctx, http.MethodPost, PathSignup, req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("signup: %w", domain.ErrMalformedResponse)
	}
	return resp.User, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := s.api.Do(ctx, http.MethodPost, PathForgotPassword, map[string]string{"email": email}, &resp); err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}
	return resp.Message, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var resp messageResponse
	body := map[string]string{"token": token, "password": password}
	if err := s.api.Do(ctx, http.MethodPost, PathResetPassword, body, &resp); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return resp.Message, nil
}

// RefreshProfile reloads the signed-in user's profile and merges it into the
// session. A profile for a different user id is refused.
func (s *AuthService) RefreshProfile(ctx context.Context) (*domain.User, error) {
	cur := s.sessions.Snapshot()
	if cur.User == nil {
		return nil, domain.ErrNoUser
	}

	var profile *domain.User
	if err := s.api.Do(ctx, http.MethodGet, PathProfile, nil, &profile); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	if profile == nil || profile.ID != cur.User.ID {
		return nil, fmt.Errorf("refresh profile: %w", domain.ErrMalformedResponse)
	}

	if err := s.sessions.UpdateUser(ctx, domain.PatchFrom(*profile)); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	return s.sessions.Snapshot().User, nil
}

// UpdateProfile sends a partial update for the signed-in user and merges the
// server's answer into the session.
func (s *AuthService) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	cur := s.sessions.Snapshot()
	if cur.User == nil {
		return nil, domain.ErrNoUser
	}

	var updated *domain.User
	path := "/users/" + url.PathEscape(cur.User.ID)
	if err := s.api.Do(ctx, http.MethodPatch, path, patch, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	merge := patch
	if updated != nil {
		if updated.ID != cur.User.ID {
			return nil, fmt.Errorf("update profile: %w", domain.ErrMalformedResponse)
		}
		merge = domain.PatchFrom(*updated)
	}
	if err := s.sessions.UpdateUser(ctx, merge); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.sessions.Snapshot().User, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}
