package handler

import (
	"encoding/json"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	From     string `json:"from"     form:"from"`
}

type signupRequest struct {
	Email     string `json:"email"     form:"email"     validate:"required,email"`
	Password  string `json:"password"  form:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName"  form:"lastName"  validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    form:"token"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// profileRequest carries the editable profile fields. Role is not editable
// from the shell.
type profileRequest struct {
	Email     *string `json:"email"     validate:"omitempty,email"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1"`
}

// --- Response types ---

type loginView struct {
	View string `json:"view"`
	From string `json:"from,omitempty"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type dashboardView struct {
	View      string                     `json:"view"`
	Variant   domain.Variant             `json:"variant"`
	User      *domain.User               `json:"user"`
	Resources map[string]json.RawMessage `json:"resources"`
}

type listView struct {
	View  string          `json:"view"`
	Items json.RawMessage `json:"items"`
}

type profileView struct {
	View string       `json:"view"`
	User *domain.User `json:"user"`
}
