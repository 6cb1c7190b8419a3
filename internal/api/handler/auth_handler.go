package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// Navigator is the slice of the shell navigator the handlers use.
type Navigator interface {
	Redirect(to string, state *domain.ReturnState) bool
	ReturnState() *domain.ReturnState
}

// Paths are the two fixed navigation targets.
type Paths struct {
	Login   string
	Landing string
}

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionReader
	nav      Navigator
	paths    Paths
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionReader, nav Navigator, paths Paths, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, nav: nav, paths: paths, log: log}
}

// LoginPage handles GET /login. A signed-in user is sent to the landing view.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if h.sessions.Snapshot().Authenticated {
		h.nav.Redirect(h.paths.Landing, nil)
		return c.Redirect(http.StatusSeeOther, h.paths.Landing)
	}
	return c.JSON(http.StatusOK, loginView{View: "login", From: h.returnTarget(c.QueryParam("from"), "")})
}

// Login handles POST /login. On success the user is sent back to where the
// login redirect came from, or to the landing view. A rejected login surfaces
// the backend's message and leaves the session as it was.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.auth.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	target := h.returnTarget(req.From, c.QueryParam("from"))
	if target == "" {
		target = h.paths.Landing
	}
	h.nav.Redirect(target, nil)
	return c.Redirect(http.StatusSeeOther, target)
}

// Signup handles POST /signup. The new account always gets the normal role
// and the user still has to log in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// ForgotPassword handles POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	msg, err := h.auth.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	msg, err := h.auth.ResetPassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Logout handles GET and POST /logout. The session is cleared even when the
// credential store fails, so the user always lands on the login view.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		h.log.Error().Err(err).Msg("logout left stored credentials behind")
	}
	h.nav.Redirect(h.paths.Login, nil)
	return c.Redirect(http.StatusSeeOther, h.paths.Login)
}

// returnTarget picks the first usable return location: the explicit
// candidates, then the navigator's return state.
func (h *AuthHandler) returnTarget(candidates ...string) string {
	if rs := h.nav.ReturnState(); rs != nil {
		candidates = append(candidates, rs.From)
	}
	for _, p := range candidates {
		if h.isLocal(p) {
			return p
		}
	}
	return ""
}

// isLocal accepts only paths inside the shell, and never the login view
// itself.
func (h *AuthHandler) isLocal(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	path, _, _ := strings.Cut(p, "?")
	return path != h.paths.Login
}
