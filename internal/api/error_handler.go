package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all shell errors.
type errorResponse struct {
	Error string `json:"error"`
}

// Locator reports where the shell navigator currently is.
type Locator interface {
	Location() string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Follows the navigator when a request died on an expired session.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, nav Locator, loginPath string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// The gateway has already logged out and moved the navigator.
		if errors.Is(err, domain.ErrSessionExpired) {
			target := nav.Location()
			if target == "" {
				target = loginPath
			}
			_ = c.Redirect(http.StatusSeeOther, target)
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrNoUser):
		return http.StatusUnauthorized, "not signed in"
	case errors.Is(err, domain.ErrTransport):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, "backend unreachable"
	case errors.Is(err, domain.ErrMalformedResponse):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend sent a malformed response")
		return http.StatusBadGateway, "malformed backend response"
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		return apiErr.Status, msg
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
