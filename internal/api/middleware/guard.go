package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/learnhub-client/internal/api/metrics"
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
	"github.com/learnhub/learnhub-client/internal/core/service"
)

// ContextKeyUser is where Guard stores the signed-in *domain.User.
const ContextKeyUser = "user"

// Redirector performs a navigation and reports whether it moved.
type Redirector interface {
	Redirect(to string, state *domain.ReturnState) bool
}

// Access protects shell views with the access gate rules.
type Access struct {
	Sessions    ports.SessionReader
	Nav         Redirector
	LoginPath   string
	LandingPath string
}

// Require lets the request through only when the session may see the view.
// An empty role admits any signed-in user; otherwise the match is exact.
func (a Access) Require(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := a.Sessions.Snapshot()
			d := service.EvaluateGuard(s, c.Request().URL.RequestURI(), role, a.LoginPath, a.LandingPath)
			if d.Kind != domain.DecisionRender {
				return Respond(c, a.Nav, d)
			}
			metrics.GuardDecisionsTotal.WithLabelValues(d.Kind.String()).Inc()
			c.Set(ContextKeyUser, s.User)
			return next(c)
		}
	}
}

// Respond renders a non-render decision: a loading placeholder or a 303 to
// the redirect target. Login redirects carry ?from= so the login form can
// send the user back.
func Respond(c echo.Context, nav Redirector, d domain.Decision) error {
	metrics.GuardDecisionsTotal.WithLabelValues(d.Kind.String()).Inc()

	switch d.Kind {
	case domain.DecisionLoading:
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"view": "loading"})
	case domain.DecisionRedirect:
		nav.Redirect(d.To, d.Return)
		target := d.To
		if d.Return != nil && d.Return.From != "" {
			target += "?from=" + url.QueryEscape(d.Return.From)
		}
		return c.Redirect(http.StatusSeeOther, target)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "unexpected access decision")
}
