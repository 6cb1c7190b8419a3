package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/learnhub-client/internal/api/middleware"
	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// ctxUser returns the user the Guard middleware admitted. A missing user
// means the route was mounted without the guard.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(middleware.ContextKeyUser).(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session user")
	}
	return u, nil
}
