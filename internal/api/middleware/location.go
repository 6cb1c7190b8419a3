package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Visitor records user-initiated navigations.
type Visitor interface {
	Visit(path string)
}

// Location records every GET on a view as the current location, so a
// session expiry knows where the user was.
func Location(nav Visitor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				nav.Visit(c.Request().URL.RequestURI())
			}
			return next(c)
		}
	}
}
