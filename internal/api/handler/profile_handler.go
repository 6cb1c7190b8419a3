package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

type ProfileHandler struct {
	auth ports.AuthService
}

func NewProfileHandler(auth ports.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// Show handles GET /dashboard/profile. The profile is reloaded from the
// backend and merged into the session first.
func (h *ProfileHandler) Show(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	user, err := h.auth.RefreshProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileView{View: "profile", User: user})
}

// Update handles PATCH /dashboard/profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patch := domain.UserPatch{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "nothing to update")
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileView{View: "profile", User: user})
}
