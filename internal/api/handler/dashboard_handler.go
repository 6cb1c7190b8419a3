package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/learnhub-client/internal/api/middleware"
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// VariantSelector picks the dashboard presentation for the current session.
type VariantSelector interface {
	SelectVariant() domain.Decision
}

// DashboardHandler serves the dashboard and the list views under it.
// Backend payloads are relayed as they arrive.
type DashboardHandler struct {
	gate       VariantSelector
	dashboards ports.DashboardService
	api        ports.APIClient
	nav        middleware.Redirector
}

func NewDashboardHandler(gate VariantSelector, dashboards ports.DashboardService, api ports.APIClient, nav middleware.Redirector) *DashboardHandler {
	return &DashboardHandler{gate: gate, dashboards: dashboards, api: api, nav: nav}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c echo.Context) error {
	d := h.gate.SelectVariant()
	if d.Kind != domain.DecisionRender {
		return middleware.Respond(c, h.nav, d)
	}

	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	dash, err := h.dashboards.Load(c.Request().Context(), d.Variant)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardView{
		View:      "dashboard",
		Variant:   dash.Variant,
		User:      user,
		Resources: dash.Resources,
	})
}

// List returns a handler that relays the backend collection at path as the
// named view.
func (h *DashboardHandler) List(view, path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var items json.RawMessage
		if err := h.api.Do(c.Request().Context(), http.MethodGet, path, nil, &items); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, listView{View: view, Items: items})
	}
}
