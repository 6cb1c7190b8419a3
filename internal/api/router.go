package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/api/handler"
	"github.com/learnhub/learnhub-client/internal/api/middleware"
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
	"github.com/learnhub/learnhub-client/internal/infrastructure/http/handlers"
)

// Navigator is the shell navigator as the router sees it.
type Navigator interface {
	handler.Navigator
	middleware.Visitor
	Locator
}

// Deps are the collaborators the shell routes are built from.
type Deps struct {
	Log        zerolog.Logger
	Sessions   ports.SessionReader
	Auth       ports.AuthService
	Dashboards ports.DashboardService
	Gate       handler.VariantSelector
	API        ports.APIClient
	Nav        Navigator
	Paths      handler.Paths
	// Checks feed /health/ready.
	Checks map[string]handlers.Check
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Nav, d.Paths.Login)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			d.Log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "learnhub_shell",
		Registerer: d.Registerer,
	}))

	// --- Ops endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Checks).Readiness)

	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Nav, d.Paths, d.Log)
	dashboardHandler := handler.NewDashboardHandler(d.Gate, d.Dashboards, d.API, d.Nav)
	profileHandler := handler.NewProfileHandler(d.Auth)
	access := middleware.Access{
		Sessions:    d.Sessions,
		Nav:         d.Nav,
		LoginPath:   d.Paths.Login,
		LandingPath: d.Paths.Landing,
	}

	// --- Views ---
	views := e.Group("", middleware.Location(d.Nav))

	views.GET(d.Paths.Login, authHandler.LoginPage)
	views.POST(d.Paths.Login, authHandler.Login)
	views.POST("/signup", authHandler.Signup)
	views.POST("/forgot-password", authHandler.ForgotPassword)
	views.POST("/reset-password", authHandler.ResetPassword)
	views.GET("/logout", authHandler.Logout)
	views.POST("/logout", authHandler.Logout)

	dashboard := views.Group("/dashboard", access.Require(""))
	dashboard.GET("", dashboardHandler.Show)
	dashboard.GET("/courses", dashboardHandler.List("courses", "/courses"))
	dashboard.GET("/tests", dashboardHandler.List("tests", "/tests"))
	dashboard.GET("/users", dashboardHandler.List("users", "/users"), access.Require(domain.RoleAdmin))
	dashboard.GET("/profile", profileHandler.Show)
	dashboard.PATCH("/profile", profileHandler.Update)

	return e
}
