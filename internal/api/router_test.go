package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/api/handler"
	"github.com/learnhub/learnhub-client/internal/core/service"
	"github.com/learnhub/learnhub-client/internal/infrastructure/db/local"
	"github.com/learnhub/learnhub-client/internal/infrastructure/gateway"
	"github.com/learnhub/learnhub-client/internal/infrastructure/http/handlers"
	"github.com/learnhub/learnhub-client/internal/infrastructure/navigation"
)

// fakeBackend answers like the LearnHub API. Once expired is set every
// protected endpoint returns 401.
func fakeBackend(expired *atomic.Bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/auth/login":
			_, _ = w.Write([]byte(`{"access_token":"t1","user":{"id":"1","email":"a@x.com","firstName":"Ada","lastName":"L","role":"normal"}}`))
		case expired.Load():
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
}

func newShell(t *testing.T, baseURL string) (*echo.Echo, *service.SessionService) {
	t.Helper()
	log := zerolog.Nop()

	store := local.NewMemoryStore()
	sessions := service.NewSessionService(store, log)
	if err := sessions.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	events := gateway.NewEvents()
	nav := navigation.NewNavigator("/login", log)
	events.Subscribe(nav.OnSessionInvalidated)

	tr := gateway.NewTransport(sessions, events, log)
	client := gateway.NewClient(baseURL+"/api/v1", gateway.NewHTTPClient(tr, 5*time.Second), tr.Exempt())

	e := NewRouter(Deps{
		Log:        log,
		Sessions:   sessions,
		Auth:       service.NewAuthService(client, sessions, log),
		Dashboards: service.NewDashboardService(client),
		Gate:       service.NewAccessGate(sessions, "/login", "/dashboard"),
		API:        client,
		Nav:        nav,
		Paths:      handler.Paths{Login: "/login", Landing: "/dashboard"},
		Checks:     map[string]handlers.Check{"credentials": store.Ping},
		Registerer: prometheus.NewRegistry(),
	})
	return e, sessions
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SessionLifecycle(t *testing.T) {
	var expired atomic.Bool
	backend := fakeBackend(&expired)
	defer backend.Close()

	e, sessions := newShell(t, backend.URL)

	rec := serve(e, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login?from=%2Fdashboard" {
		t.Fatalf("anonymous dashboard: %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = serve(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret"}`)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("login: %d %q %s", rec.Code, rec.Header().Get(echo.HeaderLocation), rec.Body.String())
	}
	if s := sessions.Snapshot(); !s.Authenticated || s.Token != "t1" {
		t.Fatalf("login did not authenticate: %+v", s)
	}

	rec = serve(e, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"variant":"normal"`) {
		t.Fatalf("dashboard: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/dashboard/users", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("normal user on admin view: %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	expired.Store(true)
	rec = serve(e, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expired session: %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if s := sessions.Snapshot(); s.Authenticated || s.Token != "" {
		t.Fatalf("backend 401 should have logged out: %+v", s)
	}
}

func TestRouter_Health(t *testing.T) {
	var expired atomic.Bool
	backend := fakeBackend(&expired)
	defer backend.Close()

	e, _ := newShell(t, backend.URL)

	if rec := serve(e, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d %s", rec.Code, rec.Body.String())
	}
}
