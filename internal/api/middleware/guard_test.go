package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

type stubSessions struct {
	s domain.Session
}

func (s *stubSessions) Snapshot() domain.Session { return s.s.Clone() }

func (s *stubSessions) Subscribe(func(domain.Session)) func() { return func() {} }

type stubNav struct {
	location  string
	redirects []string
	ret       *domain.ReturnState
}

func (n *stubNav) Visit(path string) { n.location = path }

func (n *stubNav) Redirect(to string, state *domain.ReturnState) bool {
	if n.location == to {
		return false
	}
	n.location = to
	n.ret = state
	n.redirects = append(n.redirects, to)
	return true
}

func signedIn(role domain.Role) domain.Session {
	return domain.Session{
		User:          &domain.User{ID: "1", Email: "a@x.com", Role: role},
		Token:         "t1",
		Authenticated: true,
		Initialized:   true,
	}
}

func runGuard(t *testing.T, s domain.Session, role domain.Role, target string) (*httptest.ResponseRecorder, *stubNav, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nav := &stubNav{location: target}
	access := Access{Sessions: &stubSessions{s: s}, Nav: nav, LoginPath: "/login", LandingPath: "/dashboard"}

	called := false
	handler := access.Require(role)(func(c echo.Context) error {
		called = true
		if u, ok := c.Get(ContextKeyUser).(*domain.User); !ok || u == nil {
			t.Fatalf("user not set in context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, nav, called
}

func TestGuard_Allows(t *testing.T) {
	rec, nav, called := runGuard(t, signedIn(domain.RoleAdmin), domain.RoleAdmin, "/dashboard/users")
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(nav.redirects) != 0 {
		t.Fatalf("unexpected redirect %v", nav.redirects)
	}
}

func TestGuard_LoadingBeforeHydration(t *testing.T) {
	rec, nav, called := runGuard(t, domain.Session{}, "", "/dashboard")
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected 503 with Retry-After, got %d %q", rec.Code, rec.Header().Get("Retry-After"))
	}
	if len(nav.redirects) != 0 {
		t.Fatalf("loading must never redirect")
	}
}

func TestGuard_AnonymousGoesToLogin(t *testing.T) {
	rec, nav, called := runGuard(t, domain.Session{Initialized: true}, "", "/dashboard/tests?page=2")
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?from=%2Fdashboard%2Ftests%3Fpage%3D2" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if nav.location != "/login" || nav.ret == nil || nav.ret.From != "/dashboard/tests?page=2" {
		t.Fatalf("navigator not updated: %+v", nav)
	}
}

func TestGuard_Forbids(t *testing.T) {
	rec, nav, called := runGuard(t, signedIn(domain.RoleSupervisor), domain.RoleAdmin, "/dashboard/users")
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected 303 to landing, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if nav.ret != nil {
		t.Fatalf("role redirects carry no return state")
	}
}

func TestLocation_RecordsGetOnly(t *testing.T) {
	e := echo.New()
	nav := &stubNav{}
	mw := Location(nav)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	get := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard/courses?q=go", nil), httptest.NewRecorder())
	if err := mw(next)(get); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if nav.location != "/dashboard/courses?q=go" {
		t.Fatalf("GET not recorded, location %q", nav.location)
	}

	post := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), httptest.NewRecorder())
	if err := mw(next)(post); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if nav.location != "/dashboard/courses?q=go" {
		t.Fatalf("POST must not move the location, got %q", nav.location)
	}
}
