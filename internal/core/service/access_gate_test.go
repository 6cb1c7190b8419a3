package service

import (
	"context"
	"testing"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

const (
	testLogin   = "/login"
	testLanding = "/dashboard"
)

func gateWith(t *testing.T, user *domain.User) (*AccessGate, *SessionService) {
	t.Helper()
	svc := newSessionSvc(newStubStore())
	if user != nil {
		if err := svc.SetCredentials(context.Background(), *user, "t1"); err != nil {
			t.Fatalf("SetCredentials: %v", err)
		}
	} else {
		_ = svc.Hydrate(context.Background())
	}
	return NewAccessGate(svc, testLogin, testLanding), svc
}

func TestGuard_UninitializedNeverRedirects(t *testing.T) {
	u := sampleUser(domain.RoleAdmin)
	states := []domain.Session{
		{},
		{User: &u, Token: "t", Authenticated: true},
	}
	for _, s := range states {
		for _, role := range []domain.Role{"", domain.RoleAdmin, domain.RoleSupervisor} {
			d := EvaluateGuard(s, "/dashboard/tests", role, testLogin, testLanding)
			if d.Kind != domain.DecisionLoading || d.To != "" {
				t.Fatalf("uninitialized session must show loading, got %+v", d)
			}
		}
	}

	svc := newSessionSvc(newStubStore())
	gate := NewAccessGate(svc, testLogin, testLanding)
	if d := gate.Guard("/dashboard", ""); d.Kind != domain.DecisionLoading {
		t.Fatalf("expected loading before hydration, got %+v", d)
	}
	if d := gate.SelectVariant(); d.Kind != domain.DecisionLoading {
		t.Fatalf("expected loading before hydration, got %+v", d)
	}
}

func TestGuard_AnonymousRedirectsToLoginWithReturnState(t *testing.T) {
	gate, _ := gateWith(t, nil)

	d := gate.Guard("/dashboard/courses?page=2", "")
	if d.Kind != domain.DecisionRedirect || d.To != testLogin {
		t.Fatalf("expected login redirect, got %+v", d)
	}
	if d.Return == nil || d.Return.From != "/dashboard/courses?page=2" {
		t.Fatalf("expected return state, got %+v", d.Return)
	}
}

func TestGuard_WrongRoleRedirectsToLanding(t *testing.T) {
	u := sampleUser(domain.RoleNormal)
	gate, _ := gateWith(t, &u)

	d := gate.Guard("/dashboard/users", domain.RoleAdmin)
	if d.Kind != domain.DecisionRedirect || d.To != testLanding || d.Return != nil {
		t.Fatalf("expected landing redirect without return state, got %+v", d)
	}
}

func TestGuard_RoleMatchIsExact(t *testing.T) {
	u := sampleUser(domain.RoleAdmin)
	gate, _ := gateWith(t, &u)

	if d := gate.Guard("/dashboard/review", domain.RoleSupervisor); d.Kind != domain.DecisionRedirect {
		t.Fatalf("admin must not pass a supervisor-only view, got %+v", d)
	}
	if d := gate.Guard("/dashboard/users", domain.RoleAdmin); d.Kind != domain.DecisionRender {
		t.Fatalf("admin should pass an admin view, got %+v", d)
	}
}

func TestGuard_RendersForAuthenticatedUser(t *testing.T) {
	u := sampleUser(domain.RoleNormal)
	gate, _ := gateWith(t, &u)

	if d := gate.Guard("/dashboard", ""); d.Kind != domain.DecisionRender {
		t.Fatalf("expected render, got %+v", d)
	}
}

func TestSelectVariant(t *testing.T) {
	cases := map[domain.Role]domain.Variant{
		domain.RoleAdmin:      domain.VariantAdmin,
		domain.RoleSupervisor: domain.VariantSupervisor,
		domain.RoleNormal:     domain.VariantNormal,
		"":                    domain.VariantNormal,
		"instructor":          domain.VariantNormal,
	}
	for role, want := range cases {
		u := sampleUser(role)
		gate, _ := gateWith(t, &u)

		d := gate.SelectVariant()
		if d.Kind != domain.DecisionRender || d.Variant != want {
			t.Fatalf("role %q: expected %s, got %+v", role, want, d)
		}
	}
}

func TestSelectVariant_AnonymousRedirects(t *testing.T) {
	gate, _ := gateWith(t, nil)
	d := gate.SelectVariant()
	if d.Kind != domain.DecisionRedirect || d.To != testLogin {
		t.Fatalf("expected login redirect, got %+v", d)
	}
}

func TestWatch_ReevaluatesOnLogout(t *testing.T) {
	u := sampleUser(domain.RoleNormal)
	gate, svc := gateWith(t, &u)

	var decisions []domain.Decision
	stop := gate.Watch("/dashboard/tests", "", func(d domain.Decision) {
		decisions = append(decisions, d)
	})
	defer stop()

	if len(decisions) != 1 || decisions[0].Kind != domain.DecisionRender {
		t.Fatalf("expected an initial render decision, got %+v", decisions)
	}

	if _, err := svc.InvalidateToken(context.Background(), "t1"); err != nil {
		t.Fatalf("InvalidateToken: %v", err)
	}

	if len(decisions) != 2 {
		t.Fatalf("expected re-evaluation after logout, got %d decisions", len(decisions))
	}
	last := decisions[1]
	if last.Kind != domain.DecisionRedirect || last.To != testLogin || last.Return.From != "/dashboard/tests" {
		t.Fatalf("expected login redirect after logout, got %+v", last)
	}
}
