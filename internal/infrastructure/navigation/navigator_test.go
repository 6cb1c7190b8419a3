package navigation

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

func TestNavigator_RedirectSkipsWhenAlreadyThere(t *testing.T) {
	nav := NewNavigator("/login", zerolog.Nop())
	nav.Visit("/dashboard")

	if !nav.Redirect("/login", &domain.ReturnState{From: "/dashboard"}) {
		t.Fatalf("expected a redirect")
	}
	if nav.Redirect("/login", nil) {
		t.Fatalf("second redirect to the same place must be skipped")
	}
	if nav.Location() != "/login" || nav.Redirects() != 1 {
		t.Fatalf("location=%q redirects=%d", nav.Location(), nav.Redirects())
	}
	if rs := nav.ReturnState(); rs == nil || rs.From != "/dashboard" {
		t.Fatalf("return state lost: %+v", rs)
	}
}

func TestNavigator_ReturnStateIsACopy(t *testing.T) {
	nav := NewNavigator("/login", zerolog.Nop())
	nav.Redirect("/login", &domain.ReturnState{From: "/dashboard/tests"})

	rs := nav.ReturnState()
	rs.From = "/elsewhere"
	if nav.ReturnState().From != "/dashboard/tests" {
		t.Fatalf("caller mutated navigator state")
	}
}

func TestNavigator_ConcurrentInvalidationsRedirectOnce(t *testing.T) {
	nav := NewNavigator("/login", zerolog.Nop())
	nav.Visit("/dashboard/courses")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.OnSessionInvalidated(domain.SessionInvalidated{Path: "/courses", Status: 401})
		}()
	}
	wg.Wait()

	if nav.Redirects() != 1 {
		t.Fatalf("expected exactly one redirect, got %d", nav.Redirects())
	}
	if nav.Location() != "/login" {
		t.Fatalf("expected /login, got %q", nav.Location())
	}
	if nav.ReturnState() != nil {
		t.Fatalf("a reauth redirect carries no return state")
	}
}

func TestNavigator_InvalidationOnLoginViewKeepsReturnState(t *testing.T) {
	nav := NewNavigator("/login", zerolog.Nop())
	nav.Visit("/dashboard/tests")
	nav.Redirect("/login", &domain.ReturnState{From: "/dashboard/tests"})
	nav.Visit("/login?from=%2Fdashboard%2Ftests")

	nav.OnSessionInvalidated(domain.SessionInvalidated{Path: "/courses", Status: 401})

	if nav.Redirects() != 1 {
		t.Fatalf("already on the login view, expected 1 redirect, got %d", nav.Redirects())
	}
	if nav.Location() != "/login?from=%2Fdashboard%2Ftests" {
		t.Fatalf("location changed to %q", nav.Location())
	}
	if rs := nav.ReturnState(); rs == nil || rs.From != "/dashboard/tests" {
		t.Fatalf("return state lost: %+v", rs)
	}
}
