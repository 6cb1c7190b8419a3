package service

import (
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// AccessGate decides whether a protected view may render and which
// dashboard variant to show. Every call reads a fresh snapshot.
type AccessGate struct {
	sessions    ports.SessionReader
	loginPath   string
	landingPath string
}

func NewAccessGate(sessions ports.SessionReader, loginPath, landingPath string) *AccessGate {
	return &AccessGate{sessions: sessions, loginPath: loginPath, landingPath: landingPath}
}

// Guard evaluates a protected view at location. An empty required role means
// any authenticated user may enter.
func (g *AccessGate) Guard(location string, required domain.Role) domain.Decision {
	return EvaluateGuard(g.sessions.Snapshot(), location, required, g.loginPath, g.landingPath)
}

// SelectVariant picks the dashboard presentation for the current user.
func (g *AccessGate) SelectVariant() domain.Decision {
	return EvaluateVariant(g.sessions.Snapshot(), g.loginPath)
}

// Watch evaluates the guard now and again after every session change, so a
// view that already rendered learns when it has to leave. Call the returned
// func to stop.
func (g *AccessGate) Watch(location string, required domain.Role, fn func(domain.Decision)) func() {
	stop := g.sessions.Subscribe(func(s domain.Session) {
		fn(EvaluateGuard(s, location, required, g.loginPath, g.landingPath))
	})
	fn(g.Guard(location, required))
	return stop
}

// EvaluateGuard is the pure form of Guard. Role requirements are exact
// matches: admin does not pass a supervisor-only view.
func EvaluateGuard(s domain.Session, location string, required domain.Role, loginPath, landingPath string) domain.Decision {
	if !s.Initialized {
		return domain.Decision{Kind: domain.DecisionLoading}
	}
	if !s.Authenticated || s.User == nil {
		return domain.Decision{
			Kind:   domain.DecisionRedirect,
			To:     loginPath,
			Return: &domain.ReturnState{From: location},
		}
	}
	if required != "" && s.User.Role != required {
		return domain.Decision{Kind: domain.DecisionRedirect, To: landingPath}
	}
	return domain.Decision{Kind: domain.DecisionRender}
}

// EvaluateVariant is the pure form of SelectVariant.
func EvaluateVariant(s domain.Session, loginPath string) domain.Decision {
	if !s.Initialized {
		return domain.Decision{Kind: domain.DecisionLoading}
	}
	if !s.Authenticated || s.User == nil {
		return domain.Decision{Kind: domain.DecisionRedirect, To: loginPath}
	}
	return domain.Decision{Kind: domain.DecisionRender, Variant: variantFor(s.User.Role)}
}

// variantFor lists every role explicitly; a new role must be added here.
// Anything unrecognised falls back to the normal dashboard.
func variantFor(r domain.Role) domain.Variant {
	switch r {
	case domain.RoleAdmin:
		return domain.VariantAdmin
	case domain.RoleSupervisor:
		return domain.VariantSupervisor
	case domain.RoleNormal:
		return domain.VariantNormal
	default:
		return domain.VariantNormal
	}
}
