package navigation

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/api/metrics"
	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// Navigator holds the shell's current location and the return state of the
// last login redirect. It is safe for concurrent use.
type Navigator struct {
	loginPath string
	log       zerolog.Logger

	mu        sync.Mutex
	location  string
	ret       *domain.ReturnState
	redirects int
}

func NewNavigator(loginPath string, log zerolog.Logger) *Navigator {
	return &Navigator{loginPath: loginPath, log: log}
}

// Visit records a user-initiated navigation. Return state is kept until the
// next redirect replaces it.
func (n *Navigator) Visit(path string) {
	n.mu.Lock()
	n.location = path
	n.mu.Unlock()
}

func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// ReturnState returns a copy of the state attached to the last redirect,
// or nil.
func (n *Navigator) ReturnState() *domain.ReturnState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ret == nil {
		return nil
	}
	r := *n.ret
	return &r
}

// Redirect moves to `to` unless the navigator is already on that path; the
// query string is ignored. It reports whether it moved; the check and the
// move are one step.
func (n *Navigator) Redirect(to string, state *domain.ReturnState) bool {
	n.mu.Lock()
	if pathOf(n.location) == pathOf(to) {
		n.mu.Unlock()
		return false
	}
	from := n.location
	n.location = to
	n.ret = nil
	if state != nil {
		r := *state
		n.ret = &r
	}
	n.redirects++
	n.mu.Unlock()

	metrics.RedirectsTotal.WithLabelValues(to).Inc()
	n.log.Debug().Str("from", from).Str("to", to).Msg("redirect")
	return true
}

// Redirects returns how many redirects have been performed.
func (n *Navigator) Redirects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}

// OnSessionInvalidated sends the user to the login view after the backend
// ended their session. Subscribe it to the gateway's events.
func (n *Navigator) OnSessionInvalidated(evt domain.SessionInvalidated) {
	if n.Redirect(n.loginPath, nil) {
		n.log.Info().Str("path", evt.Path).Str("request_id", evt.RequestID).Msg("session ended by backend, showing login")
	}
}

func pathOf(location string) string {
	path, _, _ := strings.Cut(location, "?")
	return path
}
