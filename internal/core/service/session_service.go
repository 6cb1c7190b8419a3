package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// SessionService owns the session state machine:
//
//	Uninitialized → Hydrating → Initialized{Authenticated | Anonymous}
//
// Every mutation goes through a named transition that writes the credential
// store and the in-memory state in the same step. Observers are notified in
// transition order, after the new state is committed.
type SessionService struct {
	store ports.CredentialStore
	log   zerolog.Logger
	now   func() time.Time

	// writeMu serializes transitions together with their notifications.
	writeMu sync.Mutex
	// touched is set by the first transition; hydration after it is a no-op.
	touched bool

	mu    sync.RWMutex
	state domain.Session

	obsMu     sync.Mutex
	observers map[int]func(domain.Session)
	nextObs   int
}

// NewSessionService returns an uninitialized session. Call Hydrate once at
// startup.
func NewSessionService(store ports.CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:     store,
		log:       log,
		now:       time.Now,
		observers: make(map[int]func(domain.Session)),
	}
}

// Snapshot returns a copy of the current session.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Token returns the current bearer token, or "" when anonymous.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Subscribe registers fn to receive every committed state change. fn runs
// synchronously inside the transition and must not call back into a
// transition; reading Snapshot is fine.
func (s *SessionService) Subscribe(fn func(domain.Session)) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// Hydrate rebuilds the session from the credential store. It runs at most
// once and always leaves the session initialized. A token without a
// parsable user, a user without a token, or an expired JWT is treated as
// absence and both slots are cleared.
func (s *SessionService) Hydrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.touched {
		return nil
	}
	s.touched = true

	next, err := s.readStored(ctx)
	s.commit(next)

	if next.Authenticated {
		s.log.Info().Str("user_id", next.User.ID).Str("role", string(next.User.Role)).Msg("session restored")
	} else {
		s.log.Debug().Msg("no stored session, starting anonymous")
	}
	return err
}

func (s *SessionService) readStored(ctx context.Context) (domain.Session, error) {
	anonymous := domain.Session{Initialized: true}

	token, hasToken, err := s.store.Get(ctx, domain.SlotToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable, starting anonymous")
		return anonymous, fmt.Errorf("hydrate: read token: %w", err)
	}
	rawUser, hasUser, err := s.store.Get(ctx, domain.SlotUser)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable, starting anonymous")
		return anonymous, fmt.Errorf("hydrate: read user: %w", err)
	}

	if !hasToken && !hasUser {
		return anonymous, nil
	}

	user, reason := s.decodeStored(token, hasToken, rawUser, hasUser)
	if user == nil {
		s.log.Warn().Str("reason", reason).Msg("discarding stored credential")
		if err := s.store.Delete(ctx, domain.SlotToken, domain.SlotUser); err != nil {
			s.log.Error().Err(err).Msg("failed to clear stored credential")
		}
		return anonymous, nil
	}

	return domain.Session{User: user, Token: token, Authenticated: true, Initialized: true}, nil
}

func (s *SessionService) decodeStored(token string, hasToken bool, rawUser string, hasUser bool) (*domain.User, string) {
	switch {
	case !hasToken || token == "":
		return nil, "user without token"
	case !hasUser:
		return nil, "token without user"
	case tokenExpired(token, s.now()):
		return nil, "token expired"
	}

	var user *domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user == nil {
		return nil, domain.ErrCorruptCredential.Error()
	}
	return user, ""
}

// SetCredentials replaces the session wholesale after a successful login.
// When the store rejects the write the session is torn down instead, so
// memory and store never disagree.
func (s *SessionService) SetCredentials(ctx context.Context, user domain.User, token string) error {
	if token == "" {
		return domain.ErrEmptyToken
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("set credentials: encode user: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.touched = true

	if err := s.store.Set(ctx, domain.SlotUser, string(raw)); err != nil {
		_ = s.logoutLocked(ctx)
		return fmt.Errorf("set credentials: persist user: %w", err)
	}
	if err := s.store.Set(ctx, domain.SlotToken, token); err != nil {
		_ = s.logoutLocked(ctx)
		return fmt.Errorf("set credentials: persist token: %w", err)
	}

	s.commit(domain.Session{User: &user, Token: token, Authenticated: true, Initialized: true})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("credentials set")
	return nil
}

// UpdateUser merges patch into the current user and re-persists it. The
// token is not touched. Without a user it returns domain.ErrNoUser.
func (s *SessionService) UpdateUser(ctx context.Context, patch domain.UserPatch) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if cur.User == nil {
		return domain.ErrNoUser
	}

	merged := cur.User.Apply(patch)
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("update user: encode: %w", err)
	}
	if err := s.store.Set(ctx, domain.SlotUser, string(raw)); err != nil {
		return fmt.Errorf("update user: persist: %w", err)
	}

	cur.User = &merged
	s.commit(cur)
	return nil
}

// Logout clears the session and the credential store. It is idempotent.
// Memory is cleared even when the store fails.
func (s *SessionService) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.touched = true
	return s.logoutLocked(ctx)
}

// InvalidateToken logs out only if token is still the current credential and
// reports whether it did. A 401 for a request that carried an older token,
// or none at all, must not end a newer session.
func (s *SessionService) InvalidateToken(ctx context.Context, token string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Token() != token {
		return false, nil
	}
	s.touched = true
	return true, s.logoutLocked(ctx)
}

func (s *SessionService) logoutLocked(ctx context.Context) error {
	wasAuthenticated := s.Snapshot().Authenticated
	s.commit(domain.Session{Initialized: true})

	if err := s.store.Delete(ctx, domain.SlotToken, domain.SlotUser); err != nil {
		s.log.Error().Err(err).Msg("failed to clear credential store on logout")
		return fmt.Errorf("logout: clear store: %w", err)
	}
	if wasAuthenticated {
		s.log.Info().Msg("logged out")
	}
	return nil
}

// commit swaps the state and notifies observers when it changed. Callers hold
// writeMu.
func (s *SessionService) commit(next domain.Session) {
	s.mu.Lock()
	changed := !sameSession(s.state, next)
	s.state = next.Clone()
	s.mu.Unlock()

	if !changed {
		return
	}

	s.obsMu.Lock()
	fns := make([]func(domain.Session), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(next.Clone())
	}
}

func sameSession(a, b domain.Session) bool {
	if a.Authenticated != b.Authenticated || a.Initialized != b.Initialized || a.Token != b.Token {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}
