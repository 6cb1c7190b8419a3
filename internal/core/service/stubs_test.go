package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory credential store with failure injection
// ---------------------------------------------------------------------------

type stubStore struct {
	mu        sync.Mutex
	slots     map[string]string
	getErr    error
	setErr    map[string]error // per slot
	deleteErr error
	deletes   int
}

func newStubStore() *stubStore {
	return &stubStore{slots: make(map[string]string), setErr: make(map[string]error)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.slots[key]
	return v, ok, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.slots[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, k := range keys {
		delete(s.slots, k)
	}
	return nil
}

func (s *stubStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[key]
	return ok
}

// ---------------------------------------------------------------------------
// Scripted API client
// ---------------------------------------------------------------------------

type apiCall struct {
	method string
	path   string
	body   any
}

type stubAPI struct {
	mu        sync.Mutex
	calls     []apiCall
	responses map[string]string // "METHOD path" → JSON body
	errs      map[string]error
}

func newStubAPI() *stubAPI {
	return &stubAPI{responses: make(map[string]string), errs: make(map[string]error)}
}

func (a *stubAPI) on(method, path, body string) *stubAPI {
	a.responses[method+" "+path] = body
	return a
}

func (a *stubAPI) fail(method, path string, err error) *stubAPI {
	a.errs[method+" "+path] = err
	return a
}

func (a *stubAPI) Do(_ context.Context, method, path string, body, out any) error {
	a.mu.Lock()
	a.calls = append(a.calls, apiCall{method: method, path: path, body: body})
	key := method + " " + path
	err := a.errs[key]
	resp, ok := a.responses[key]
	a.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return errors.New("unexpected call " + key)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(resp), out)
}

func (a *stubAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func sampleUser(role domain.Role) domain.User {
	return domain.User{ID: "1", Email: "a@x.com", FirstName: "Ada", LastName: "Lovelace", Role: role}
}
