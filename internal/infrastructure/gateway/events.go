package gateway

import (
	"sync"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

// Events fans SessionInvalidated out to listeners such as the navigator.
// Delivery is synchronous; order between listeners is unspecified.
type Events struct {
	mu   sync.Mutex
	subs map[int]func(domain.SessionInvalidated)
	next int
}

func NewEvents() *Events {
	return &Events{subs: make(map[int]func(domain.SessionInvalidated))}
}

// Subscribe registers fn and returns a func that removes it.
func (e *Events) Subscribe(fn func(domain.SessionInvalidated)) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Events) Publish(evt domain.SessionInvalidated) {
	e.mu.Lock()
	fns := make([]func(domain.SessionInvalidated), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}
