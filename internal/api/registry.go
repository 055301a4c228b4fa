package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/prepdeck/internal/session"
)

var (
	errSessionNotFound = errors.New("session not found")
	errForbidden       = errors.New("session belongs to another user")
)

type entry struct {
	engine   *session.Engine
	lastSeen time.Time
}

// Registry holds live engines keyed by session ID.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry creates an empty registry. A nil now uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{entries: make(map[string]*entry), now: now}
}

// Add registers e.
func (r *Registry) Add(e *session.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID()] = &entry{engine: e, lastSeen: r.now()}
}

// Get returns the engine for id if it belongs to userID, and marks it as
// recently used.
func (r *Registry) Get(id, userID string) (*session.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.entries[id]
	if !ok {
		return nil, errSessionNotFound
	}
	if ent.engine.Context().UserID != userID {
		return nil, errForbidden
	}
	ent.lastSeen = r.now()
	return ent.engine, nil
}

// Remove drops id and stops its timer.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	ent, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		ent.engine.Close()
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reap exits and removes every session untouched for longer than idle.
// Exiting an in-progress module writes its partial result.
func (r *Registry) Reap(ctx context.Context, idle time.Duration) []string {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*session.Engine
	for id, ent := range r.entries {
		if ent.lastSeen.Before(cutoff) {
			stale = append(stale, ent.engine)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, e := range stale {
		_ = e.Exit(ctx) // persistence failures are reported through listeners
		e.Close()
		ids = append(ids, e.ID())
	}
	return ids
}
