package cache

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/prepdeck/internal/bank"
)

type memoryEntry struct {
	pool      []bank.Question
	expiresAt time.Time
}

// Memory is an in-process PoolCache with lazy TTL eviction plus an
// explicit Sweep for periodic cleanup.
type Memory struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[Key]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key Key) ([]bank.Question, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	return clonePool(e.pool), true, nil
}

func (m *Memory) Take(_ context.Context, key Key) ([]bank.Question, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	delete(m.entries, key)
	return e.pool, true, nil
}

func (m *Memory) Put(_ context.Context, key Key, qs []bank.Question, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{pool: clonePool(qs), expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// Sweep evicts expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// live must be called with mu held.
func (m *Memory) live(key Key) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func clonePool(qs []bank.Question) []bank.Question {
	out := make([]bank.Question, len(qs))
	copy(out, qs)
	return out
}
