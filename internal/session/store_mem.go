package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// InMemoryStore is a concurrency-safe, in-memory Store. It uses a map with
// a read-write mutex for O(1) lookups. The `now` function is injectable for
// deterministic testing.
type InMemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]*Context

	// maxSessions limits the number of concurrent contexts.
	// Zero means unlimited.
	maxSessions int

	now func() time.Time
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a ready-to-use in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contexts: make(map[string]*Context),
		now:      time.Now,
	}
}

// SetMaxSessions configures the maximum number of concurrent contexts.
// Zero means unlimited.
func (s *InMemoryStore) SetMaxSessions(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSessions = limit
}

// GetOrCreate returns the existing context for the id, or creates a new one.
// An empty id gets a generated one. If maxSessions > 0 and the limit is
// reached, no new context is created and (nil, false) is returned.
func (s *InMemoryStore) GetOrCreate(id string) (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if ctx, ok := s.contexts[id]; ok {
			return ctx, false
		}
	}

	if s.maxSessions > 0 && len(s.contexts) >= s.maxSessions {
		return nil, false
	}

	if id == "" {
		id = generateID()
	}

	now := s.now()
	ctx := &Context{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	s.contexts[id] = ctx
	return ctx, true
}

// Get returns the context for the given id, or nil if none exists.
func (s *InMemoryStore) Get(id string) *Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[id]
}

// Touch updates LastActiveAt. It is a no-op if the context does not exist.
func (s *InMemoryStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx, ok := s.contexts[id]; ok {
		ctx.LastActiveAt = s.now()
	}
}

// Delete removes the context for the given id.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, id)
}

// Prune removes contexts whose idle time exceeds maxIdle and returns the
// number removed. Intended to be called periodically by the maintenance
// scheduler.
func (s *InMemoryStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for id, ctx := range s.contexts {
		if now.Sub(ctx.LastActiveAt) > maxIdle {
			delete(s.contexts, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of active contexts.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}

// Range calls fn for each context. The lock is held for the entire
// iteration — keep fn fast.
func (s *InMemoryStore) Range(fn func(*Context) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ctx := range s.contexts {
		if !fn(ctx) {
			return
		}
	}
}

// generateID produces a 32-character hex string from 16 random bytes.
func generateID() string {
	var buf [16]byte
	// rand.Read only fails when the OS entropy source is broken; the zero
	// buffer still yields a usable (if predictable) id in that case.
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
