package sessions

import (
	"context"
	"sync"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
)

// MemoryRepo is the default store: a map guarded by an RWMutex for entry
// lookup, with a per-entry mutex so updates to the same session serialize
// without blocking access to other sessions.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	mu      sync.Mutex
	session domain.Session
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string]*memoryEntry)}
}

func (r *MemoryRepo) Create(_ context.Context, s *domain.Session) error {
	entry := &memoryEntry{session: *cloneSession(s)}
	r.mu.Lock()
	r.entries[s.ID] = entry
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	entry.mu.Lock()
	out := cloneSession(&entry.session)
	entry.mu.Unlock()
	return out, nil
}

func (r *MemoryRepo) UpdatePosts(_ context.Context, id string, posts []domain.Post) error {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return &NotFoundError{ID: id}
	}
	entry.mu.Lock()
	entry.session.GeneratedPosts = clonePosts(posts)
	entry.mu.Unlock()
	return nil
}
