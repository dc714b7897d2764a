package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a PostStore kept in process memory. It backs the CLI and
// tests and loses everything on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	posts  map[uuid.UUID]Post
	events map[uuid.UUID][]PostEvent
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  make(map[uuid.UUID]Post),
		events: make(map[uuid.UUID][]PostEvent),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) CreatePost(_ context.Context, p Post) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	m.posts[p.ID] = p
	return p, nil
}

func (m *MemoryStore) GetPost(_ context.Context, id uuid.UUID) (Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}

// ListPosts orders by UpdatedAt descending, then id, like the SQL query.
func (m *MemoryStore) ListPosts(_ context.Context, limit, offset int) ([]Post, error) {
	m.mu.RLock()
	posts := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	m.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].UpdatedAt.Equal(posts[j].UpdatedAt) {
			return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
		}
		return posts[i].ID.String() < posts[j].ID.String()
	})

	if offset >= len(posts) {
		return []Post{}, nil
	}
	posts = posts[offset:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *MemoryStore) UpdatePostContent(_ context.Context, id uuid.UUID, content string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.updateLocked(id, content)
}

func (m *MemoryStore) EditPostContent(_ context.Context, id uuid.UUID, fn ContentEditFunc) (Post, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return Post{}, false, ErrPostNotFound
	}

	updated, changed, err := fn(p.Content)
	if err != nil {
		return Post{}, false, err
	}
	if !changed {
		return p, false, nil
	}

	p, err = m.updateLocked(id, updated)
	return p, err == nil, err
}

func (m *MemoryStore) updateLocked(id uuid.UUID, content string) (Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	p.Content = content
	p.UpdatedAt = m.now()
	m.posts[id] = p
	return p, nil
}

func (m *MemoryStore) DeletePost(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryStore) RecordEvent(_ context.Context, e PostEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.events[e.PostID] = append(m.events[e.PostID], e)
	return nil
}

// ListEvents returns the newest events first.
func (m *MemoryStore) ListEvents(_ context.Context, postID uuid.UUID, limit int) ([]PostEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recorded := m.events[postID]
	events := make([]PostEvent, 0, min(len(recorded), max(limit, 0)))
	for i := len(recorded) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, recorded[i])
	}
	return events, nil
}
