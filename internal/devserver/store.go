package devserver

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/google/uuid"
)

// memoryStore keeps posts in insertion order.
type memoryStore struct {
	mu    sync.RWMutex
	posts []models.Post
	now   func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{now: time.Now}
}

func (m *memoryStore) list() []models.Post {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.posts)
}

func (m *memoryStore) get(id models.PostID) (models.Post, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.index(id)
	if i < 0 {
		return models.Post{}, false
	}
	return m.posts[i], true
}

func (m *memoryStore) create(p models.Post) models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" || m.index(p.ID) >= 0 {
		p.ID = models.PostID(uuid.NewString())
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now().UTC()
	}
	p.UpdatedAt = time.Time{}
	m.posts = append(m.posts, p)
	return p
}

func (m *memoryStore) replace(id models.PostID, p models.Post) (models.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return models.Post{}, false
	}
	p.ID = id
	p.CreatedAt = m.posts[i].CreatedAt
	p.UpdatedAt = m.now().UTC()
	m.posts[i] = p
	return p, true
}

func (m *memoryStore) delete(id models.PostID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.posts = slices.Delete(m.posts, i, i+1)
	return true
}

func (m *memoryStore) index(id models.PostID) int {
	return slices.IndexFunc(m.posts, func(p models.Post) bool { return p.ID == id })
}
