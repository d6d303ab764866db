package template

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryRepository is the in-memory Repository used by unit tests and the
// standalone render worker.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*Template
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[int64]*Template{}}
}

func (m *MemoryRepository) Create(_ context.Context, t *Template) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	t.ID = m.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	m.store[t.ID] = &cp
	return t.ID, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.store[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) GetByNom(_ context.Context, nom string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.store {
		if t.NomDocument == nom {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) Update(_ context.Context, id int64, nomDocument, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.NomDocument = nomDocument
	t.Body = body
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Template{}
	for _, t := range m.store {
		if !t.Archived {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListArchived(_ context.Context) ([]*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Template{}
	for _, t := range m.store {
		if t.Archived {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ArchivedAt.After(*out[j].ArchivedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[id]
	return ok, nil
}

func (m *MemoryRepository) MarkArchived(_ context.Context, id, actor int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || t.Archived {
		return false, nil
	}
	t.Archived = true
	t.ArchivedAt = &at
	t.ArchivedBy = actor
	return true, nil
}

func (m *MemoryRepository) ClearArchived(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || !t.Archived {
		return false, nil
	}
	t.Archived = false
	t.ArchivedAt = nil
	t.ArchivedBy = 0
	return true, nil
}

func (m *MemoryRepository) Remove(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	return true, nil
}
