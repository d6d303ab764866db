package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[int64]*User{}}
}

func (m *MemoryRepository) Create(_ context.Context, u *User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	u.ID = m.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	m.store[u.ID] = &cp
	return u.ID, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.store[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*User{}
	for _, u := range m.store {
		if !u.Archived {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListArchived(_ context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*User{}
	for _, u := range m.store {
		if u.Archived {
			cp := *u
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
	u, ok := m.store[id]
	if !ok || u.Archived {
		return false, nil
	}
	u.Archived = true
	u.ArchivedAt = &at
	u.ArchivedBy = actor
	return true, nil
}

func (m *MemoryRepository) ClearArchived(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok || !u.Archived {
		return false, nil
	}
	u.Archived = false
	u.ArchivedAt = nil
	u.ArchivedBy = 0
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
