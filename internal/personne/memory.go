package personne

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
	store  map[int64]*Personne
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[int64]*Personne{}}
}

func (m *MemoryRepository) Create(_ context.Context, p *Personne) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	p.ID = m.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	return p.ID, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Personne, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) Update(_ context.Context, p *Personne) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[p.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	audit := cur.Audit
	created := cur.CreatedAt
	cp := *p
	cp.Audit = audit
	cp.CreatedAt = created
	cp.UpdatedAt = time.Now().UTC()
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Personne, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Personne{}
	for _, p := range m.store {
		if !p.Archived {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListArchived(_ context.Context) ([]*Personne, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Personne{}
	for _, p := range m.store {
		if p.Archived {
			cp := *p
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
	p, ok := m.store[id]
	if !ok || p.Archived {
		return false, nil
	}
	p.Archived = true
	p.ArchivedAt = &at
	p.ArchivedBy = actor
	return true, nil
}

func (m *MemoryRepository) ClearArchived(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || !p.Archived {
		return false, nil
	}
	p.Archived = false
	p.ArchivedAt = nil
	p.ArchivedBy = 0
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
