package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mairiedoc/mairiedoc/internal/document"
)

// MemoryRepo is the in-memory Repository used by unit tests and the
// standalone render worker.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: map[int64]*document.Document{}}
}

func (m *MemoryRepo) Create(_ context.Context, d *document.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now().UTC()
	cp := *d
	m.store[d.ID] = &cp
	return d.ID, nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepo) List(_ context.Context) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if !d.Archived {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepo) ListArchived(_ context.Context) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if d.Archived {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ArchivedAt.After(*out[j].ArchivedAt)
	})
	return out, nil
}

func (m *MemoryRepo) CountByTemplate(_ context.Context, templateID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.store {
		if d.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[id]
	return ok, nil
}

func (m *MemoryRepo) MarkArchived(_ context.Context, id, actor int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok || d.Archived {
		return false, nil
	}
	d.Archived = true
	d.ArchivedAt = &at
	d.ArchivedBy = actor
	return true, nil
}

func (m *MemoryRepo) ClearArchived(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok || !d.Archived {
		return false, nil
	}
	d.Archived = false
	d.ArchivedAt = nil
	d.ArchivedBy = 0
	return true, nil
}

func (m *MemoryRepo) Remove(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	return true, nil
}

// MemoryBindingRepo is the in-memory BindingRepository.
type MemoryBindingRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  []*document.RoleBinding
}

func NewMemoryBindingRepo() *MemoryBindingRepo {
	return &MemoryBindingRepo{}
}

func (m *MemoryBindingRepo) Add(_ context.Context, b *document.RoleBinding) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	cp := *b
	m.store = append(m.store, &cp)
	return b.ID, nil
}

func (m *MemoryBindingRepo) ListByDocument(_ context.Context, docID int64) ([]*document.RoleBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.RoleBinding{}
	for _, b := range m.store {
		if b.DocumentID == docID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryBindingRepo) DeleteByFonction(_ context.Context, docID int64, fonction string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.store[:0]
	var n int64
	for _, b := range m.store {
		if b.DocumentID == docID && b.Fonction == fonction {
			n++
			continue
		}
		kept = append(kept, b)
	}
	m.store = kept
	return n, nil
}

func (m *MemoryBindingRepo) DeleteByDocument(_ context.Context, docID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.store[:0]
	for _, b := range m.store {
		if b.DocumentID != docID {
			kept = append(kept, b)
		}
	}
	m.store = kept
	return nil
}
