package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// MemoryArchitectureRepository is used when no database is configured and in
// tests. Stored values are copied through the same JSON document encoding as
// the Postgres repository.
type MemoryArchitectureRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Architecture
}

func NewMemoryArchitectureRepository() *MemoryArchitectureRepository {
	return &MemoryArchitectureRepository{items: map[string]*domain.Architecture{}}
}

func (m *MemoryArchitectureRepository) Save(_ context.Context, a *domain.Architecture) error {
	cp, err := copyArchitecture(a)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.items[a.ID]; ok && !prev.CreatedAt.IsZero() {
		cp.CreatedAt = prev.CreatedAt
	}
	m.items[a.ID] = cp
	return nil
}

func (m *MemoryArchitectureRepository) Get(_ context.Context, id string) (*domain.Architecture, error) {
	m.mu.RLock()
	a, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.NotFound("architecture", id)
	}
	return copyArchitecture(a)
}

func (m *MemoryArchitectureRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.NotFound("architecture", id)
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryArchitectureRepository) List(ctx context.Context) ([]*domain.Architecture, error) {
	return m.filter(func(*domain.Architecture) bool { return true })
}

func (m *MemoryArchitectureRepository) ListByUser(_ context.Context, userID string) ([]*domain.Architecture, error) {
	return m.filter(func(a *domain.Architecture) bool { return a.UserID == userID })
}

func (m *MemoryArchitectureRepository) ListByQuestion(_ context.Context, questionID string) ([]*domain.Architecture, error) {
	return m.filter(func(a *domain.Architecture) bool { return a.QuestionID == questionID })
}

func (m *MemoryArchitectureRepository) ListSubmitted(context.Context) ([]*domain.Architecture, error) {
	return m.filter(func(a *domain.Architecture) bool { return a.Submitted })
}

func (m *MemoryArchitectureRepository) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

func (m *MemoryArchitectureRepository) Ping(context.Context) error { return nil }

// filter returns matches newest first, like the SQL queries.
func (m *MemoryArchitectureRepository) filter(keep func(*domain.Architecture) bool) ([]*domain.Architecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Architecture{}
	for _, a := range m.items {
		if !keep(a) {
			continue
		}
		cp, err := copyArchitecture(a)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func copyArchitecture(a *domain.Architecture) (*domain.Architecture, error) {
	doc, err := encodeDocument(a)
	if err != nil {
		return nil, err
	}
	cp := &domain.Architecture{
		ID:         a.ID,
		Name:       a.Name,
		UserID:     a.UserID,
		QuestionID: a.QuestionID,
		Submitted:  a.Submitted,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if err := decodeDocument(cp, doc); err != nil {
		return nil, err
	}
	return cp, nil
}

// MemoryHistoryRepository keeps evaluation history in process.
type MemoryHistoryRepository struct {
	mu      sync.Mutex
	entries map[string][]*HistoryEntry
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{entries: map[string][]*HistoryEntry{}}
}

func (m *MemoryHistoryRepository) Append(_ context.Context, e *HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries[e.ArchitectureID] = append(m.entries[e.ArchitectureID], &cp)
	return nil
}

func (m *MemoryHistoryRepository) ListByArchitecture(_ context.Context, architectureID string, limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.entries[architectureID]
	out := make([]*HistoryEntry, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *all[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryHistoryRepository) DeleteByArchitecture(_ context.Context, architectureID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, architectureID)
	return nil
}

func (m *MemoryHistoryRepository) Ping(context.Context) error { return nil }
