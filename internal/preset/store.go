package preset

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/netmesh/internal/config"
)

// Record is a user preset as persisted by a Store.
type Record struct {
	Name      string        `json:"name"`
	Config    config.Config `json:"config"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store persists user presets. Implementations know nothing about built-ins.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, name string) (Record, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, name string) error
	Close() error
}

// MemoryStore keeps presets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) List(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, name string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) Put(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Name] = rec
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		return ErrNotFound
	}
	delete(m.records, name)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
