package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It round-trips through the same
// encoding as RedisStore.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	load  EmployeeLoader
}

func NewMemoryStore(load EmployeeLoader) *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte), load: load}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	data, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(ctx, data, m.load)
}

func (m *MemoryStore) Save(ctx context.Context, id string, state *State) error {
	data, err := encode(*state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[id] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	_, ok := m.items[id]
	m.mu.RUnlock()
	return ok, nil
}
