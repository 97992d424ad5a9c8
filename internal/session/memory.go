package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process. Used for tests and single-node development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (State, error) {
	if id == "" {
		return State{}, ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id].clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, id string, s State) error {
	if id == "" {
		return ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s.clone()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
