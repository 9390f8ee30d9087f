package kvstore

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.items[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
