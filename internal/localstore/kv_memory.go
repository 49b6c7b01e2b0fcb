package localstore

import "sync"

// memoryKV is a map-backed KV used in tests and for ephemeral sessions.
type memoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV constructs an in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{items: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}
