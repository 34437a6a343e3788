package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps values in memory.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySlot returns an empty, private memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string][]byte{}}
}

var shared = NewMemorySlot()

// Shared returns the process-wide memory slot. Every store opened on it
// sees the same values, like a browser's per-origin storage.
func Shared() *MemorySlot {
	return shared
}

func (m *MemorySlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySlot) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (m *MemorySlot) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Close is a no-op; the values outlive the slot handle.
func (m *MemorySlot) Close() error {
	return nil
}
