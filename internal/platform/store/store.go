// Package store provides the key-value persistence substrate behind record
// collections. Each named collection is one opaque value under one key; a
// substrate offers no cross-key transactions and last writer wins.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Substrate is the pluggable persistence port. Implementations must treat
// Save as a full replace of the value under key.
type Substrate interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Memory is an in-process Substrate used by tests and as the fallback
// backend.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	return nil
}
