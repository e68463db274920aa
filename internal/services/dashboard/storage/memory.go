package storage

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Store. Values are lost on exit.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func memoryKey(scope, key string) string { return scope + "\x00" + key }

// Get returns a copy of the stored value.
func (m *Memory) Get(ctx context.Context, scope, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scope, key, err := ValidateKey(scope, key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	value, ok := m.values[memoryKey(scope, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Put stores a copy of value.
func (m *Memory) Put(ctx context.Context, scope, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scope, key, err := ValidateKey(scope, key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[memoryKey(scope, key)] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

// Delete removes key from scope.
func (m *Memory) Delete(ctx context.Context, scope, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scope, key, err := ValidateKey(scope, key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.values, memoryKey(scope, key))
	m.mu.Unlock()
	return nil
}

// DeleteScope removes every key of scope.
func (m *Memory) DeleteScope(ctx context.Context, scope string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return ErrInvalidKey
	}
	prefix := scope + "\x00"
	m.mu.Lock()
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
