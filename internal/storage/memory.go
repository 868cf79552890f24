package storage

import (
	"context"
	"sync"
)

type Memory struct {
	mu       sync.RWMutex
	key      string
	enabled  bool
	keyValid bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AccessKey(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key, nil
}

func (m *Memory) SetAccessKey(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = key
	return nil
}

func (m *Memory) Enabled(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled, nil
}

func (m *Memory) SetEnabled(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
	return nil
}

func (m *Memory) KeyValid(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keyValid, nil
}

func (m *Memory) SetKeyValid(ctx context.Context, valid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyValid = valid
	return nil
}
