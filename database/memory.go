package database

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and single-node dev runs.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]string
	quota int
}

func NewMemory(quotaBytes int) *Memory {
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}
	return &Memory{docs: make(map[string]string), quota: quotaBytes}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.docs[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := len(key) + len(value)
	for k, v := range m.docs {
		if k == key {
			continue
		}
		total += len(k) + len(v)
	}
	if total > m.quota {
		return ErrQuotaExceeded
	}

	m.docs[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *Memory) Close() error { return nil }
