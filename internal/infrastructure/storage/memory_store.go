package storage

import (
	"context"
	"sync"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

// MemoryPreferenceStore keeps preferences for the life of the process. It is
// the fallback when no Redis address is configured.
type MemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{
		data: make(map[string]string),
	}
}

func (m *MemoryPreferenceStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return "", entities.ErrNotFound
	}
	return value, nil
}

func (m *MemoryPreferenceStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryPreferenceStore) HealthCheck(context.Context) error { return nil }

func (m *MemoryPreferenceStore) Close() error { return nil }
