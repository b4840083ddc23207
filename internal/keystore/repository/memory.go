package repository

import (
	"context"
	"sort"
	"sync"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// MemoryRepository keeps entries in process memory. Nothing survives a restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]keystoreDomain.Entry
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]keystoreDomain.Entry)}
}

// Save inserts or replaces the entry stored under entry.Key.
func (m *MemoryRepository) Save(_ context.Context, entry *keystoreDomain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *entry
	stored.Sealed = append([]byte(nil), entry.Sealed...)
	if existing, ok := m.entries[entry.Key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	m.entries[entry.Key] = stored
	return nil
}

// Get returns the entry stored under key or ErrEntryNotFound.
func (m *MemoryRepository) Get(_ context.Context, key string) (*keystoreDomain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, keystoreDomain.ErrEntryNotFound
	}
	entry.Sealed = append([]byte(nil), entry.Sealed...)
	return &entry, nil
}

// Delete removes the entry stored under key. Removing an absent key is not an error.
func (m *MemoryRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// DeleteAll removes every entry.
func (m *MemoryRepository) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]keystoreDomain.Entry)
	return nil
}

// ListKeys returns the stored names in lexical order.
func (m *MemoryRepository) ListKeys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
