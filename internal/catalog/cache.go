package catalog

import (
	"context"
	"sync"
)

// Cache stores the generation lists between catalog loads.
type Cache interface {
	Get(ctx context.Context) ([][]string, bool, error)
	Put(ctx context.Context, gens [][]string) error
}

// MemoryCache keeps the catalog for the lifetime of the process.
type MemoryCache struct {
	mu   sync.RWMutex
	gens [][]string
}

// NewMemoryCache returns an empty process-scoped cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get returns a copy of the cached lists.
func (m *MemoryCache) Get(_ context.Context) ([][]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.gens == nil {
		return nil, false, nil
	}
	return cloneGenerations(m.gens), true, nil
}

// Put replaces the cached lists.
func (m *MemoryCache) Put(_ context.Context, gens [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens = cloneGenerations(gens)
	return nil
}

func cloneGenerations(gens [][]string) [][]string {
	out := make([][]string, len(gens))
	for i, names := range gens {
		out[i] = append([]string(nil), names...)
	}
	return out
}
