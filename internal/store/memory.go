package store

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Memory is a mutex-guarded in-process Store. It is the default backend when
// no database is configured and the workhorse of the test suites.
type Memory struct {
	mu       sync.RWMutex
	products map[string]Product
	clock    clockwork.Clock
}

// NewMemory creates an empty in-memory store using the real clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(clockwork.NewRealClock())
}

// NewMemoryWithClock creates an in-memory store with an injected time source,
// so tests can make upsert bookkeeping deterministic.
func NewMemoryWithClock(clock clockwork.Clock) *Memory {
	return &Memory{
		products: make(map[string]Product),
		clock:    clock,
	}
}

// GetByKey returns the product under key, or ErrNotFound.
func (m *Memory) GetByKey(_ context.Context, key string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[key]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// Put upserts the product by key. Readers racing with Put observe either the
// old or the new entry, never a partial write.
func (m *Memory) Put(_ context.Context, product Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if existing, ok := m.products[product.Key]; ok {
		product.CreatedAt = existing.CreatedAt
	} else {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	m.products[product.Key] = product
	return product, nil
}

// Len reports the number of stored products.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}
