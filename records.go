package textdex

import (
	"context"
	"sync"
)

// Resolver turns ranked keys into host records, preserving order.
// Keys it cannot resolve are skipped.
type Resolver interface {
	Resolve(ctx context.Context, keys []Key) ([]any, error)
}

// Filterer narrows keys to the records whose attributes satisfy scope.
type Filterer interface {
	Filter(ctx context.Context, keys []Key, scope Predicate) ([]Key, error)
}

// MemoryRecords is an in-process Resolver and Filterer.
// It is safe for concurrent use.
type MemoryRecords struct {
	mu    sync.RWMutex
	items map[Key]memoryItem
}

type memoryItem struct {
	value any
	attrs map[string]any
}

var (
	_ Resolver = (*MemoryRecords)(nil)
	_ Filterer = (*MemoryRecords)(nil)
)

// NewMemoryRecords creates an empty record set.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{items: make(map[Key]memoryItem)}
}

// Put stores value under key with the attributes scopes are evaluated against.
func (m *MemoryRecords) Put(key Key, value any, attrs map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem{value: value, attrs: attrs}
}

// Delete forgets a record.
func (m *MemoryRecords) Delete(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len returns the number of stored records.
func (m *MemoryRecords) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Resolve implements Resolver.
func (m *MemoryRecords) Resolve(_ context.Context, keys []Key) ([]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if it, ok := m.items[k]; ok {
			out = append(out, it.value)
		}
	}
	return out, nil
}

// Filter implements Filterer. Unknown keys never satisfy a scope.
func (m *MemoryRecords) Filter(_ context.Context, keys []Key, scope Predicate) ([]Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		it, ok := m.items[k]
		if !ok {
			continue
		}
		if scope.Matches(it.attrs) {
			out = append(out, k)
		}
	}
	return out, nil
}
