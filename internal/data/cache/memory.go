package cache

import (
	"container/list"
	"sync"
)

// memoryTier is a capacity-bounded LRU kept in front of the sqlite table.
// Values are shared between callers and must be treated as read-only.
type memoryTier[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most recently used
}

type memoryEntry[K comparable, V any] struct {
	key   K
	value V
}

func newMemoryTier[K comparable, V any](capacity int) *memoryTier[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &memoryTier[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

func (m *memoryTier[K, V]) get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*memoryEntry[K, V]).value, true
}

func (m *memoryTier[K, V]) put(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.order.MoveToFront(el)
		el.Value.(*memoryEntry[K, V]).value = value
		return
	}
	if m.order.Len() >= m.capacity {
		if back := m.order.Back(); back != nil {
			m.order.Remove(back)
			delete(m.items, back.Value.(*memoryEntry[K, V]).key)
		}
	}
	m.items[key] = m.order.PushFront(&memoryEntry[K, V]{key: key, value: value})
}

func (m *memoryTier[K, V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *memoryTier[K, V]) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.items = make(map[K]*list.Element, m.capacity)
}
