package collection

import "sync"

type SyncMap[K comparable, V any] struct {
	m   map[K]V
	mux sync.RWMutex
}

func (m *SyncMap[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

func (m *SyncMap[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m[k] = v
}

// Update replaces the value under k with fn(current, ok) while holding the lock.
func (m *SyncMap[K, V]) Update(k K, fn func(current V, ok bool) V) V {
	m.mux.Lock()
	defer m.mux.Unlock()
	current, ok := m.m[k]
	v := fn(current, ok)
	m.m[k] = v
	return v
}

func (m *SyncMap[K, V]) Delete(k K) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.m, k)
}

// DeleteIf removes every entry matching predicate and returns the number removed.
func (m *SyncMap[K, V]) DeleteIf(predicate func(key K, value V) bool) int {
	m.mux.Lock()
	defer m.mux.Unlock()
	removed := 0
	for k, v := range m.m {
		if predicate(k, v) {
			delete(m.m, k)
			removed++
		}
	}
	return removed
}

// Range iterates over a copy of the entries; f may modify the map.
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mux.RLock()
	entries := make(map[K]V, len(m.m))
	for k, v := range m.m {
		entries[k] = v
	}
	m.mux.RUnlock()
	for k, v := range entries {
		if !f(k, v) {
			return
		}
	}
}

func (m *SyncMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{m: make(map[K]V)}
}
