package orderedmap

import (
	"iter"
	"sync"
)

var (
	_ FullMapping[string, any]   = (*SyncMap[string, any])(nil)
	_ CheckedSetter[string, any] = (*SyncMap[string, any])(nil)
)

// SyncMap guards another mapping with a RWMutex. OrderedMap itself does no
// locking; wrap it when a mapping is shared between goroutines.
type SyncMap[K comparable, V any] struct {
	inner FullMapping[K, V]
	mutex sync.RWMutex
}

// NewSync returns a locked OrderedMap holding pairs.
func NewSync[K comparable, V any](pairs ...Pair[K, V]) *SyncMap[K, V] {
	return Synchronized[K, V](New[K, V](pairs...))
}

// Synchronized puts m behind a lock. Once wrapped, m should only be reached
// through the returned SyncMap; direct use bypasses the lock.
func Synchronized[K comparable, V any](m FullMapping[K, V]) *SyncMap[K, V] {
	return &SyncMap[K, V]{inner: m}
}

func (m *SyncMap[K, V]) Set(key K, value V) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.inner.Set(key, value)
}

// TrySet forwards to the inner mapping's TrySet when it has one.
func (m *SyncMap[K, V]) TrySet(key K, value V) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if checked, ok := m.inner.(CheckedSetter[K, V]); ok {
		return checked.TrySet(key, value)
	}

	m.inner.Set(key, value)
	return nil
}

func (m *SyncMap[K, V]) Get(key K) (V, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Get(key)
}

func (m *SyncMap[K, V]) Item(key K) (V, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Item(key)
}

func (m *SyncMap[K, V]) Contains(key K) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Contains(key)
}

func (m *SyncMap[K, V]) Delete(key K) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.inner.Delete(key)
}

func (m *SyncMap[K, V]) Keys() []K {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Keys()
}

func (m *SyncMap[K, V]) Values() []V {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Values()
}

func (m *SyncMap[K, V]) Items() []Pair[K, V] {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Items()
}

// All iterates over a snapshot, so the loop body may write to m.
func (m *SyncMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, item := range m.Items() {
			if !yield(item.Key, item.Value) {
				return
			}
		}
	}
}

func (m *SyncMap[K, V]) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.inner.Len()
}
