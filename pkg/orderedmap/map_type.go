package orderedmap

import "iter"

type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// EnumerableMapping is a read-only mapping with a stable iteration order.
// Keys, Values, Items and All always agree on that order.
type EnumerableMapping[K comparable, V any] interface {
	Get(key K) (V, bool)
	Item(key K) (V, error)
	Contains(key K) bool
	Len() int
	Keys() []K
	Values() []V
	Items() []Pair[K, V]
	All() iter.Seq2[K, V]
}

type FullMapping[K comparable, V any] interface {
	EnumerableMapping[K, V]
	Set(key K, value V)
	Delete(key K) error
}

// CheckedSetter is implemented by mappings that can refuse a key on write.
type CheckedSetter[K comparable, V any] interface {
	TrySet(key K, value V) error
}
