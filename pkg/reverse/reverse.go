// Package reverse reads a mapping backwards: values become keys and keys
// become values.
//
// A View keeps no state of its own. Every call scans the wrapped mapping in
// its iteration order, so the view always reflects the mapping as it is now.
// Values need not be unique; lookups return the first key holding the value.
package reverse

import (
	"errors"
	"fmt"
	"iter"

	"github.com/UTD-JLA/odict/pkg/orderedmap"
)

var ErrValueNotFound = errors.New("value not found")

var _ orderedmap.EnumerableMapping[int, string] = (*View[string, int])(nil)

// View must not outlive the mapping it wraps.
type View[K, V comparable] struct {
	context orderedmap.EnumerableMapping[K, V]
	equal   func(a, b V) bool
}

// New returns a view comparing values with ==. When V is an interface type,
// lookups panic on values whose dynamic type is not comparable, such as
// slices or maps; use NewFunc for those.
func New[K, V comparable](m orderedmap.EnumerableMapping[K, V]) *View[K, V] {
	return NewFunc(m, func(a, b V) bool { return a == b })
}

// NewFunc returns a view comparing values with equal. Use it when V is an
// interface type whose dynamic values may not support ==.
func NewFunc[K, V comparable](m orderedmap.EnumerableMapping[K, V], equal func(a, b V) bool) *View[K, V] {
	return &View[K, V]{
		context: m,
		equal:   equal,
	}
}

func (v *View[K, V]) Get(value V) (K, bool) {
	for key, val := range v.context.All() {
		if v.equal(val, value) {
			return key, true
		}
	}

	var zero K
	return zero, false
}

// Item returns the first key holding value, or ErrValueNotFound.
func (v *View[K, V]) Item(value V) (K, error) {
	key, ok := v.Get(value)
	if !ok {
		return key, fmt.Errorf("%w: %v", ErrValueNotFound, value)
	}
	return key, nil
}

func (v *View[K, V]) GetOr(value V, def K) K {
	if key, ok := v.Get(value); ok {
		return key
	}
	return def
}

func (v *View[K, V]) Contains(value V) bool {
	_, ok := v.Get(value)
	return ok
}

func (v *View[K, V]) Len() int {
	return v.context.Len()
}

// Keys returns the wrapped mapping's values.
func (v *View[K, V]) Keys() []V {
	keys := make([]V, 0, v.Len())
	for _, val := range v.context.All() {
		keys = append(keys, val)
	}
	return keys
}

// Values returns the wrapped mapping's keys.
func (v *View[K, V]) Values() []K {
	values := make([]K, 0, v.Len())
	for key := range v.context.All() {
		values = append(values, key)
	}
	return values
}

func (v *View[K, V]) Items() []orderedmap.Pair[V, K] {
	items := make([]orderedmap.Pair[V, K], 0, v.Len())
	for key, val := range v.context.All() {
		items = append(items, orderedmap.Pair[V, K]{Key: val, Value: key})
	}
	return items
}

// All yields (value, key) pairs. Ranging with one variable yields the values.
func (v *View[K, V]) All() iter.Seq2[V, K] {
	return func(yield func(V, K) bool) {
		for key, val := range v.context.All() {
			if !yield(val, key) {
				return
			}
		}
	}
}
