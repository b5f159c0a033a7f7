// Package orderedmap provides an insertion-ordered mapping and the interfaces
// other packages use to detect mapping conformance.
//
// The ordered dictionary itself is github.com/wk8/go-ordered-map/v2; OrderedMap
// wraps it so that the dependency stays behind this package's API.
package orderedmap

import (
	"fmt"
	"iter"
	"strings"

	om "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

var _ FullMapping[string, any] = (*OrderedMap[string, any])(nil)

// OrderedMap is a mapping that remembers insertion order. The zero value is an
// empty map ready to use, and a nil *OrderedMap reads as empty.
type OrderedMap[K comparable, V any] struct {
	inner *om.OrderedMap[K, V]
}

// New creates a map holding pairs in the order given. A repeated key keeps its
// first position and takes the last value.
func New[K comparable, V any](pairs ...Pair[K, V]) *OrderedMap[K, V] {
	m := NewWithCapacity[K, V](len(pairs))
	m.Update(pairs...)
	return m
}

func NewWithCapacity[K comparable, V any](capacity int) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		inner: om.New[K, V](om.WithCapacity[K, V](capacity)),
	}
}

func (m *OrderedMap[K, V]) init() {
	if m.inner == nil {
		m.inner = om.New[K, V]()
	}
}

func (m *OrderedMap[K, V]) oldest() *om.Pair[K, V] {
	if m == nil || m.inner == nil {
		return nil
	}
	return m.inner.Oldest()
}

func (m *OrderedMap[K, V]) newest() *om.Pair[K, V] {
	if m == nil || m.inner == nil {
		return nil
	}
	return m.inner.Newest()
}

func (m *OrderedMap[K, V]) pair(key K) *om.Pair[K, V] {
	if m == nil || m.inner == nil {
		return nil
	}
	return m.inner.GetPair(key)
}

// Set stores value under key. A new key is appended to the end; an existing
// key keeps its position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	m.init()
	m.inner.Set(key, value)
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if p := m.pair(key); p != nil {
		return p.Value, true
	}

	var zero V
	return zero, false
}

func (m *OrderedMap[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Item is Get for callers that want an error: it fails with ErrKeyNotFound.
func (m *OrderedMap[K, V]) Item(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, keyNotFound(key)
	}
	return v, nil
}

func (m *OrderedMap[K, V]) Contains(key K) bool {
	return m.pair(key) != nil
}

func (m *OrderedMap[K, V]) Delete(key K) error {
	_, err := m.Pop(key)
	return err
}

func (m *OrderedMap[K, V]) Len() int {
	if m == nil || m.inner == nil {
		return 0
	}
	return m.inner.Len()
}

func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	for p := m.oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	for p := m.oldest(); p != nil; p = p.Next() {
		values = append(values, p.Value)
	}
	return values
}

func (m *OrderedMap[K, V]) Items() []Pair[K, V] {
	items := make([]Pair[K, V], 0, m.Len())
	for p := m.oldest(); p != nil; p = p.Next() {
		items = append(items, Pair[K, V]{Key: p.Key, Value: p.Value})
	}
	return items
}

// All returns an iterator over all key-value pairs in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := m.oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Backward is All from newest to oldest.
func (m *OrderedMap[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := m.newest(); p != nil; p = p.Prev() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) FirstKey() (K, error) {
	if p := m.oldest(); p != nil {
		return p.Key, nil
	}

	var zero K
	return zero, ErrEmpty
}

func (m *OrderedMap[K, V]) LastKey() (K, error) {
	if p := m.newest(); p != nil {
		return p.Key, nil
	}

	var zero K
	return zero, ErrEmpty
}

func (m *OrderedMap[K, V]) NextKey(key K) (K, error) {
	var zero K

	p := m.pair(key)
	if p == nil {
		return zero, keyNotFound(key)
	}

	if next := p.Next(); next != nil {
		return next.Key, nil
	}

	return zero, fmt.Errorf("%w: nothing after %v", ErrNoAdjacentKey, key)
}

func (m *OrderedMap[K, V]) PrevKey(key K) (K, error) {
	var zero K

	p := m.pair(key)
	if p == nil {
		return zero, keyNotFound(key)
	}

	if prev := p.Prev(); prev != nil {
		return prev.Key, nil
	}

	return zero, fmt.Errorf("%w: nothing before %v", ErrNoAdjacentKey, key)
}

func (m *OrderedMap[K, V]) MoveToFront(key K) error {
	if !m.Contains(key) {
		return keyNotFound(key)
	}
	return m.inner.MoveToFront(key)
}

func (m *OrderedMap[K, V]) MoveToBack(key K) error {
	if !m.Contains(key) {
		return keyNotFound(key)
	}
	return m.inner.MoveToBack(key)
}

// MoveBefore moves key so that it sits right before mark.
func (m *OrderedMap[K, V]) MoveBefore(key, mark K) error {
	if err := m.requireKeys(key, mark); err != nil {
		return err
	}
	if key == mark {
		return nil
	}
	return m.inner.MoveBefore(key, mark)
}

// MoveAfter moves key so that it sits right after mark.
func (m *OrderedMap[K, V]) MoveAfter(key, mark K) error {
	if err := m.requireKeys(key, mark); err != nil {
		return err
	}
	if key == mark {
		return nil
	}
	return m.inner.MoveAfter(key, mark)
}

// InsertBefore adds a new key right before mark.
func (m *OrderedMap[K, V]) InsertBefore(mark, key K, value V) error {
	if err := m.prepareInsert(mark, key); err != nil {
		return err
	}

	m.inner.Set(key, value)
	return m.inner.MoveBefore(key, mark)
}

// InsertAfter adds a new key right after mark.
func (m *OrderedMap[K, V]) InsertAfter(mark, key K, value V) error {
	if err := m.prepareInsert(mark, key); err != nil {
		return err
	}

	m.inner.Set(key, value)
	return m.inner.MoveAfter(key, mark)
}

func (m *OrderedMap[K, V]) prepareInsert(mark, key K) error {
	if !m.Contains(mark) {
		return keyNotFound(mark)
	}
	if m.Contains(key) {
		return fmt.Errorf("%w: %v", ErrKeyExists, key)
	}
	return nil
}

func (m *OrderedMap[K, V]) requireKeys(keys ...K) error {
	for _, key := range keys {
		if !m.Contains(key) {
			return keyNotFound(key)
		}
	}
	return nil
}

// Swap exchanges the positions of a and b. Values stay with their keys.
func (m *OrderedMap[K, V]) Swap(a, b K) error {
	if err := m.requireKeys(a, b); err != nil {
		return err
	}
	if a == b {
		return nil
	}

	pa, pb := m.inner.GetPair(a), m.inner.GetPair(b)

	if pb.Next() == pa {
		return m.inner.MoveBefore(a, b)
	}

	afterB := pb.Next()

	if err := m.inner.MoveBefore(b, a); err != nil {
		return err
	}

	if afterB == nil {
		return m.inner.MoveToBack(a)
	}

	return m.inner.MoveBefore(a, afterB.Key)
}

// Pop removes key and returns its value.
func (m *OrderedMap[K, V]) Pop(key K) (V, error) {
	if !m.Contains(key) {
		var zero V
		return zero, keyNotFound(key)
	}

	v, _ := m.inner.Delete(key)
	return v, nil
}

// PopItem removes and returns the newest entry.
func (m *OrderedMap[K, V]) PopItem() (Pair[K, V], error) {
	p := m.newest()
	if p == nil {
		return Pair[K, V]{}, ErrEmpty
	}

	item := Pair[K, V]{Key: p.Key, Value: p.Value}
	m.inner.Delete(p.Key)

	return item, nil
}

// SetDefault returns the value under key, storing def first if key is absent.
func (m *OrderedMap[K, V]) SetDefault(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}

	m.Set(key, def)
	return def
}

func (m *OrderedMap[K, V]) Update(pairs ...Pair[K, V]) {
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
}

func (m *OrderedMap[K, V]) Clear() {
	m.inner = nil
}

// Copy returns a shallow copy with the same order.
func (m *OrderedMap[K, V]) Copy() *OrderedMap[K, V] {
	c := NewWithCapacity[K, V](m.Len())
	for p := m.oldest(); p != nil; p = p.Next() {
		c.inner.Set(p.Key, p.Value)
	}
	return c
}

func (m *OrderedMap[K, V]) String() string {
	var b strings.Builder

	b.WriteString("orderedmap[")
	for p := m.oldest(); p != nil; p = p.Next() {
		if p.Prev() != nil {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v:%v", p.Key, p.Value)
	}
	b.WriteByte(']')

	return b.String()
}

// MarshalJSON implements json.Marshaler. The JSON output preserves key order.
func (m *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	if m.inner == nil {
		return []byte("{}"), nil
	}
	return m.inner.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. The insertion order matches the
// order of keys in the JSON input.
func (m *OrderedMap[K, V]) UnmarshalJSON(data []byte) error {
	m.inner = om.New[K, V]()
	return m.inner.UnmarshalJSON(data)
}

// MarshalYAML implements yaml.Marshaler, emitting a mapping node in order.
func (m *OrderedMap[K, V]) MarshalYAML() (any, error) {
	if m == nil {
		return nil, nil
	}
	m.init()
	return m.inner.MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *OrderedMap[K, V]) UnmarshalYAML(value *yaml.Node) error {
	m.inner = om.New[K, V]()
	return m.inner.UnmarshalYAML(value)
}
