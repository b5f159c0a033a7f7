package orderedmap_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/UTD-JLA/odict/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func p[V any](key string, value V) orderedmap.Pair[string, V] {
	return orderedmap.Pair[string, V]{Key: key, Value: value}
}

func TestOrderedMap(t *testing.T) {
	t.Run("Test ordered map", func(t *testing.T) {
		m := orderedmap.New[string, int]()

		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)

		assert.Equal(t, []string{"foo", "bar", "baz"}, m.Keys())
		assert.Equal(t, []int{1, 2, 3}, m.Values())

		require.NoError(t, m.Delete("bar"))

		assert.Equal(t, []string{"foo", "baz"}, m.Keys())
		assert.Equal(t, []int{1, 3}, m.Values())
	})

	t.Run("Accessors agree on order", func(t *testing.T) {
		m := orderedmap.New(p("z", 26), p("a", 1), p("m", 13), p("b", 2))

		keys := m.Keys()
		values := m.Values()
		items := m.Items()

		var iterated []string
		for k, v := range m.All() {
			iterated = append(iterated, k)
			assert.Equal(t, m.GetOr(k, -1), v)
		}

		assert.Equal(t, []string{"z", "a", "m", "b"}, keys)
		assert.Equal(t, keys, iterated)
		require.Len(t, items, len(keys))
		for i, item := range items {
			assert.Equal(t, keys[i], item.Key)
			assert.Equal(t, values[i], item.Value)
		}
	})

	t.Run("Existing key keeps its position", func(t *testing.T) {
		m := orderedmap.New(p("a", 1), p("b", 2), p("a", 3))

		assert.Equal(t, []string{"a", "b"}, m.Keys())
		assert.Equal(t, 3, m.GetOr("a", 0))

		m.Set("b", 20)
		assert.Equal(t, []string{"a", "b"}, m.Keys())

		require.NoError(t, m.Delete("a"))
		m.Set("a", 1)
		assert.Equal(t, []string{"b", "a"}, m.Keys())
	})

	t.Run("Missing keys", func(t *testing.T) {
		m := orderedmap.New(p("a", 1))

		_, err := m.Item("nope")
		assert.ErrorIs(t, err, orderedmap.ErrKeyNotFound)
		assert.ErrorIs(t, m.Delete("nope"), orderedmap.ErrKeyNotFound)

		_, ok := m.Get("nope")
		assert.False(t, ok)
		assert.False(t, m.Contains("nope"))
		assert.True(t, m.Contains("a"))
		assert.Equal(t, 1, m.Len())
	})

	t.Run("Zero value and nil", func(t *testing.T) {
		var zero orderedmap.OrderedMap[string, int]
		assert.Equal(t, 0, zero.Len())
		assert.Empty(t, zero.Keys())

		zero.Set("x", 1)
		assert.Equal(t, []string{"x"}, zero.Keys())

		var nilMap *orderedmap.OrderedMap[string, int]
		assert.Equal(t, 0, nilMap.Len())
		assert.False(t, nilMap.Contains("x"))
		_, err := nilMap.FirstKey()
		assert.ErrorIs(t, err, orderedmap.ErrEmpty)
	})
}

func TestOrderedMapPositions(t *testing.T) {
	newMap := func() *orderedmap.OrderedMap[string, int] {
		return orderedmap.New(p("a", 1), p("b", 2), p("c", 3), p("d", 4))
	}

	t.Run("First and last", func(t *testing.T) {
		m := newMap()

		first, err := m.FirstKey()
		require.NoError(t, err)
		last, err := m.LastKey()
		require.NoError(t, err)

		assert.Equal(t, "a", first)
		assert.Equal(t, "d", last)

		_, err = orderedmap.New[string, int]().LastKey()
		assert.ErrorIs(t, err, orderedmap.ErrEmpty)
	})

	t.Run("Adjacency", func(t *testing.T) {
		m := newMap()

		next, err := m.NextKey("b")
		require.NoError(t, err)
		assert.Equal(t, "c", next)

		prev, err := m.PrevKey("b")
		require.NoError(t, err)
		assert.Equal(t, "a", prev)

		_, err = m.NextKey("d")
		assert.ErrorIs(t, err, orderedmap.ErrNoAdjacentKey)
		_, err = m.PrevKey("a")
		assert.ErrorIs(t, err, orderedmap.ErrNoAdjacentKey)
		_, err = m.NextKey("x")
		assert.ErrorIs(t, err, orderedmap.ErrKeyNotFound)
	})

	t.Run("Moves", func(t *testing.T) {
		m := newMap()

		require.NoError(t, m.MoveToFront("c"))
		assert.Equal(t, []string{"c", "a", "b", "d"}, m.Keys())

		require.NoError(t, m.MoveToBack("a"))
		assert.Equal(t, []string{"c", "b", "d", "a"}, m.Keys())

		require.NoError(t, m.MoveBefore("a", "b"))
		assert.Equal(t, []string{"c", "a", "b", "d"}, m.Keys())

		require.NoError(t, m.MoveAfter("c", "d"))
		assert.Equal(t, []string{"a", "b", "d", "c"}, m.Keys())

		assert.ErrorIs(t, m.MoveAfter("x", "a"), orderedmap.ErrKeyNotFound)
		assert.ErrorIs(t, m.MoveBefore("a", "x"), orderedmap.ErrKeyNotFound)
		assert.ErrorIs(t, m.MoveToFront("x"), orderedmap.ErrKeyNotFound)
	})

	t.Run("Inserts", func(t *testing.T) {
		m := newMap()

		require.NoError(t, m.InsertBefore("c", "bb", 22))
		require.NoError(t, m.InsertAfter("d", "e", 5))
		assert.Equal(t, []string{"a", "b", "bb", "c", "d", "e"}, m.Keys())
		assert.Equal(t, 22, m.GetOr("bb", 0))

		assert.ErrorIs(t, m.InsertAfter("a", "b", 0), orderedmap.ErrKeyExists)
		assert.ErrorIs(t, m.InsertBefore("x", "y", 0), orderedmap.ErrKeyNotFound)
	})

	t.Run("Swap", func(t *testing.T) {
		cases := []struct {
			a, b string
			want []string
		}{
			{"a", "d", []string{"d", "b", "c", "a"}},
			{"d", "a", []string{"d", "b", "c", "a"}},
			{"a", "b", []string{"b", "a", "c", "d"}},
			{"b", "a", []string{"b", "a", "c", "d"}},
			{"b", "c", []string{"a", "c", "b", "d"}},
			{"b", "d", []string{"a", "d", "c", "b"}},
			{"c", "c", []string{"a", "b", "c", "d"}},
		}

		for _, tc := range cases {
			m := newMap()
			require.NoError(t, m.Swap(tc.a, tc.b))
			assert.Equal(t, tc.want, m.Keys(), "swap %s %s", tc.a, tc.b)
			assert.Equal(t, 1, m.GetOr("a", 0))
		}

		assert.ErrorIs(t, newMap().Swap("a", "x"), orderedmap.ErrKeyNotFound)
	})

	t.Run("Pop", func(t *testing.T) {
		m := newMap()

		v, err := m.Pop("b")
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		item, err := m.PopItem()
		require.NoError(t, err)
		assert.Equal(t, p("d", 4), item)
		assert.Equal(t, []string{"a", "c"}, m.Keys())

		_, err = m.Pop("b")
		assert.ErrorIs(t, err, orderedmap.ErrKeyNotFound)

		m.Clear()
		_, err = m.PopItem()
		assert.ErrorIs(t, err, orderedmap.ErrEmpty)
	})

	t.Run("Backward", func(t *testing.T) {
		var keys []string
		for k := range newMap().Backward() {
			keys = append(keys, k)
		}
		assert.Equal(t, []string{"d", "c", "b", "a"}, keys)
	})
}

func TestOrderedMapHelpers(t *testing.T) {
	m := orderedmap.New(p("a", 1))

	assert.Equal(t, 1, m.SetDefault("a", 9))
	assert.Equal(t, 9, m.SetDefault("b", 9))
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	m.Update(p("c", 3), p("a", 10))
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, 10, m.GetOr("a", 0))

	c := m.Copy()
	c.Set("d", 4)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 4, c.Len())

	assert.Equal(t, "orderedmap[a:10 b:9 c:3]", m.String())
}

func TestOrderedMapEncoding(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		m := orderedmap.New(p("zeta", 1), p("alpha", 2))

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"zeta":1,"alpha":2}`, string(data))
		assert.Equal(t, `{"zeta":1,"alpha":2}`, string(data))

		var decoded orderedmap.OrderedMap[string, int]
		require.NoError(t, json.Unmarshal([]byte(`{"y":1,"x":2,"w":3}`), &decoded))
		assert.Equal(t, []string{"y", "x", "w"}, decoded.Keys())
	})

	t.Run("YAML", func(t *testing.T) {
		var decoded orderedmap.OrderedMap[string, string]
		require.NoError(t, yaml.Unmarshal([]byte("b: one\na: two\n"), &decoded))
		assert.Equal(t, []string{"b", "a"}, decoded.Keys())

		data, err := yaml.Marshal(&decoded)
		require.NoError(t, err)
		assert.Equal(t, "b: one\na: two\n", string(data))
	})
}

func TestSyncMap(t *testing.T) {
	m := orderedmap.NewSync[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Set(string(rune('a'+i)), i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, m.Len())

	for k := range m.All() {
		require.NoError(t, m.Delete(k))
	}
	assert.Equal(t, 0, m.Len())

	existing := orderedmap.New(p("x", 1))
	wrapped := orderedmap.Synchronized[string, int](existing)
	require.NoError(t, wrapped.TrySet("y", 2))
	assert.Equal(t, []string{"x", "y"}, existing.Keys())

	_, err := wrapped.Item("z")
	assert.ErrorIs(t, err, orderedmap.ErrKeyNotFound)

	seeded := orderedmap.NewSync(p("b", 2), p("a", 1))
	assert.Equal(t, []string{"b", "a"}, seeded.Keys())
}
