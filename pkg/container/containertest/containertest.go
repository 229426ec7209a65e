// package containertest provides utilities for testing containers.
package containertest

import (
	"fmt"

	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/stretchr/testify/require"
)

// Tracker is a container.Policy recording every destructor call.
// Keys are hashed with Hasher, or XXH3 if Hasher is nil.
type Tracker[K container.Bytes, V comparable] struct {
	Hasher container.Hasher[K]

	// Keys and Values hold destroyed payloads in call order.
	Keys   []K
	Values []V
}

var _ container.Policy[string, int] = new(Tracker[string, int])

func (t *Tracker[K, V]) Hash(k K) uint64 {
	if t.Hasher == nil {
		return container.HasherXXH3[K]{}.Hash(k)
	}
	return t.Hasher.Hash(k)
}

func (t *Tracker[K, V]) Equal(a, b K) bool { return string(a) == string(b) }

func (t *Tracker[K, V]) DestroyKey(k K) { t.Keys = append(t.Keys, k) }

func (t *Tracker[K, V]) DestroyValue(v V) { t.Values = append(t.Values, v) }

// KeyDestroyed returns the number of times k was destroyed.
func (t *Tracker[K, V]) KeyDestroyed(k K) (n int) {
	for i := range t.Keys {
		if string(t.Keys[i]) == string(k) {
			n++
		}
	}
	return n
}

// ValueDestroyed returns the number of times v was destroyed.
func (t *Tracker[K, V]) ValueDestroyed(v V) (n int) {
	for i := range t.Values {
		if t.Values[i] == v {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (t *Tracker[K, V]) Reset() {
	t.Keys, t.Values = nil, nil
}

// MockHasher returns predefined hashes.
// Hash panics for keys that aren't in Map.
type MockHasher[K container.Bytes] struct {
	Map map[string]uint64
}

func (m *MockHasher[K]) Hash(k K) uint64 {
	if hashValue, ok := m.Map[string(k)]; ok {
		return hashValue
	}
	panic(fmt.Errorf("missing hash value for key %q", string(k)))
}

// Pairs returns all pairs of m in visiting order.
func Pairs[K, V any](m container.Mapper[K, V]) (p []container.Pair[K, V]) {
	m.Visit(func(key K, value V) (stop bool) {
		p = append(p, container.Pair[K, V]{Key: key, Value: value})
		return false
	})
	return p
}

// Drain returns all pairs yielded by it.
func Drain[K, V any](it container.Iterator[K, V]) (p []container.Pair[K, V]) {
	for {
		k, v, ok := it.Next()
		if !ok {
			return p
		}
		p = append(p, container.Pair[K, V]{Key: k, Value: v})
	}
}

// Expect checks that m holds exactly the pairs in expect,
// both through Get and through Visit.
func Expect[K container.Bytes, V any](
	t require.TestingT,
	m container.Mapper[K, V],
	expect map[string]V,
) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.Equal(t, len(expect), m.Len())
	for k, ev := range expect {
		v, ok := m.Get(K(k))
		require.True(t, ok, "missing key %q", k)
		require.Equal(t, ev, v, "value of key %q", k)
	}
	visited := make(map[string]V, len(expect))
	for _, p := range Pairs(m) {
		_, dup := visited[string(p.Key)]
		require.False(t, dup, "key %q visited twice", string(p.Key))
		visited[string(p.Key)] = p.Value
	}
	if len(expect) == 0 {
		require.Len(t, visited, 0)
		return
	}
	require.Equal(t, expect, visited)
}
