// package linear provides the small-map backend: a fixed-capacity
// slice of key-value pairs kept in insertion order and searched
// linearly. It avoids hashing entirely and is meant for maps that
// are expected to stay small.
package linear

import "github.com/graph-guard/ggmap/pkg/container"

// DefaultCapacity is the number of pairs a Linear holds
// before it reports container.Full.
const DefaultCapacity = 14

type Linear[K, V any] struct {
	d        []container.Pair[K, V]
	capacity int
	policy   container.Policy[K, V]
	version  uint64
}

var _ container.Mapper[string, int] = (*Linear[string, int])(nil)

// New creates a new instance of Linear holding at most capacity pairs.
// DefaultCapacity is used if capacity < 1.
// Only Equal, DestroyKey and DestroyValue of policy are used.
func New[K, V any](
	capacity int,
	policy container.Policy[K, V],
) *Linear[K, V] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Linear[K, V]{
		d:        make([]container.Pair[K, V], 0, capacity),
		capacity: capacity,
		policy:   policy,
	}
}

func (m *Linear[K, V]) index(key K) int {
	for i := 0; i < len(m.d); i++ {
		if m.policy.Equal(m.d[i].Key, key) {
			return i
		}
	}
	return -1
}

// Insert associates key with value.
// If an equal key exists its key and value are destroyed and
// replaced by the new ones. If the key doesn't exist and the map
// is at capacity Insert returns container.Full without mutating.
func (m *Linear[K, V]) Insert(key K, value V) container.InsertResult {
	if i := m.index(key); i > -1 {
		p := &m.d[i]
		m.policy.DestroyKey(p.Key)
		m.policy.DestroyValue(p.Value)
		p.Key, p.Value = key, value
		m.version++
		return container.Replaced
	}
	if len(m.d) >= m.capacity {
		return container.Full
	}
	m.d = append(m.d, container.Pair[K, V]{Key: key, Value: value})
	m.version++
	return container.Inserted
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (m *Linear[K, V]) Get(key K) (v V, ok bool) {
	if i := m.index(key); i > -1 {
		return m.d[i].Value, true
	}
	return v, false
}

// GetFn calls fn providing a pointer to the value and returns true
// if key exists, otherwise returns false without calling fn.
// The pointer is valid until the next mutating call.
func (m *Linear[K, V]) GetFn(key K, fn func(*V)) (ok bool) {
	if i := m.index(key); i > -1 {
		fn(&m.d[i].Value)
		return true
	}
	return false
}

// Remove destroys the pair with the given key and returns true.
// The order of the remaining pairs is preserved.
// Returns false if the key doesn't exist.
func (m *Linear[K, V]) Remove(key K) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	p := m.d[i]
	copy(m.d[i:], m.d[i+1:])
	m.d[len(m.d)-1] = container.Pair[K, V]{}
	m.d = m.d[:len(m.d)-1]
	m.version++
	m.policy.DestroyKey(p.Key)
	m.policy.DestroyValue(p.Value)
	return true
}

// Clear destroys all pairs. The capacity is retained.
func (m *Linear[K, V]) Clear() {
	for i := range m.d {
		m.policy.DestroyKey(m.d[i].Key)
		m.policy.DestroyValue(m.d[i].Value)
		m.d[i] = container.Pair[K, V]{}
	}
	m.d = m.d[:0]
	m.version++
}

// Drain calls fn for every pair in insertion order handing over
// ownership, no destructors are called. The storage is released
// afterwards and the map is left empty with zero capacity.
func (m *Linear[K, V]) Drain(fn func(key K, value V)) {
	for i := range m.d {
		fn(m.d[i].Key, m.d[i].Value)
	}
	m.d, m.capacity = nil, 0
	m.version++
}

// Len returns the number of stored key-value pairs.
func (m *Linear[K, V]) Len() int { return len(m.d) }

// Cap returns the maximum number of pairs.
func (m *Linear[K, V]) Cap() int { return m.capacity }

// Visit calls fn for every stored key-value pair in insertion order.
// Returns immediately if fn returns true.
// Panics with container.ErrMutatedDuringIteration if fn mutates the map.
func (m *Linear[K, V]) Visit(fn func(key K, value V) (stop bool)) {
	v := m.version
	for i := 0; i < len(m.d); i++ {
		if fn(m.d[i].Key, m.d[i].Value) {
			break
		}
		if m.version != v {
			panic(container.ErrMutatedDuringIteration)
		}
	}
}

// Iterator returns an iterator positioned at the first pair.
func (m *Linear[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, version: m.version}
}

// Iterator iterates over a Linear in insertion order.
type Iterator[K, V any] struct {
	m       *Linear[K, V]
	i       int
	version uint64
}

var _ container.Iterator[string, int] = (*Iterator[string, int])(nil)

// Next returns the pair at the current position and advances.
// ok is false once all pairs were returned.
// Panics with container.ErrMutatedDuringIteration if the map
// was mutated since the iterator was created.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	if it.m.version != it.version {
		panic(container.ErrMutatedDuringIteration)
	}
	if it.i >= len(it.m.d) {
		return key, value, false
	}
	p := &it.m.d[it.i]
	it.i++
	return p.Key, p.Value, true
}
