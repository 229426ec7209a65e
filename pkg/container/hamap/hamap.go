// package hamap provides the hash-table backend: a power-of-two
// bucket array of singly-linked collision chains that grows and
// shrinks with the number of stored pairs.
//
// Chain nodes live in a single growable arena and are linked by index.
// Each node keeps the hash of its key, so resizing relinks nodes into
// the new bucket array without hashing keys again and without moving
// any payload.
package hamap

import (
	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/math"
	"github.com/yourbasic/bit"
)

const nilNode = -1

// Config defines the sizing policy of a Map.
type Config struct {
	// InitSize is the initial number of buckets, rounded up
	// to the next power of two. The map never shrinks below it.
	InitSize int

	// MaxLoad is the load factor in percent above which
	// the bucket array is doubled.
	MaxLoad int

	// MinLoad is the load factor in percent below which
	// the bucket array is halved. Must be less than half of MaxLoad.
	MinLoad int
}

// DefaultConfig returns the default sizing policy.
func DefaultConfig() Config {
	return Config{
		InitSize: 16,
		MaxLoad:  75,
		MinLoad:  12,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.InitSize < 1 {
		c.InitSize = d.InitSize
	}
	c.InitSize = math.NextPow2(c.InitSize)
	if c.MaxLoad < 1 {
		c.MaxLoad = d.MaxLoad
	}
	if c.MinLoad < 1 || c.MinLoad*2 >= c.MaxLoad {
		// Shrinking must leave the halved table below MaxLoad.
		c.MinLoad = math.Min(d.MinLoad, c.MaxLoad/4)
	}
	return c
}

type node[K, V any] struct {
	hash  uint64
	key   K
	value V
	next  int
}

// Map is a chained hash table.
// Use New to create an instance, the zero value isn't usable.
type Map[K, V any] struct {
	policy  container.Policy[K, V]
	conf    Config
	buckets []int
	nodes   []node[K, V]

	// free is the head of the list of released arena slots.
	free int
	size int

	maxThreshold int
	minThreshold int

	// occupied holds the indexes of non-empty buckets.
	occupied *bit.Set
	version  uint64
}

var _ container.Mapper[string, int] = (*Map[string, int])(nil)

// New creates a new map instance.
// Zero fields of conf are replaced by DefaultConfig.
func New[K, V any](conf Config, policy container.Policy[K, V]) *Map[K, V] {
	conf = conf.normalize()
	m := &Map[K, V]{
		policy:   policy,
		conf:     conf,
		free:     nilNode,
		occupied: bit.New(),
	}
	m.buckets = newBuckets(conf.InitSize)
	m.setThresholds()
	return m
}

func newBuckets(n int) []int {
	b := make([]int, n)
	for i := range b {
		b[i] = nilNode
	}
	return b
}

func (m *Map[K, V]) setThresholds() {
	n := len(m.buckets)
	m.maxThreshold = n * m.conf.MaxLoad / 100
	m.minThreshold = n * m.conf.MinLoad / 100
}

func (m *Map[K, V]) bucket(hash uint64) int {
	return int(hash & uint64(len(m.buckets)-1))
}

// find returns the bucket index and the node index of key.
// The node index is nilNode if the key doesn't exist.
func (m *Map[K, V]) find(key K) (hash uint64, b, i int) {
	hash = m.policy.Hash(key)
	b = m.bucket(hash)
	for i = m.buckets[b]; i != nilNode; i = m.nodes[i].next {
		if m.nodes[i].hash == hash && m.policy.Equal(m.nodes[i].key, key) {
			return
		}
	}
	return
}

// Insert associates key with value.
// If an equal key exists its key and value are destroyed and
// replaced by the new ones in place. Never returns container.Full.
func (m *Map[K, V]) Insert(key K, value V) container.InsertResult {
	hash, b, i := m.find(key)
	if i != nilNode {
		n := &m.nodes[i]
		m.policy.DestroyKey(n.key)
		m.policy.DestroyValue(n.value)
		n.key, n.value = key, value
		m.version++
		return container.Replaced
	}

	i = m.alloc()
	m.nodes[i] = node[K, V]{
		hash:  hash,
		key:   key,
		value: value,
		next:  m.buckets[b],
	}
	m.buckets[b] = i
	m.occupied.Add(b)
	m.size++
	m.version++

	if m.size > m.maxThreshold {
		m.resize(len(m.buckets) << 1)
	}
	return container.Inserted
}

// alloc returns the index of an unused arena slot.
func (m *Map[K, V]) alloc() (i int) {
	if m.free != nilNode {
		i = m.free
		m.free = m.nodes[i].next
		return i
	}
	m.nodes = append(m.nodes, node[K, V]{})
	return len(m.nodes) - 1
}

// release puts the slot at index i on the free list.
func (m *Map[K, V]) release(i int) {
	m.nodes[i] = node[K, V]{next: m.free}
	m.free = i
}

// resize relinks all nodes into a new bucket array of n buckets.
// The new array is fully allocated before the map is modified.
func (m *Map[K, V]) resize(n int) {
	buckets := newBuckets(n)
	occupied := bit.New()
	mask := uint64(n - 1)

	for b := range m.buckets {
		for i := m.buckets[b]; i != nilNode; {
			next := m.nodes[i].next
			nb := int(m.nodes[i].hash & mask)
			m.nodes[i].next = buckets[nb]
			buckets[nb] = i
			occupied.Add(nb)
			i = next
		}
	}

	m.buckets, m.occupied = buckets, occupied
	m.setThresholds()
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if _, _, i := m.find(key); i != nilNode {
		return m.nodes[i].value, true
	}
	return value, false
}

// GetFn calls fn providing a pointer to the value and returns true
// if key exists, otherwise returns false without calling fn.
// The pointer is valid until the next mutating call.
func (m *Map[K, V]) GetFn(key K, fn func(*V)) (ok bool) {
	if _, _, i := m.find(key); i != nilNode {
		fn(&m.nodes[i].value)
		return true
	}
	return false
}

// Remove unlinks and destroys the pair with the given key and
// returns true. Returns false if the key doesn't exist.
func (m *Map[K, V]) Remove(key K) bool {
	hash := m.policy.Hash(key)
	b := m.bucket(hash)
	prev := nilNode
	for i := m.buckets[b]; i != nilNode; prev, i = i, m.nodes[i].next {
		n := m.nodes[i]
		if n.hash != hash || !m.policy.Equal(n.key, key) {
			continue
		}

		if prev == nilNode {
			m.buckets[b] = n.next
		} else {
			m.nodes[prev].next = n.next
		}
		if m.buckets[b] == nilNode {
			m.occupied.Delete(b)
		}
		m.release(i)
		m.size--
		m.version++

		m.policy.DestroyKey(n.key)
		m.policy.DestroyValue(n.value)

		if m.size < m.minThreshold && len(m.buckets) > m.conf.InitSize {
			m.resize(len(m.buckets) >> 1)
		}
		return true
	}
	return false
}

// Clear destroys all pairs.
// The current number of buckets is retained.
func (m *Map[K, V]) Clear() {
	for b := range m.buckets {
		for i := m.buckets[b]; i != nilNode; i = m.nodes[i].next {
			m.policy.DestroyKey(m.nodes[i].key)
			m.policy.DestroyValue(m.nodes[i].value)
		}
		m.buckets[b] = nilNode
	}
	for i := range m.nodes {
		m.nodes[i] = node[K, V]{}
	}
	m.nodes = m.nodes[:0]
	m.free = nilNode
	m.size = 0
	m.occupied = bit.New()
	m.version++
}

// Len returns the number of stored key-value pairs.
func (m *Map[K, V]) Len() int { return m.size }

// Buckets returns the current number of buckets.
func (m *Map[K, V]) Buckets() int { return len(m.buckets) }

// Visit calls fn for every stored key-value pair.
// Returns immediately if fn returns true.
// Panics with container.ErrMutatedDuringIteration if fn mutates the map.
func (m *Map[K, V]) Visit(fn func(key K, value V) (stop bool)) {
	v := m.version
	for b := m.occupied.Next(-1); b > -1; b = m.occupied.Next(b) {
		for i := m.buckets[b]; i != nilNode; i = m.nodes[i].next {
			if fn(m.nodes[i].key, m.nodes[i].value) {
				return
			}
			if m.version != v {
				panic(container.ErrMutatedDuringIteration)
			}
		}
	}
}

// Iterator returns an iterator positioned before the first pair.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		m:       m,
		bucket:  -1,
		node:    nilNode,
		version: m.version,
	}
}

// Iterator iterates over a Map in bucket order.
type Iterator[K, V any] struct {
	m       *Map[K, V]
	bucket  int
	node    int
	version uint64
}

var _ container.Iterator[string, int] = (*Iterator[string, int])(nil)

// Next returns the next pair. On chain exhaustion it scans forward
// to the next non-empty bucket. ok is false once the bucket index
// reaches the number of buckets.
// Panics with container.ErrMutatedDuringIteration if the map
// was mutated since the iterator was created.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	m := it.m
	if m.version != it.version {
		panic(container.ErrMutatedDuringIteration)
	}
	for it.node == nilNode {
		if it.bucket >= len(m.buckets) {
			return key, value, false
		}
		if it.bucket = m.occupied.Next(it.bucket); it.bucket < 0 {
			it.bucket = len(m.buckets)
			return key, value, false
		}
		it.node = m.buckets[it.bucket]
	}
	n := &m.nodes[it.node]
	it.node = n.next
	return n.key, n.value, true
}
