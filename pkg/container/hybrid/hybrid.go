// package hybrid provides the map facade used by all callers.
// A Map starts out backed by a linear.Linear and is promoted once,
// transparently, to a hamap.Map when the small backend is full.
// It's never demoted.
package hybrid

import (
	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/container/hamap"
	"github.com/graph-guard/ggmap/pkg/container/linear"
	"github.com/graph-guard/ggmap/pkg/math"
	"golang.org/x/exp/constraints"
)

// Backend identifies the active representation of a Map.
type Backend int8

const (
	BackendDestroyed Backend = iota
	BackendLinear
	BackendHash
)

func (b Backend) String() string {
	switch b {
	case BackendLinear:
		return "linear"
	case BackendHash:
		return "hash"
	}
	return "destroyed"
}

// Options configures a Map.
type Options struct {
	// SmallCapacity is the number of pairs held by the linear backend
	// before promotion. Defaults to linear.DefaultCapacity.
	SmallCapacity int

	// Hash configures the hash backend after promotion.
	// Its InitSize is raised so that promotion never triggers a resize.
	Hash hamap.Config
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		SmallCapacity: linear.DefaultCapacity,
		Hash:          hamap.DefaultConfig(),
	}
}

// Map is an associative container owning exactly one backend at a time.
type Map[K, V any] struct {
	policy  container.Policy[K, V]
	opts    Options
	backend Backend
	small   *linear.Linear[K, V]
	hash    *hamap.Map[K, V]
}

var _ container.Mapper[string, int] = (*Map[string, int])(nil)

// New creates a new map instance.
// Default options are used if opts is nil.
func New[K, V any](policy container.Policy[K, V], opts *Options) *Map[K, V] {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
		if o.SmallCapacity < 1 {
			o.SmallCapacity = linear.DefaultCapacity
		}
	}
	return &Map[K, V]{
		policy:  policy,
		opts:    o,
		backend: BackendLinear,
		small:   linear.New(o.SmallCapacity, policy),
	}
}

// NewStrings creates a map with string keys hashed with XXH3.
func NewStrings[V any](opts *Options) *Map[string, V] {
	return New[string, V](container.BytesPolicy[string, V](), opts)
}

// NewBytes creates a map with byte slice keys hashed with XXH3.
//
// WARNING: the map aliases keys! Make sure a key remains immutable
// while it's in the map.
func NewBytes[V any](opts *Options) *Map[[]byte, V] {
	return New[[]byte, V](container.BytesPolicy[[]byte, V](), opts)
}

// NewInts creates a map with integer keys hashed with XXH3.
func NewInts[K constraints.Integer, V any](opts *Options) *Map[K, V] {
	return New[K, V](container.IntPolicy[K, V](), opts)
}

// promote moves all pairs from the linear backend into a new hash
// backend. Ownership is transferred, no destructors are called.
func (m *Map[K, V]) promote() {
	conf := m.opts.Hash
	if conf.InitSize < 1 {
		conf.InitSize = hamap.DefaultConfig().InitSize
	}
	// Make room for the migrated pairs plus the one being inserted.
	conf.InitSize = math.Max(conf.InitSize, math.NextPow2(m.small.Cap()+1)<<1)
	h := hamap.New(conf, m.policy)

	m.small.Drain(func(key K, value V) { h.Insert(key, value) })
	m.small, m.hash, m.backend = nil, h, BackendHash
}

// Insert associates key with value.
// If an equal key exists its key and value are destroyed and replaced.
// Never returns container.Full.
func (m *Map[K, V]) Insert(key K, value V) container.InsertResult {
	switch m.backend {
	case BackendLinear:
		if r := m.small.Insert(key, value); r != container.Full {
			return r
		}
		m.promote()
		return m.hash.Insert(key, value)
	case BackendHash:
		return m.hash.Insert(key, value)
	}
	panic(container.ErrDestroyed)
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	switch m.backend {
	case BackendLinear:
		return m.small.Get(key)
	case BackendHash:
		return m.hash.Get(key)
	}
	panic(container.ErrDestroyed)
}

// GetFn calls fn providing a pointer to the value and returns true
// if key exists, otherwise returns false without calling fn.
// The pointer is valid until the next mutating call.
func (m *Map[K, V]) GetFn(key K, fn func(*V)) (ok bool) {
	switch m.backend {
	case BackendLinear:
		return m.small.GetFn(key, fn)
	case BackendHash:
		return m.hash.GetFn(key, fn)
	}
	panic(container.ErrDestroyed)
}

// Has returns true if key exists.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove destroys the pair with the given key and returns true.
// Returns false if the key doesn't exist.
func (m *Map[K, V]) Remove(key K) bool {
	switch m.backend {
	case BackendLinear:
		return m.small.Remove(key)
	case BackendHash:
		return m.hash.Remove(key)
	}
	panic(container.ErrDestroyed)
}

// Clear destroys all pairs. The active backend is retained.
func (m *Map[K, V]) Clear() {
	switch m.backend {
	case BackendLinear:
		m.small.Clear()
		return
	case BackendHash:
		m.hash.Clear()
		return
	}
	panic(container.ErrDestroyed)
}

// Destroy destroys all pairs and releases the backend.
// Any later call on m panics with container.ErrDestroyed.
func (m *Map[K, V]) Destroy() {
	m.Clear()
	m.small, m.hash, m.backend = nil, nil, BackendDestroyed
}

// Len returns the number of stored key-value pairs.
func (m *Map[K, V]) Len() int {
	switch m.backend {
	case BackendLinear:
		return m.small.Len()
	case BackendHash:
		return m.hash.Len()
	}
	panic(container.ErrDestroyed)
}

// Backend returns the active backend.
func (m *Map[K, V]) Backend() Backend { return m.backend }

// Stats describes the current representation of a Map.
type Stats struct {
	Backend Backend
	Len     int

	// Capacity is the capacity of the linear backend
	// or the number of buckets of the hash backend.
	Capacity int
}

// Stats returns the current representation statistics.
func (m *Map[K, V]) Stats() Stats {
	switch m.backend {
	case BackendLinear:
		return Stats{Backend: m.backend, Len: m.small.Len(), Capacity: m.small.Cap()}
	case BackendHash:
		return Stats{Backend: m.backend, Len: m.hash.Len(), Capacity: m.hash.Buckets()}
	}
	return Stats{}
}

// Visit calls fn for every stored key-value pair.
// Returns immediately if fn returns true.
// Panics with container.ErrMutatedDuringIteration if fn mutates the map.
func (m *Map[K, V]) Visit(fn func(key K, value V) (stop bool)) {
	switch m.backend {
	case BackendLinear:
		m.small.Visit(fn)
		return
	case BackendHash:
		m.hash.Visit(fn)
		return
	}
	panic(container.ErrDestroyed)
}

// Iterator returns an iterator over the active backend.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	switch m.backend {
	case BackendLinear:
		return &Iterator[K, V]{small: m.small.Iterator()}
	case BackendHash:
		return &Iterator[K, V]{hash: m.hash.Iterator()}
	}
	panic(container.ErrDestroyed)
}

// Iterator iterates over either backend of a Map.
// Pairs are yielded in insertion order while the map is linear
// and in bucket order after promotion.
type Iterator[K, V any] struct {
	small *linear.Iterator[K, V]
	hash  *hamap.Iterator[K, V]
}

var _ container.Iterator[string, int] = (*Iterator[string, int])(nil)

// Next returns the next pair.
// ok is false once all pairs were returned.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	if it.hash != nil {
		return it.hash.Next()
	}
	return it.small.Next()
}

// Equal returns true if m and o contain equal keys each mapping to an
// equal value. Values are compared using the policy of m if it
// implements container.ValueEqualer, otherwise using cmp.Equal.
func (m *Map[K, V]) Equal(o *Map[K, V]) bool {
	if m == o {
		return true
	}
	if m.Len() != o.Len() {
		return false
	}
	equal := true
	m.Visit(func(key K, value V) (stop bool) {
		ov, ok := o.Get(key)
		if !ok || !container.EqualValues(m.policy, value, ov) {
			equal = false
			return true
		}
		return false
	})
	return equal
}
