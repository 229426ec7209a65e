// package set provides a set built on top of hybrid.Map
// where every element is a key and the value slot is unused.
package set

import (
	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/container/hybrid"
	"golang.org/x/exp/constraints"
)

// Set is a generic set implementation.
// The set owns its elements and destroys each exactly once
// through the DestroyKey function of its policy.
type Set[T any] struct {
	m      *hybrid.Map[T, struct{}]
	policy container.Policy[T, struct{}]
	opts   *hybrid.Options
}

// Policy returns a set policy. destroy may be nil.
func Policy[T any](
	hash func(T) uint64,
	equal func(a, b T) bool,
	destroy func(T),
) container.Funcs[T, struct{}] {
	return container.Funcs[T, struct{}]{
		HashFn:       hash,
		EqualFn:      equal,
		DestroyKeyFn: destroy,
	}
}

// New creates a new instance of Set.
// Default options are used if opts is nil.
func New[T any](
	policy container.Policy[T, struct{}],
	opts *hybrid.Options,
	elements ...T,
) *Set[T] {
	s := &Set[T]{
		m:      hybrid.New(policy, opts),
		policy: policy,
	}
	if opts != nil {
		o := *opts
		s.opts = &o
	}
	for _, e := range elements {
		s.Add(e)
	}
	return s
}

// NewStrings creates a set of strings hashed with XXH3.
func NewStrings(opts *hybrid.Options, elements ...string) *Set[string] {
	return New[string](container.BytesPolicy[string, struct{}](), opts, elements...)
}

// NewBytes creates a set of byte slices hashed with XXH3.
// Use CloneBytes as clone function for Union and Join
// when two sets must not share the same slices.
//
// WARNING: the set aliases elements! Make sure an element remains
// immutable while it's in the set.
func NewBytes(opts *hybrid.Options, elements ...[]byte) *Set[[]byte] {
	return New[[]byte](container.BytesPolicy[[]byte, struct{}](), opts, elements...)
}

// NewInts creates a set of integers hashed with XXH3.
func NewInts[T constraints.Integer](opts *hybrid.Options, elements ...T) *Set[T] {
	return New[T](container.IntPolicy[T, struct{}](), opts, elements...)
}

// CloneBytes returns a copy of b.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}

// Add adds e to the set and returns true.
// If an equal element is already in the set, the stored element
// is kept, e is destroyed and false is returned.
func (s *Set[T]) Add(e T) bool {
	if s.m.Has(e) {
		s.policy.DestroyKey(e)
		return false
	}
	s.m.Insert(e, struct{}{})
	return true
}

// Contains returns true if e is in the set.
func (s *Set[T]) Contains(e T) bool { return s.m.Has(e) }

// Remove destroys the stored element equal to e and returns true.
// Returns false if there's no such element.
func (s *Set[T]) Remove(e T) bool { return s.m.Remove(e) }

// Len returns the number of elements.
func (s *Set[T]) Len() int { return s.m.Len() }

// Clear destroys all elements.
func (s *Set[T]) Clear() { s.m.Clear() }

// Destroy destroys all elements and releases the set's storage.
// Any later call on s panics with container.ErrDestroyed.
func (s *Set[T]) Destroy() { s.m.Destroy() }

// Backend returns the active backend of the underlying map.
func (s *Set[T]) Backend() hybrid.Backend { return s.m.Backend() }

// Visit calls fn for every element.
// Returns immediately if fn returns true.
func (s *Set[T]) Visit(fn func(T) (stop bool)) {
	s.m.Visit(func(e T, _ struct{}) bool { return fn(e) })
}

// Iterator returns an iterator over the elements.
func (s *Set[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{it: s.m.Iterator()}
}

// Iterator iterates over the elements of a Set.
type Iterator[T any] struct {
	it *hybrid.Iterator[T, struct{}]
}

// Next returns the next element.
// ok is false once all elements were returned.
func (i *Iterator[T]) Next() (e T, ok bool) {
	e, _, ok = i.it.Next()
	return e, ok
}

// Subset returns true if every element of s is in o.
func (s *Set[T]) Subset(o *Set[T]) bool {
	if s.Len() > o.Len() {
		return false
	}
	subset := true
	s.Visit(func(e T) (stop bool) {
		if !o.Contains(e) {
			subset = false
			return true
		}
		return false
	})
	return subset
}

// Equal returns true if s and o have the same size
// and every element of s is in o.
func (s *Set[T]) Equal(o *Set[T]) bool {
	return s.Len() == o.Len() && s.Subset(o)
}

// Union adds every element of src that's not yet in dst to dst.
// Each added element is passed through clone first if clone isn't nil.
// If clone is nil both sets share ownership of the added elements
// and the caller must make sure they're destroyed only once.
// Union(a, a, clone) is a noop.
func Union[T any](dst, src *Set[T], clone func(T) T) {
	if dst == src {
		return
	}
	src.Visit(func(e T) (stop bool) {
		if dst.Contains(e) {
			return false
		}
		if clone != nil {
			e = clone(e)
		}
		dst.m.Insert(e, struct{}{})
		return false
	})
}

// Join returns a new set holding the elements of both a and b.
// The new set uses the policy and options of a.
// Elements are passed through clone if clone isn't nil.
func Join[T any](a, b *Set[T], clone func(T) T) *Set[T] {
	j := New[T](a.policy, a.opts)
	Union(j, a, clone)
	Union(j, b, clone)
	return j
}
