// package container defines the contracts shared by all associative
// containers of this module: the ownership policy every map is
// constructed with, the insert outcome reported by the backends
// and the panics raised on contract violations.
//
// Containers are single-threaded. Callers that need to share a container
// between goroutines must guard every call with their own mutex.
package container

import (
	"errors"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

var (
	// ErrMutatedDuringIteration is the panic value raised by an iterator
	// or Visit when the container was mutated after iteration started.
	ErrMutatedDuringIteration = errors.New("container: mutated during iteration")

	// ErrDestroyed is the panic value raised when a destroyed
	// container is used.
	ErrDestroyed = errors.New("container: use after destroy")

	// ErrNoHash is the panic value raised when a hash is required
	// but the policy provides no hash function.
	ErrNoHash = errors.New("container: policy has no hash function")
)

// InsertResult is the outcome of an insert into a backend.
type InsertResult int8

const (
	// Inserted means a new key was added.
	Inserted InsertResult = iota

	// Replaced means an equal key was found and its pair was replaced.
	Replaced

	// Full means the key wasn't found and there's no room for it.
	// Only fixed-capacity backends report Full.
	Full
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	case Full:
		return "full"
	}
	return "unknown"
}

// Hasher hashes keys. The hash must depend on the logical value
// of the key only, never on its storage address.
type Hasher[K any] interface{ Hash(K) uint64 }

// Policy defines key identity and payload ownership of a container.
// The container owns every key and value inserted into it and
// calls DestroyKey and DestroyValue exactly once per payload when
// it is replaced, removed, cleared or destroyed.
type Policy[K, V any] interface {
	Hasher[K]
	Equal(a, b K) bool
	DestroyKey(K)
	DestroyValue(V)
}

// ValueEqualer is optionally implemented by a Policy to define
// value equality used when comparing maps.
type ValueEqualer[V any] interface {
	EqualValue(a, b V) bool
}

// Funcs is a Policy made of plain functions.
// Nil destroy functions are no-ops.
// A nil HashFn makes Hash panic with ErrNoHash.
// A nil EqualValueFn falls back to cmp.Equal
// including unexported struct fields.
type Funcs[K, V any] struct {
	HashFn         func(K) uint64
	EqualFn        func(a, b K) bool
	DestroyKeyFn   func(K)
	DestroyValueFn func(V)
	EqualValueFn   func(a, b V) bool
}

var (
	_ Policy[string, int]  = Funcs[string, int]{}
	_ ValueEqualer[string] = Funcs[int, string]{}
)

func (f Funcs[K, V]) Hash(k K) uint64 {
	if f.HashFn == nil {
		panic(ErrNoHash)
	}
	return f.HashFn(k)
}

func (f Funcs[K, V]) Equal(a, b K) bool { return f.EqualFn(a, b) }

func (f Funcs[K, V]) DestroyKey(k K) {
	if f.DestroyKeyFn != nil {
		f.DestroyKeyFn(k)
	}
}

func (f Funcs[K, V]) DestroyValue(v V) {
	if f.DestroyValueFn != nil {
		f.DestroyValueFn(v)
	}
}

func (f Funcs[K, V]) EqualValue(a, b V) bool {
	if f.EqualValueFn != nil {
		return f.EqualValueFn(a, b)
	}
	return cmp.Equal(a, b, exportAll)
}

// exportAll lets cmp.Equal compare unexported struct fields.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// EqualValues compares a and b using p if it implements ValueEqualer,
// otherwise using cmp.Equal.
func EqualValues[K, V any](p Policy[K, V], a, b V) bool {
	if e, ok := p.(ValueEqualer[V]); ok {
		return e.EqualValue(a, b)
	}
	return cmp.Equal(a, b, exportAll)
}

// Pair is a key-value pair.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Iterator yields the pairs of a container one at a time.
// ok is false once the container is exhausted.
type Iterator[K, V any] interface {
	Next() (key K, value V, ok bool)
}

// Mapper is implemented by all map backends.
type Mapper[K, V any] interface {
	Insert(K, V) InsertResult
	Get(K) (v V, ok bool)
	Remove(K) bool
	Clear()
	Len() int
	Visit(func(K, V) (stop bool))
}
