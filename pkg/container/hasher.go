package container

import (
	"encoding/binary"

	"github.com/pierrec/xxHash/xxHash64"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"
)

// Bytes is satisfied by string and byte slice key types.
type Bytes interface{ ~string | ~[]byte }

// HasherXXH3 hashes string and byte slice keys using XXH3.
// The zero value uses seed 0.
type HasherXXH3[K Bytes] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h HasherXXH3[K]) Hash(k K) uint64 {
	return xxh3.HashSeed([]byte(k), h.Seed)
}

// HasherXXH64 hashes string and byte slice keys using XXH64.
type HasherXXH64[K Bytes] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h HasherXXH64[K]) Hash(k K) uint64 {
	return xxHash64.Checksum([]byte(k), h.Seed)
}

// HasherInt hashes integer keys by their little-endian
// representation using XXH3.
type HasherInt[K constraints.Integer] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h HasherInt[K]) Hash(k K) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return xxh3.HashSeed(b[:], h.Seed)
}

// EqualBytes reports whether a and b hold the same bytes.
func EqualBytes[K Bytes](a, b K) bool { return string(a) == string(b) }

// EqualComparable reports whether a == b.
func EqualComparable[K comparable](a, b K) bool { return a == b }

// BytesPolicy returns a Policy for string or byte slice keys
// hashed with XXH3 and without destructors.
func BytesPolicy[K Bytes, V any]() Funcs[K, V] {
	return Funcs[K, V]{
		HashFn:  HasherXXH3[K]{}.Hash,
		EqualFn: EqualBytes[K],
	}
}

// IntPolicy returns a Policy for integer keys
// hashed with XXH3 and without destructors.
func IntPolicy[K constraints.Integer, V any]() Funcs[K, V] {
	return Funcs[K, V]{
		HashFn:  HasherInt[K]{}.Hash,
		EqualFn: EqualComparable[K],
	}
}
