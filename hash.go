// hash.go: deterministic key hashing and hash truncation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashAlgorithm selects the digest used to place keys.
// All algorithms are unseeded, so the same key hashes identically in every process.
type HashAlgorithm int

const (
	// HashFNV1a is 32-bit FNV-1a. Default.
	HashFNV1a HashAlgorithm = iota
	// HashXXHash is 64-bit xxHash folded to 32 bits.
	HashXXHash
	// HashXXH3 is 64-bit XXH3 folded to 32 bits.
	HashXXH3
	// HashMurmur3 is 32-bit Murmur3 with seed 0.
	HashMurmur3
)

// String returns the configuration name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case HashFNV1a:
		return "fnv1a"
	case HashXXHash:
		return "xxhash"
	case HashXXH3:
		return "xxh3"
	case HashMurmur3:
		return "murmur3"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", int(a))
	}
}

// ParseHashAlgorithm maps a configuration name back to a HashAlgorithm.
func ParseHashAlgorithm(name string) (HashAlgorithm, bool) {
	switch name {
	case "fnv1a", "fnv":
		return HashFNV1a, true
	case "xxhash":
		return HashXXHash, true
	case "xxh3":
		return HashXXH3, true
	case "murmur3":
		return HashMurmur3, true
	}
	return 0, false
}

// IndexWidth selects how many hash bits a slot keeps, and therefore the
// largest number of entries a map can hold. It does not change the algorithm.
type IndexWidth int

const (
	// IndexWidthStandard keeps 15 hash bits; up to MaxEntriesStandard entries.
	IndexWidthStandard IndexWidth = iota
	// IndexWidthExtended keeps 31 hash bits; up to MaxEntriesExtended entries.
	IndexWidthExtended
)

// String returns the configuration name of the width.
func (w IndexWidth) String() string {
	switch w {
	case IndexWidthStandard:
		return "standard"
	case IndexWidthExtended:
		return "extended"
	default:
		return fmt.Sprintf("IndexWidth(%d)", int(w))
	}
}

// ParseIndexWidth maps a configuration name back to an IndexWidth.
func ParseIndexWidth(name string) (IndexWidth, bool) {
	switch name {
	case "standard", "":
		return IndexWidthStandard, true
	case "extended", "hugesize":
		return IndexWidthExtended, true
	}
	return 0, false
}

// layout holds the constants derived from an IndexWidth.
type layout struct {
	hashMask   uint32 // bits kept from the digest
	empty      uint32 // sentinel, never produced by truncate
	maxEntries int
}

func layoutFor(w IndexWidth) layout {
	if w == IndexWidthExtended {
		return layout{hashMask: 0x7fffffff, empty: 0x80000000, maxEntries: MaxEntriesExtended}
	}
	return layout{hashMask: 0x7fff, empty: 0x8000, maxEntries: MaxEntriesStandard}
}

// truncate drops the sentinel bit and everything above it.
func (l layout) truncate(digest uint32) uint32 {
	return digest & l.hashMask
}

// digestFunc hashes an encoded key to 32 bits.
type digestFunc func(b []byte) uint32

func digestFor(a HashAlgorithm) digestFunc {
	switch a {
	case HashXXHash:
		return func(b []byte) uint32 { return fold64(xxhash.Sum64(b)) }
	case HashXXH3:
		return func(b []byte) uint32 { return fold64(xxh3.Hash(b)) }
	case HashMurmur3:
		return murmur3.Sum32
	default:
		return fnv1a32
	}
}

// fold64 mixes the high half of a 64-bit digest into the low half.
func fold64(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32) // #nosec G115 - intentional truncation
}

// fnv1a32 computes a 32-bit FNV-1a hash.
func fnv1a32(b []byte) uint32 {
	const (
		fnv32Offset = 2166136261
		fnv32Prime  = 16777619
	)

	hash := uint32(fnv32Offset)
	for _, c := range b {
		hash ^= uint32(c)
		hash *= fnv32Prime
	}
	return hash
}

// stringBytes views a string as bytes without copying.
func stringBytes(s string) []byte {
	// #nosec G103 - read-only view, the slice never outlives the call
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// encodeKey renders key as bytes for hashing. Fixed-size kinds are written
// into buf; strings are viewed in place. Equal keys always encode equally.
func encodeKey[K comparable](buf *[16]byte, key K) []byte {
	switch v := any(key).(type) {
	case string:
		return stringBytes(v)
	case int:
		return putUint64(buf, uint64(v)) // #nosec G115 - bit pattern only
	case int8:
		return putUint64(buf, uint64(v)) // #nosec G115 - bit pattern only
	case int16:
		return putUint64(buf, uint64(v)) // #nosec G115 - bit pattern only
	case int32:
		return putUint64(buf, uint64(v)) // #nosec G115 - bit pattern only
	case int64:
		return putUint64(buf, uint64(v)) // #nosec G115 - bit pattern only
	case uint:
		return putUint64(buf, uint64(v))
	case uint8:
		return putUint64(buf, uint64(v))
	case uint16:
		return putUint64(buf, uint64(v))
	case uint32:
		return putUint64(buf, uint64(v))
	case uint64:
		return putUint64(buf, v)
	case uintptr:
		return putUint64(buf, uint64(v))
	case bool:
		if v {
			return putUint64(buf, 1)
		}
		return putUint64(buf, 0)
	case float32:
		return putFloat(buf, float64(v))
	case float64:
		return putFloat(buf, v)
	case complex64:
		return putComplex(buf, complex128(v))
	case complex128:
		return putComplex(buf, v)
	}
	return encodeByKind(buf, key)
}

// encoder renders a key of one fixed type as bytes for hashing.
type encoder[K comparable] func(buf *[16]byte, key K) []byte

// encoderFor picks the encoding of K once. Types whose underlying type is
// basic are read in place through their underlying representation; interface
// and composite types go through encodeKey.
func encoderFor[K comparable]() encoder[K] {
	// #nosec G103 - each case reads K through its own underlying type
	switch reflect.TypeFor[K]().Kind() {
	case reflect.String:
		return func(_ *[16]byte, key K) []byte { return stringBytes(*(*string)(unsafe.Pointer(&key))) }
	case reflect.Int:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*int)(unsafe.Pointer(&key)))) } // #nosec G115 - bit pattern only
	case reflect.Int8:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*int8)(unsafe.Pointer(&key)))) } // #nosec G115 - bit pattern only
	case reflect.Int16:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*int16)(unsafe.Pointer(&key)))) } // #nosec G115 - bit pattern only
	case reflect.Int32:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*int32)(unsafe.Pointer(&key)))) } // #nosec G115 - bit pattern only
	case reflect.Int64:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*int64)(unsafe.Pointer(&key)))) } // #nosec G115 - bit pattern only
	case reflect.Uint:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*uint)(unsafe.Pointer(&key)))) }
	case reflect.Uint8:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*uint8)(unsafe.Pointer(&key)))) }
	case reflect.Uint16:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*uint16)(unsafe.Pointer(&key)))) }
	case reflect.Uint32:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*uint32)(unsafe.Pointer(&key)))) }
	case reflect.Uint64:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, *(*uint64)(unsafe.Pointer(&key))) }
	case reflect.Uintptr:
		return func(buf *[16]byte, key K) []byte { return putUint64(buf, uint64(*(*uintptr)(unsafe.Pointer(&key)))) }
	case reflect.Bool:
		return func(buf *[16]byte, key K) []byte {
			if *(*bool)(unsafe.Pointer(&key)) {
				return putUint64(buf, 1)
			}
			return putUint64(buf, 0)
		}
	case reflect.Float32:
		return func(buf *[16]byte, key K) []byte { return putFloat(buf, float64(*(*float32)(unsafe.Pointer(&key)))) }
	case reflect.Float64:
		return func(buf *[16]byte, key K) []byte { return putFloat(buf, *(*float64)(unsafe.Pointer(&key))) }
	case reflect.Complex64:
		return func(buf *[16]byte, key K) []byte {
			return putComplex(buf, complex128(*(*complex64)(unsafe.Pointer(&key))))
		}
	case reflect.Complex128:
		return func(buf *[16]byte, key K) []byte { return putComplex(buf, *(*complex128)(unsafe.Pointer(&key))) }
	}
	return encodeKey[K]
}

// encodeByKind handles named types whose underlying kind is a basic type,
// then falls back to a field-by-field encoding, which allocates.
func encodeByKind[K comparable](buf *[16]byte, key K) []byte {
	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.String:
		return stringBytes(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return putUint64(buf, uint64(rv.Int())) // #nosec G115 - bit pattern only
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return putUint64(buf, rv.Uint())
	case reflect.Bool:
		if rv.Bool() {
			return putUint64(buf, 1)
		}
		return putUint64(buf, 0)
	case reflect.Float32, reflect.Float64:
		return putFloat(buf, rv.Float())
	case reflect.Complex64, reflect.Complex128:
		return putComplex(buf, rv.Complex())
	}
	return appendValue(make([]byte, 0, 64), rv)
}

// appendValue encodes composite keys so that values comparing equal with ==
// produce identical bytes. Pointers, channels and maps encode their address.
func appendValue(dst []byte, rv reflect.Value) []byte {
	var scratch [16]byte
	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		dst = append(dst, putUint64(&scratch, uint64(len(s)))...)
		return append(dst, s...)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(dst, putUint64(&scratch, uint64(rv.Int()))...) // #nosec G115 - bit pattern only
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(dst, putUint64(&scratch, rv.Uint())...)
	case reflect.Bool:
		if rv.Bool() {
			return append(dst, 1)
		}
		return append(dst, 0)
	case reflect.Float32, reflect.Float64:
		return append(dst, putFloat(&scratch, rv.Float())...)
	case reflect.Complex64, reflect.Complex128:
		return append(dst, putComplex(&scratch, rv.Complex())...)
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			dst = appendValue(dst, rv.Index(i))
		}
		return dst
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			dst = appendValue(dst, rv.Field(i))
		}
		return dst
	case reflect.Interface:
		if rv.IsNil() {
			return append(dst, 0)
		}
		elem := rv.Elem()
		dst = append(dst, 1)
		dst = append(dst, elem.Type().String()...)
		return appendValue(dst, elem)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Map, reflect.Func:
		return append(dst, putUint64(&scratch, uint64(rv.Pointer()))...)
	}
	return append(dst, fmt.Sprintf("%#v", rv)...)
}

func putUint64(buf *[16]byte, v uint64) []byte {
	binary.LittleEndian.PutUint64(buf[:8], v)
	return buf[:8]
}

// putFloat folds -0 into +0 so that keys comparing equal hash equally.
func putFloat(buf *[16]byte, f float64) []byte {
	if f == 0 {
		f = 0
	}
	return putUint64(buf, math.Float64bits(f))
}

func putComplex(buf *[16]byte, c complex128) []byte {
	re, im := real(c), imag(c)
	if re == 0 {
		re = 0
	}
	if im == 0 {
		im = 0
	}
	binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(re))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(im))
	return buf[:16]
}
