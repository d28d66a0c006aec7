// model_test.go: randomized comparison against the builtin map
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runModel applies ops random operations to m and to a builtin map and
// requires identical observable behavior after every step.
func runModel[V comparable](t *testing.T, m *Map[uint32, V], rng *randv2.Rand, keySpace uint32, ops int, value func(uint32) V) {
	t.Helper()
	ref := make(map[uint32]V)

	for step := 0; step < ops; step++ {
		k := rng.Uint32N(keySpace)

		switch op := rng.IntN(10); {
		case op < 5:
			v := value(uint32(step)) // #nosec G115 - step is bounded by ops
			prevRef, had := ref[k]
			full := len(ref) == m.Cap()

			prev, replaced, err := m.Insert(k, v)
			if full {
				require.Truef(t, IsCapacityExhausted(err), "step %d: insert into full map returned %v", step, err)
				rk, rv, ok := RejectedEntry[uint32, V](err)
				require.True(t, ok)
				assert.Equal(t, k, rk)
				assert.Equal(t, v, rv)
				break
			}
			require.NoErrorf(t, err, "step %d: Insert(%d)", step, k)
			require.Equalf(t, had, replaced, "step %d: replaced flag for %d", step, k)
			if had {
				require.Equalf(t, prevRef, prev, "step %d: previous value for %d", step, k)
			}
			ref[k] = v

		case op < 8:
			got, found := m.Get(k)
			want, had := ref[k]
			require.Equalf(t, had, found, "step %d: presence of %d", step, k)
			if had {
				require.Equalf(t, want, got, "step %d: value of %d", step, k)
			}

		default:
			got, found := m.Remove(k)
			want, had := ref[k]
			require.Equalf(t, had, found, "step %d: Remove(%d) presence", step, k)
			if had {
				require.Equalf(t, want, got, "step %d: Remove(%d) value", step, k)
			}
			delete(ref, k)
		}

		require.Equalf(t, len(ref), m.Len(), "step %d: length", step)
		if step%1024 == 0 {
			require.NoErrorf(t, m.Check(), "step %d", step)
		}
	}

	require.NoError(t, m.Check())
	for k, want := range ref {
		got, found := m.Get(k)
		require.Truef(t, found, "final: %d missing", k)
		require.Equal(t, want, got)
	}

	seen := 0
	for k, v := range m.All() {
		want, ok := ref[k]
		require.Truef(t, ok, "iteration yielded unknown key %d", k)
		require.Equal(t, want, v)
		seen++
	}
	assert.Equal(t, len(ref), seen)
}

func TestModel_Standard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized model test in short mode")
	}
	rng := randv2.New(randv2.NewPCG(0x5eed, 0xf1c5))
	m := MustNew[uint32, uint64](Config{Capacity: 16384})

	runModel(t, m, rng, 20000, 200000, func(i uint32) uint64 { return uint64(i) * 31 })
}

// A small key space keeps the table near full and exercises long runs,
// repeated rejection and removal from full runs.
func TestModel_NearFull(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(1, 2))
	m := MustNew[uint32, string](Config{Capacity: 64})

	runModel(t, m, rng, 80, 50000, func(i uint32) string { return string(rune('a' + i%26)) })
}

func TestModel_HashAlgorithms(t *testing.T) {
	for _, algo := range []HashAlgorithm{HashFNV1a, HashXXHash, HashXXH3, HashMurmur3} {
		for _, width := range []IndexWidth{IndexWidthStandard, IndexWidthExtended} {
			t.Run(algo.String()+"/"+width.String(), func(t *testing.T) {
				rng := randv2.New(randv2.NewPCG(uint64(algo), uint64(width))) // #nosec G115 - small enums
				m := MustNew[uint32, uint32](Config{
					Capacity:      1024,
					HashAlgorithm: algo,
					IndexWidth:    width,
				})
				runModel(t, m, rng, 1500, 20000, func(i uint32) uint32 { return i })
			})
		}
	}
}

// Every key hashes to the same slot: one run covers the whole table.
func TestModel_DegenerateHash(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(7, 7))
	m, err := NewWithHasher[uint32, uint32](Config{Capacity: 32}, func(uint32) uint32 { return 5 })
	require.NoError(t, err)

	runModel(t, m, rng, 40, 5000, func(i uint32) uint32 { return i })
}

// Pairs of distinct keys sharing a truncated hash must never be confused.
func TestModel_TruncatedHashCollisions(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(11, 13))
	m, err := NewWithHasher[uint32, uint32](Config{Capacity: 128}, func(k uint32) uint32 { return k / 2 })
	require.NoError(t, err)

	runModel(t, m, rng, 200, 20000, func(i uint32) uint32 { return i })
}
