// convenience.go: cloning, formatting, bulk insertion
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	"fmt"
	"iter"
	"strings"
)

// Clone returns an independent copy of m with the same capacity, hasher,
// settings and slot layout. Counters start from zero. Values are copied
// shallowly.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		slots:        make([]slot, len(m.slots)),
		entries:      make([]entry[K, V], len(m.entries), cap(m.entries)),
		mask:         m.mask,
		layout:       m.layout,
		digest:       m.digest,
		algo:         m.algo,
		logger:       m.logger,
		clock:        m.clock,
		metrics:      m.metrics,
		instrumented: m.instrumented,
		warnRatio:    m.warnRatio,
		warnAt:       m.warnAt,
		overloaded:   m.overloaded,
	}
	copy(c.slots, m.slots)
	copy(c.entries, m.entries)

	// The default hasher closes over a scratch buffer; give the clone its own
	if m.digest != nil && m.ownsDigest {
		c.digest = defaultHasher[K](m.algo)
		c.ownsDigest = true
	}
	return c
}

// String formats the map as fixmap.Map[k1:v1 k2:v2] in entry store order.
func (m *Map[K, V]) String() string {
	var b strings.Builder
	b.WriteString("fixmap.Map[")
	for i := range m.entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v:%v", m.entries[i].key, m.entries[i].value)
	}
	b.WriteByte(']')
	return b.String()
}

// Extend inserts every pair of seq in order. It stops at the first
// FIXMAP_CAPACITY_EXHAUSTED error; pairs inserted before it stay.
func (m *Map[K, V]) Extend(seq iter.Seq2[K, V]) error {
	var err error
	seq(func(k K, v V) bool {
		_, _, err = m.Insert(k, v)
		return err == nil
	})
	return err
}

// Merge inserts every entry of other into m. Keys present in both take the
// value from other.
func (m *Map[K, V]) Merge(other *Map[K, V]) error {
	if other == m {
		return nil
	}
	return m.Extend(other.All())
}

// FromSeq builds a map configured by cfg and fills it from seq.
// If seq holds more distinct keys than cfg.Capacity, the map built so far is
// returned together with the FIXMAP_CAPACITY_EXHAUSTED error.
func FromSeq[K comparable, V any](cfg Config, seq iter.Seq2[K, V]) (*Map[K, V], error) {
	m, err := New[K, V](cfg)
	if err != nil {
		return nil, err
	}
	return m, m.Extend(seq)
}

// MustGet returns the value stored under key and panics with a
// FIXMAP_KEY_NOT_FOUND error if there is none.
func (m *Map[K, V]) MustGet(key K) V {
	value, ok := m.Get(key)
	if !ok {
		panic(NewErrKeyNotFound(key))
	}
	return value
}
