// iter.go: range-over-func iteration in entry store order
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import "iter"

// All returns an iterator over key/value pairs in entry store order: insertion
// order until the first Remove, which moves the last entry into the freed
// position. Inserting new keys or removing keys while iterating is undefined;
// updating the value of an existing key is allowed.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.entries {
			e := &m.entries[i]
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// AllPtr is like All but yields a pointer to each value for in-place updates.
func (m *Map[K, V]) AllPtr() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range m.entries {
			e := &m.entries[i]
			if !yield(e.key, &e.value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in entry store order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range m.entries {
			if !yield(m.entries[i].key) {
				return
			}
		}
	}
}

// Values returns an iterator over the values in entry store order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i := range m.entries {
			if !yield(m.entries[i].value) {
				return
			}
		}
	}
}

// ValuesPtr returns an iterator over pointers to the values.
func (m *Map[K, V]) ValuesPtr() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for i := range m.entries {
			if !yield(&m.entries[i].value) {
				return
			}
		}
	}
}
