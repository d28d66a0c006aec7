// slot.go: slot table and entry store records
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

// slot is one position of the slot table. It is empty iff hash equals the
// layout sentinel; otherwise index refers to a live entry whose stored hash
// equals hash.
type slot struct {
	hash  uint32
	index uint32
}

// entry is one record of the dense entry store.
type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint32
}

// ideal returns the slot a hash prefers when there are no collisions.
func (m *Map[K, V]) ideal(hash uint32) uint32 {
	return hash & m.mask
}

// distance returns how far pos is from the ideal slot of hash, with wraparound.
func (m *Map[K, V]) distance(hash, pos uint32) uint32 {
	return (pos - m.ideal(hash)) & m.mask
}

func (m *Map[K, V]) next(pos uint32) uint32 {
	return (pos + 1) & m.mask
}

func (m *Map[K, V]) isEmpty(s slot) bool {
	return s.hash == m.layout.empty
}

func (m *Map[K, V]) clearSlot(pos uint32) {
	m.slots[pos] = slot{hash: m.layout.empty}
}
