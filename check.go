// check.go: full consistency check of the slot table and entry store
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import "fmt"

// Check walks both arrays and verifies every structural invariant of the
// table. It returns nil for a consistent map and a FIXMAP_CORRUPTED_TABLE
// error naming the first violated invariant otherwise.
//
// Check is O(capacity) and meant for tests and diagnostics.
func (m *Map[K, V]) Check() error {
	n := len(m.slots)

	if len(m.entries) > n {
		return corrupted("capacity", "len %d exceeds capacity %d", len(m.entries), n)
	}
	if cap(m.entries) != n {
		return corrupted("fixed-storage", "entry store capacity %d, slot table %d", cap(m.entries), n)
	}
	if n == 0 {
		return nil
	}

	seen := make([]bool, len(m.entries))
	occupied := 0
	for p, s := range m.slots {
		if m.isEmpty(s) {
			continue
		}
		pos := uint32(p) // #nosec G115 - bounded by capacity
		occupied++

		if s.hash&^m.layout.hashMask != 0 {
			return corrupted("slot-hash", "slot %d hash %#x outside mask %#x", pos, s.hash, m.layout.hashMask)
		}
		if int(s.index) >= len(m.entries) {
			return corrupted("slot-index", "slot %d references dead entry %d", pos, s.index)
		}
		if seen[s.index] {
			return corrupted("slot-index", "entry %d referenced by more than one slot", s.index)
		}
		seen[s.index] = true

		if e := m.entries[s.index]; e.hash != s.hash {
			return corrupted("slot-hash", "slot %d hash %#x, entry %d hash %#x", pos, s.hash, s.index, e.hash)
		}

		// Robin Hood ordering: the successor is at most one step further from home
		d := m.distance(s.hash, pos)
		next := m.slots[m.next(pos)]
		if !m.isEmpty(next) && m.distance(next.hash, m.next(pos)) > d+1 {
			return corrupted("robin-hood", "slot %d at distance %d followed by distance %d",
				pos, d, m.distance(next.hash, m.next(pos)))
		}

		// No holes between an entry and its ideal slot
		for back := uint32(1); back <= d; back++ {
			if m.isEmpty(m.slots[(pos-back)&m.mask]) {
				return corrupted("no-holes", "empty slot %d inside the run of slot %d", (pos-back)&m.mask, pos)
			}
		}
	}

	if occupied != len(m.entries) {
		return corrupted("slot-index", "%d occupied slots for %d entries", occupied, len(m.entries))
	}

	for i := range m.entries {
		// NaN keys are stored but can never be looked up
		if k := m.entries[i].key; k != k {
			continue
		}
		_, index, ok := m.find(m.entries[i].key)
		if !ok || int(index) != i {
			return corrupted("reachable", "entry %d (%v) not reachable by lookup", i, m.entries[i].key)
		}
	}
	return nil
}

func corrupted(invariant, format string, args ...interface{}) error {
	return NewErrCorruptedTable(invariant, fmt.Sprintf(format, args...))
}
