// map.go: core Robin Hood engine over a fixed slot table and entry store
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import "math"

// Map is a fixed capacity hash map using Robin Hood hashing with
// backward-shift deletion. Both internal arrays are allocated once in New and
// never grow, shrink or move.
//
// A Map is not safe for concurrent use. The zero Map has capacity 0: lookups
// find nothing and every Insert fails with FIXMAP_CAPACITY_EXHAUSTED.
type Map[K comparable, V any] struct {
	// Slot table and entry store, equal length, fixed at construction
	slots   []slot
	entries []entry[K, V]
	mask    uint32
	layout  layout
	digest  func(K) uint32
	algo    HashAlgorithm

	// ownsDigest is set when digest is the built-in hasher
	ownsDigest bool

	logger       Logger
	clock        TimeProvider
	metrics      MetricsCollector
	instrumented bool // false when metrics is the no-op collector

	warnRatio  float64
	warnAt     int // entry count at which the load warning fires
	overloaded bool

	counters counters
}

type counters struct {
	inserts  uint64
	updates  uint64
	rejected uint64
	removes  uint64
	hits     uint64
	misses   uint64
}

// New creates an empty map whose capacity is fixed by cfg.Capacity.
//
// Returns FIXMAP_INVALID_CAPACITY if the capacity is not a power of two or
// is larger than the entry limit of cfg.IndexWidth.
func New[K comparable, V any](cfg Config) (*Map[K, V], error) {
	return newMap[K, V](cfg, nil)
}

// NewWithHasher is like New but places keys with a caller supplied hash
// function instead of cfg.HashAlgorithm. The function must be deterministic
// and consistent with ==.
func NewWithHasher[K comparable, V any](cfg Config, hasher func(K) uint32) (*Map[K, V], error) {
	if hasher == nil {
		return nil, NewErrInvalidConfig("hasher", nil)
	}
	return newMap[K, V](cfg, hasher)
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K comparable, V any](cfg Config) *Map[K, V] {
	m, err := New[K, V](cfg)
	if err != nil {
		panic(err)
	}
	return m
}

func newMap[K comparable, V any](cfg Config, hasher func(K) uint32) (*Map[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	owns := hasher == nil
	if owns {
		hasher = defaultHasher[K](cfg.HashAlgorithm)
	}

	_, noop := cfg.MetricsCollector.(NoOpMetricsCollector)

	m := &Map[K, V]{
		slots:        make([]slot, cfg.Capacity),
		entries:      make([]entry[K, V], 0, cfg.Capacity),
		mask:         uint32(cfg.Capacity - 1), // #nosec G115 - capacity is validated and bounded
		layout:       layoutFor(cfg.IndexWidth),
		digest:       hasher,
		ownsDigest:   owns,
		algo:         cfg.HashAlgorithm,
		logger:       cfg.Logger,
		clock:        cfg.TimeProvider,
		metrics:      cfg.MetricsCollector,
		instrumented: !noop,
	}
	for i := range m.slots {
		m.slots[i] = slot{hash: m.layout.empty}
	}
	m.setWarning(cfg.LoadFactorWarning)

	m.logger.Debug("fixmap: map created",
		"capacity", cfg.Capacity,
		"index_width", cfg.IndexWidth.String(),
		"hash", cfg.HashAlgorithm.String())

	return m, nil
}

// defaultHasher encodes keys into a scratch buffer owned by the closure.
func defaultHasher[K comparable](algo HashAlgorithm) func(K) uint32 {
	digest := digestFor(algo)
	encode := encoderFor[K]()
	buf := new([16]byte)
	return func(key K) uint32 {
		return digest(encode(buf, key))
	}
}

// hashOf returns the truncated hash of key. Never equals the empty sentinel.
func (m *Map[K, V]) hashOf(key K) uint32 {
	return m.layout.truncate(m.digest(key))
}

// Cap returns the fixed number of entries the map can hold.
func (m *Map[K, V]) Cap() int {
	return len(m.slots)
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return len(m.entries) == 0
}

// IsFull reports whether the next Insert of a new key would be rejected.
func (m *Map[K, V]) IsFull() bool {
	return len(m.entries) == len(m.slots)
}

// LoadFactor returns Len / Cap, or 0 for the zero map.
func (m *Map[K, V]) LoadFactor() float64 {
	if len(m.slots) == 0 {
		return 0
	}
	return float64(len(m.entries)) / float64(len(m.slots))
}

// Insert stores value under key.
//
// If key is already present its value is replaced in place (the entry keeps
// its position in iteration order) and the previous value is returned with
// replaced == true. Otherwise the pair is appended and replaced is false.
//
// If the map is full, Insert changes nothing and returns a
// FIXMAP_CAPACITY_EXHAUSTED error that carries key and value; see
// RejectedEntry. Note that a full map rejects even a key it already
// holds.
func (m *Map[K, V]) Insert(key K, value V) (previous V, replaced bool, err error) {
	if !m.instrumented {
		return m.insert(key, value)
	}
	start := m.clock.Now()
	previous, replaced, err = m.insert(key, value)
	if err == nil {
		m.metrics.RecordInsert(m.clock.Now()-start, replaced)
	}
	return previous, replaced, err
}

func (m *Map[K, V]) insert(key K, value V) (previous V, replaced bool, err error) {
	if len(m.entries) == len(m.slots) {
		m.reject()
		return previous, false, NewErrCapacityExhausted(len(m.slots), key, value)
	}

	hash := m.hashOf(key)
	pos := m.ideal(hash)
	var dist uint32

	for {
		s := m.slots[pos]

		// Free slot: claim it
		if m.isEmpty(s) {
			m.slots[pos] = slot{hash: hash, index: uint32(len(m.entries))} // #nosec G115 - bounded by capacity
			m.push(key, value, hash)
			return previous, false, nil
		}
		if debugChecks && int(s.index) >= len(m.entries) {
			invariantViolated("slot-index", "slot %d references dead entry %d", pos, s.index)
		}

		// Occupant is closer to home than we are: take its slot and shift
		// the rest of the run forward
		if m.distance(s.hash, pos) < dist {
			m.displace(pos, slot{hash: hash, index: uint32(len(m.entries))}) // #nosec G115 - bounded by capacity
			m.push(key, value, hash)
			return previous, false, nil
		}

		// Same key: update in place
		if s.hash == hash && m.entries[s.index].key == key {
			e := &m.entries[s.index]
			previous, e.value = e.value, value
			m.counters.updates++
			return previous, true, nil
		}

		dist++
		pos = m.next(pos)
	}
}

// reject accounts for an insert refused by a full map. The zero Map has no
// logger or collector.
func (m *Map[K, V]) reject() {
	m.counters.rejected++
	if m.metrics != nil {
		m.metrics.RecordRejected()
	}
	if m.logger != nil {
		m.logger.Warn("fixmap: insert rejected, map is full", "capacity", len(m.slots))
	}
}

// displace stores carry at pos and moves every following member of the run
// one slot forward, up to the first empty slot. All of them end one step
// further from home, which keeps the run ordered by probe distance.
func (m *Map[K, V]) displace(pos uint32, carry slot) {
	for {
		if m.isEmpty(m.slots[pos]) {
			m.slots[pos] = carry
			return
		}
		carry, m.slots[pos] = m.slots[pos], carry
		pos = m.next(pos)
	}
}

// push appends a new entry. The caller has already linked a slot to it.
func (m *Map[K, V]) push(key K, value V, hash uint32) {
	before := cap(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value, hash: hash})
	if debugChecks && cap(m.entries) != before {
		invariantViolated("fixed-storage", "entry store reallocated from %d to %d", before, cap(m.entries))
	}

	m.counters.inserts++
	if !m.overloaded && len(m.entries) >= m.warnAt {
		m.overloaded = true
		m.logger.Warn("fixmap: load factor above warning threshold, probing will degrade",
			"len", len(m.entries),
			"capacity", len(m.slots),
			"threshold", m.warnRatio)
	}
}

// find returns the slot position and entry index holding key.
func (m *Map[K, V]) find(key K) (pos, index uint32, ok bool) {
	if len(m.entries) == 0 {
		return 0, 0, false
	}

	hash := m.hashOf(key)
	pos = m.ideal(hash)
	var dist uint32

	for {
		s := m.slots[pos]
		if m.isEmpty(s) {
			return 0, 0, false
		}
		if debugChecks && int(s.index) >= len(m.entries) {
			invariantViolated("slot-index", "slot %d references dead entry %d", pos, s.index)
		}

		// Every key homed at our ideal slot sits before any entry that is
		// closer to its own home than we have walked
		if m.distance(s.hash, pos) < dist {
			return 0, 0, false
		}
		if s.hash == hash && m.entries[s.index].key == key {
			return pos, s.index, true
		}

		dist++
		pos = m.next(pos)
	}
}

// lookup is find plus hit/miss accounting.
func (m *Map[K, V]) lookup(key K) (index uint32, ok bool) {
	var start int64
	if m.instrumented {
		start = m.clock.Now()
	}
	_, index, ok = m.find(key)
	if ok {
		m.counters.hits++
	} else {
		m.counters.misses++
	}
	if m.instrumented {
		m.metrics.RecordGet(m.clock.Now()-start, ok)
	}
	return index, ok
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (value V, found bool) {
	index, ok := m.lookup(key)
	if !ok {
		return value, false
	}
	return m.entries[index].value, true
}

// GetPtr returns a pointer to the value stored under key, or nil.
// The pointer stays valid until the next Insert of a new key, Remove or Clear.
func (m *Map[K, V]) GetPtr(key K) *V {
	index, ok := m.lookup(key)
	if !ok {
		return nil
	}
	return &m.entries[index].value
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.lookup(key)
	return ok
}

// Remove deletes key and returns its value.
func (m *Map[K, V]) Remove(key K) (value V, found bool) {
	_, value, found = m.RemoveEntry(key)
	return value, found
}

// RemoveEntry deletes key and returns the stored key and value.
//
// The last entry of the store moves into the freed position, so iteration
// order of the remaining entries may change.
func (m *Map[K, V]) RemoveEntry(key K) (k K, value V, found bool) {
	var start int64
	if m.instrumented {
		start = m.clock.Now()
	}

	pos, index, ok := m.find(key)
	if ok {
		removed := m.removeAt(pos, index)
		k, value, found = removed.key, removed.value, true
	}

	if m.instrumented {
		m.metrics.RecordRemove(m.clock.Now()-start, found)
	}
	return k, value, found
}

// removeAt clears the slot at pos, swap-removes entry index and closes the
// gap in the slot table.
func (m *Map[K, V]) removeAt(pos, index uint32) entry[K, V] {
	m.clearSlot(pos)

	removed := m.entries[index]
	last := uint32(len(m.entries) - 1) // #nosec G115 - bounded by capacity
	if index != last {
		moved := m.entries[last]
		m.entries[index] = moved
		m.repoint(moved.hash, last, index)
	}
	var zero entry[K, V]
	m.entries[last] = zero
	m.entries = m.entries[:last]

	m.shiftBackward(pos)

	m.counters.removes++
	if m.overloaded && len(m.entries) < m.warnAt {
		m.overloaded = false
		m.logger.Debug("fixmap: load factor back below warning threshold",
			"len", len(m.entries),
			"capacity", len(m.slots))
	}
	return removed
}

// repoint finds the slot that references entry from and makes it reference to.
// The walk starts at the ideal slot of hash and skips empty slots, because the
// slot just cleared by removeAt may sit inside the run.
func (m *Map[K, V]) repoint(hash, from, to uint32) {
	pos := m.ideal(hash)
	for range len(m.slots) {
		s := &m.slots[pos]
		if !m.isEmpty(*s) && s.index == from {
			if debugChecks && s.hash != hash {
				invariantViolated("slot-hash", "slot %d hash %#x, entry hash %#x", pos, s.hash, hash)
			}
			s.index = to
			return
		}
		pos = m.next(pos)
	}
	if debugChecks {
		invariantViolated("slot-index", "no slot references relocated entry %d", from)
	}
}

// shiftBackward pulls the members of the run after gap one slot back until it
// reaches an empty slot or an entry already at its ideal slot.
func (m *Map[K, V]) shiftBackward(gap uint32) {
	for {
		pos := m.next(gap)
		s := m.slots[pos]
		if m.isEmpty(s) || m.distance(s.hash, pos) == 0 {
			return
		}
		m.slots[gap] = s
		m.clearSlot(pos)
		gap = pos
	}
}

// Clear removes all entries. Capacity is unchanged.
func (m *Map[K, V]) Clear() {
	if len(m.slots) == 0 {
		return
	}
	n := len(m.entries)
	clear(m.entries)
	m.entries = m.entries[:0]
	for i := range m.slots {
		m.slots[i] = slot{hash: m.layout.empty}
	}
	m.overloaded = false
	m.logger.Debug("fixmap: map cleared", "dropped", n, "capacity", len(m.slots))
}

// SetLoadFactorWarning changes the fill ratio at which a degradation warning
// is logged. ratio must be in (0, 1].
func (m *Map[K, V]) SetLoadFactorWarning(ratio float64) error {
	if !validLoadFactor(ratio) {
		return NewErrInvalidLoadFactor(ratio)
	}
	m.setWarning(ratio)
	m.overloaded = len(m.slots) > 0 && len(m.entries) >= m.warnAt
	return nil
}

func (m *Map[K, V]) setWarning(ratio float64) {
	m.warnRatio = ratio
	m.warnAt = int(math.Ceil(ratio * float64(len(m.slots))))
}

// Stats returns a snapshot of the map counters and probe distances.
// Computing the probe distribution visits every slot.
func (m *Map[K, V]) Stats() MapStats {
	stats := MapStats{
		Len:      len(m.entries),
		Capacity: len(m.slots),
		Inserts:  m.counters.inserts,
		Updates:  m.counters.updates,
		Rejected: m.counters.rejected,
		Removes:  m.counters.removes,
		Hits:     m.counters.hits,
		Misses:   m.counters.misses,
	}

	var total uint64
	for pos, s := range m.slots {
		if m.isEmpty(s) {
			continue
		}
		d := int(m.distance(s.hash, uint32(pos))) // #nosec G115 - bounded by capacity
		total += uint64(d)                        // #nosec G115 - distance is non-negative
		if d > stats.MaxProbeDistance {
			stats.MaxProbeDistance = d
		}
	}
	if len(m.entries) > 0 {
		stats.MeanProbeDistance = float64(total) / float64(len(m.entries))
	}
	return stats
}

var _ Reconfigurable = (*Map[string, int])(nil)
