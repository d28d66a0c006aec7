// Package fixmap provides a fixed capacity associative container for programs
// that cannot afford hidden allocation or resizing.
//
// # Overview
//
// Fixmap is designed for embedded and memory-constrained use with focus on:
//   - Predictability: storage is allocated once in New and never grows
//   - Bounded probing: Robin Hood ordering keeps probe sequences short
//   - No probe holes: removal uses backward-shift deletion, never tombstones
//   - Type Safety: generic API Map[K comparable, V any]
//
// # Quick Start
//
//	type Reading struct {
//	    Temperature float32
//	    Humidity    float32
//	}
//
//	type DeviceID [8]byte
//
//	m, err := fixmap.New[DeviceID, Reading](fixmap.Config{Capacity: 128})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev := DeviceID{'1', '2', '3', '4', '5', '6', '7', '8'}
//	if _, _, err := m.Insert(dev, Reading{Temperature: 23.1, Humidity: 76.3}); err != nil {
//	    // the map is full: err carries the rejected key and value
//	    k, v, _ := fixmap.RejectedEntry[DeviceID, Reading](err)
//	    _ = k
//	    _ = v
//	}
//
//	if r, ok := m.Get(dev); ok {
//	    fmt.Println(r.Temperature)
//	}
//
// # Data Layout
//
// Two arrays of identical length (the capacity, a power of two) cooperate:
//
//   - Slot table: one slot per bucket holding a truncated hash and an index
//     into the entry store, or the empty sentinel.
//   - Entry store: a dense array of key, value and truncated hash. It is
//     append-only with swap-removal, so iteration order is insertion order
//     except where a removal moved the last entry into the freed position.
//
// Memory overhead is 8 bytes per slot plus the entry array.
//
// # Hashing
//
// Hashes are deterministic and unseeded (FNV-1a by default; xxHash, XXH3 and
// Murmur3 are available through Config.HashAlgorithm). This trades hash
// flooding resistance for reproducible behavior, which is the right call for
// trusted inputs but not for keys chosen by an adversary.
//
// The digest is truncated to 15 bits (IndexWidthStandard, up to 32767
// entries) or 31 bits (IndexWidthExtended). The top bit is the empty
// sentinel and is masked away from every real hash. Two different keys share
// a truncated hash with probability about 2^-15 or 2^-31, so every match
// compares the key as well.
//
// # Capacity
//
// A full map rejects inserts with a FIXMAP_CAPACITY_EXHAUSTED error that
// carries the rejected key and value; nothing is evicted. Performance
// degrades noticeably above roughly 80% fill, so keep 10 to 20 percent of
// the capacity free. CapacityFor suggests a capacity for an expected number
// of entries and a warning is logged when the fill crosses
// Config.LoadFactorWarning.
//
// # Concurrency Model
//
// A Map is not safe for concurrent use. Every operation runs to completion
// without blocking; callers that share a map between goroutines must
// serialize access themselves, for example with a sync.Mutex.
//
// # Observability
//
//	stats := m.Stats()
//	fmt.Printf("len=%d max probe=%d hit ratio=%.2f%%\n",
//	    stats.Len, stats.MaxProbeDistance, stats.HitRatio())
//
// Operation latencies are reported to Config.MetricsCollector; the
// github.com/agilira/fixmap/otel module provides an OpenTelemetry collector.
// Timing is skipped entirely when no collector is configured.
//
// # Error Handling
//
// Fixmap uses structured errors from github.com/agilira/go-errors:
//   - FIXMAP_CAPACITY_EXHAUSTED: Insert into a full map
//   - FIXMAP_INVALID_CAPACITY: Capacity not a power of two or above the width limit
//   - FIXMAP_KEY_NOT_FOUND: MustGet on an absent key
//   - FIXMAP_DECODE_FAILED: JSON input does not fit the map
//   - FIXMAP_CORRUPTED_TABLE: Check found a broken invariant
//
// Absence is not an error: Get, Remove and ContainsKey report it with a bool.
//
// # Packages
//
//   - github.com/agilira/fixmap: Core map implementation
//   - github.com/agilira/fixmap/otel: OpenTelemetry integration (separate module)
//   - github.com/agilira/fixmap/cmd/fixbench: per-fill-level latency harness
//
// # License
//
// See LICENSE file in the repository.
package fixmap
