// interfaces.go: public interfaces for Fixmap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

// Reconfigurable is implemented by every *Map and receives the settings that
// can change while a map is live. See HotConfig.ApplyTo.
type Reconfigurable interface {
	// SetLoadFactorWarning changes the fill ratio that triggers the
	// degradation warning. The ratio must be in (0, 1].
	SetLoadFactorWarning(ratio float64) error
}

// MapStats provides statistics about a map and the operations it served.
type MapStats struct {
	// Len is the current number of entries
	Len int

	// Capacity is the fixed number of entries the map can hold
	Capacity int

	// Inserts is the number of inserts that added a new key
	Inserts uint64

	// Updates is the number of inserts that replaced the value of an existing key
	Updates uint64

	// Rejected is the number of inserts refused because the map was full
	Rejected uint64

	// Removes is the number of successful removals
	Removes uint64

	// Hits is the number of lookups that found their key
	Hits uint64

	// Misses is the number of lookups that did not find their key
	Misses uint64

	// MaxProbeDistance is the largest distance of any entry from its ideal slot
	MaxProbeDistance int

	// MeanProbeDistance is the average distance of entries from their ideal slot
	MeanProbeDistance float64
}

// LoadFactor returns Len / Capacity.
func (s MapStats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Len) / float64(s.Capacity)
}

// HitRatio returns the lookup hit ratio as a percentage (0-100).
// Returns 0.0 if no lookups have been performed yet.
func (s MapStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides the current time in nanoseconds.
// It is only consulted when a MetricsCollector is configured.
type TimeProvider interface {
	// Now returns the current time in nanoseconds.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector defines an interface for collecting map operation metrics.
// Implementations can send metrics to Prometheus, DataDog, StatsD, or other monitoring systems.
//
// A Map calls the collector synchronously from whichever goroutine owns it.
// Collectors shared between maps must be safe for concurrent use.
type MetricsCollector interface {
	// RecordInsert records an accepted Insert with its latency.
	// replaced reports whether an existing key had its value updated.
	RecordInsert(latencyNs int64, replaced bool)

	// RecordGet records a lookup with its latency and hit/miss result.
	RecordGet(latencyNs int64, hit bool)

	// RecordRemove records a Remove with its latency and whether the key was present.
	RecordRemove(latencyNs int64, found bool)

	// RecordRejected records an Insert refused because the map was full.
	RecordRejected()
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// A map configured with it skips latency measurement entirely.
type NoOpMetricsCollector struct{}

// RecordInsert does nothing.
func (NoOpMetricsCollector) RecordInsert(latencyNs int64, replaced bool) {}

// RecordGet does nothing.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordRemove does nothing.
func (NoOpMetricsCollector) RecordRemove(latencyNs int64, found bool) {}

// RecordRejected does nothing.
func (NoOpMetricsCollector) RecordRejected() {}
