// config.go: configuration for Fixmap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	"math"
	"math/bits"
	"time"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a map.
type Config struct {
	// Capacity is the fixed number of entries the map can hold.
	// Must be a power of two no larger than the IndexWidth limit.
	// Default: DefaultCapacity.
	Capacity int

	// IndexWidth selects 15-bit (standard) or 31-bit (extended) slot hashes.
	// Default: IndexWidthStandard.
	IndexWidth IndexWidth

	// HashAlgorithm selects the unseeded key digest. Default: HashFNV1a.
	HashAlgorithm HashAlgorithm

	// LoadFactorWarning is the fill ratio at which a degradation warning is
	// logged. Must be in (0, 1]. Default: DefaultLoadFactorWarning.
	LoadFactorWarning float64

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides the clock for operation latencies.
	// If nil, a cached clock is used. Default: go-timecache.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics (latencies, hit/miss rates).
	// If nil, NoOpMetricsCollector is used (zero overhead). Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies defaults to zero values.
//
// This method is automatically called by New, so you typically don't need to
// call it manually.
//
// Default values applied:
//   - Capacity: DefaultCapacity if 0
//   - LoadFactorWarning: DefaultLoadFactorWarning if 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
//
// Errors returned:
//   - FIXMAP_INVALID_CAPACITY: negative, not a power of two, or above the width limit
//   - FIXMAP_INVALID_LOAD_FACTOR: LoadFactorWarning outside (0, 1]
//   - FIXMAP_INVALID_CONFIG: unknown IndexWidth or HashAlgorithm
func (c *Config) Validate() error {
	if c.IndexWidth != IndexWidthStandard && c.IndexWidth != IndexWidthExtended {
		return NewErrInvalidConfig("index_width", int(c.IndexWidth))
	}

	if c.HashAlgorithm < HashFNV1a || c.HashAlgorithm > HashMurmur3 {
		return NewErrInvalidConfig("hash", int(c.HashAlgorithm))
	}

	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if !validCapacity(c.Capacity, c.IndexWidth) {
		return NewErrInvalidCapacity(c.Capacity, c.IndexWidth)
	}

	if c.LoadFactorWarning == 0 {
		c.LoadFactorWarning = DefaultLoadFactorWarning
	}
	if !validLoadFactor(c.LoadFactorWarning) {
		return NewErrInvalidLoadFactor(c.LoadFactorWarning)
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:          DefaultCapacity,
		IndexWidth:        IndexWidthStandard,
		HashAlgorithm:     HashFNV1a,
		LoadFactorWarning: DefaultLoadFactorWarning,
		Logger:            NoOpLogger{},
		TimeProvider:      &systemTimeProvider{},
		MetricsCollector:  NoOpMetricsCollector{},
	}
}

// CapacityFor returns the smallest valid capacity that keeps entries at or
// below DefaultLoadFactorWarning. Returns 0 if no capacity of the given width
// is large enough.
func CapacityFor(entries int, width IndexWidth) int {
	if entries <= 0 {
		return 1
	}
	need := int(math.Ceil(float64(entries) / DefaultLoadFactorWarning))
	capacity := nextPowerOf2(need)
	if !validCapacity(capacity, width) {
		return 0
	}
	return capacity
}

func validCapacity(capacity int, width IndexWidth) bool {
	return capacity > 0 &&
		capacity&(capacity-1) == 0 &&
		capacity <= layoutFor(width).maxEntries
}

func validLoadFactor(ratio float64) bool {
	return ratio > 0 && ratio <= 1
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// systemTimeProvider is the default time provider using go-timecache.
// Its resolution is coarse; use PreciseTimeProvider for sub-microsecond latencies.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// PreciseTimeProvider reads the monotonic clock on every call.
type PreciseTimeProvider struct {
	epoch time.Time
}

// NewPreciseTimeProvider returns a TimeProvider measuring from now.
func NewPreciseTimeProvider() *PreciseTimeProvider {
	return &PreciseTimeProvider{epoch: time.Now()}
}

// Now returns nanoseconds elapsed since the provider was created.
func (p *PreciseTimeProvider) Now() int64 {
	return int64(time.Since(p.epoch))
}
