// Package fixmap provides a fixed capacity hash map that never resizes.
//
// Fixmap is based on Robin Hood hashing with backward-shift deletion and
// is designed for memory-constrained programs: both internal arrays are
// allocated once at construction and reused for the lifetime of the map.
//
// Example usage:
//
//	m := fixmap.MustNew[uint32, string](fixmap.Config{
//		Capacity: 1024,
//	})
//
//	m.Insert(7, "seven")
//	value, found := m.Get(7)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package fixmap

const (
	// Version of Fixmap library
	Version = "v0.1.0-dev"

	// DefaultCapacity is the default number of entries a map can hold
	DefaultCapacity = 64

	// DefaultLoadFactorWarning is the fill ratio above which lookups degrade
	// noticeably and a warning is logged once.
	DefaultLoadFactorWarning = 0.80

	// MaxEntriesStandard is the entry limit of IndexWidthStandard (15-bit hashes).
	MaxEntriesStandard = 0x7fff

	// MaxEntriesExtended is the entry limit of IndexWidthExtended (31-bit hashes).
	MaxEntriesExtended = 0x7fffffff
)
