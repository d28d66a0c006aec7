// assert.go: invariant violation reporting
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

// invariantViolated panics with a FIXMAP_CORRUPTED_TABLE error. Callers guard
// it with debugChecks so release builds pay nothing for the check.
func invariantViolated(invariant, format string, args ...interface{}) {
	panic(corrupted(invariant, format, args...))
}
