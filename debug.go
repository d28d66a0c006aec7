// debug.go: table invariant assertions, compiled out by default
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build !fixmap_debug

package fixmap

// debugChecks enables the inline invariant assertions of the probing engine.
// Build with -tags fixmap_debug to turn them on.
const debugChecks = false
