// debug_on.go: table invariant assertions for fixmap_debug builds
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build fixmap_debug

package fixmap

const debugChecks = true
