// errors.go: structured error handling for fixmap operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes.
// Only Insert into a full map is a recoverable runtime error; absence of a
// key is reported with a bool, never with an error.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package fixmap

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for Fixmap operations
const (
	// Configuration errors
	ErrCodeInvalidConfig     errors.ErrorCode = "FIXMAP_INVALID_CONFIG"
	ErrCodeInvalidCapacity   errors.ErrorCode = "FIXMAP_INVALID_CAPACITY"
	ErrCodeInvalidLoadFactor errors.ErrorCode = "FIXMAP_INVALID_LOAD_FACTOR"

	// Operation errors
	ErrCodeCapacityExhausted errors.ErrorCode = "FIXMAP_CAPACITY_EXHAUSTED"
	ErrCodeKeyNotFound       errors.ErrorCode = "FIXMAP_KEY_NOT_FOUND"
	ErrCodeInitFailed        errors.ErrorCode = "FIXMAP_INIT_FAILED"

	// Encoding errors
	ErrCodeEncodeFailed errors.ErrorCode = "FIXMAP_ENCODE_FAILED"
	ErrCodeDecodeFailed errors.ErrorCode = "FIXMAP_DECODE_FAILED"

	// Internal errors
	ErrCodeCorruptedTable errors.ErrorCode = "FIXMAP_CORRUPTED_TABLE"
	ErrCodePanicRecovered errors.ErrorCode = "FIXMAP_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidConfig     = "invalid map configuration"
	msgInvalidCapacity   = "invalid capacity: must be a power of two within the index width limit"
	msgInvalidLoadFactor = "invalid load factor warning: must be between 0.0 and 1.0"
	msgCapacityExhausted = "map is full"
	msgKeyNotFound       = "key not found in map"
	msgInitFailed        = "value initializer failed"
	msgNilInitializer    = "value initializer is nil"
	msgEncodeFailed      = "failed to encode map"
	msgDecodeFailed      = "failed to decode map"
	msgCorruptedTable    = "map invariant violated"
	msgPanicRecovered    = "panic recovered in map operation"
)

// Context keys carrying the entry refused by a full map.
const (
	ctxRejectedKey   = "rejected_key"
	ctxRejectedValue = "rejected_value"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidConfig creates an error for an unknown configuration value
func NewErrInvalidConfig(field string, value interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidConfig, msgInvalidConfig, map[string]interface{}{
		"field":          field,
		"provided_value": value,
	})
}

// NewErrInvalidCapacity creates an error for a capacity that is not a power of
// two or exceeds the entry limit of the index width
func NewErrInvalidCapacity(capacity int, width IndexWidth) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"index_width":       width.String(),
		"maximum_entries":   layoutFor(width).maxEntries,
	})
}

// NewErrInvalidLoadFactor creates an error for a load factor warning outside (0, 1]
func NewErrInvalidLoadFactor(ratio float64) error {
	return errors.NewWithContext(ErrCodeInvalidLoadFactor, msgInvalidLoadFactor, map[string]interface{}{
		"provided_ratio": ratio,
		"valid_range":    "0.0 < ratio <= 1.0",
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrCapacityExhausted creates an error for an insert into a full map.
// The rejected key and value travel in the error context; see RejectedEntry.
func NewErrCapacityExhausted(capacity int, key, value interface{}) error {
	return errors.NewWithContext(ErrCodeCapacityExhausted, msgCapacityExhausted, map[string]interface{}{
		"capacity":       capacity,
		ctxRejectedKey:   key,
		ctxRejectedValue: value,
	})
}

// NewErrKeyNotFound creates an error when key is not found
func NewErrKeyNotFound(key interface{}) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", fmt.Sprintf("%v", key))
}

// NewErrInitFailed creates an error when a GetOrInsertFunc initializer fails
func NewErrInitFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeInitFailed, msgInitFailed).
		WithContext("key", fmt.Sprintf("%v", key))
}

// NewErrNilInitializer creates an error for a GetOrInsertFunc call without an initializer
func NewErrNilInitializer(key interface{}) error {
	return errors.NewWithField(ErrCodeInitFailed, msgNilInitializer, "key", fmt.Sprintf("%v", key))
}

// =============================================================================
// ENCODING ERRORS
// =============================================================================

// NewErrEncodeFailed creates an error when a map cannot be serialized
func NewErrEncodeFailed(format string, cause error) error {
	return errors.Wrap(cause, ErrCodeEncodeFailed, msgEncodeFailed).
		WithContext("format", format)
}

// NewErrDecodeFailed creates an error when serialized input cannot be loaded
func NewErrDecodeFailed(format string, cause error) error {
	return errors.Wrap(cause, ErrCodeDecodeFailed, msgDecodeFailed).
		WithContext("format", format)
}

// NewErrTooManyEntries creates a decode error for input larger than the map
func NewErrTooManyEntries(format string, entries, capacity int) error {
	return errors.NewWithContext(ErrCodeDecodeFailed, msgDecodeFailed, map[string]interface{}{
		"format":   format,
		"entries":  entries,
		"capacity": capacity,
	})
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrCorruptedTable creates an error describing a broken table invariant
func NewErrCorruptedTable(invariant string, details string) error {
	return errors.NewWithContext(ErrCodeCorruptedTable, msgCorruptedTable, map[string]interface{}{
		"invariant": invariant,
		"details":   details,
	}).WithSeverity("critical")
}

// NewErrPanicRecovered creates an error when a panic is recovered
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsCapacityExhausted checks if error is a full-map insert error
func IsCapacityExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExhausted)
}

// IsNotFound checks if error is a key not found error
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsCorrupted checks if error reports a broken table invariant
func IsCorrupted(err error) bool {
	return errors.HasCode(err, ErrCodeCorruptedTable)
}

// IsPanicRecovered checks if error wraps a recovered panic
func IsPanicRecovered(err error) bool {
	return errors.HasCode(err, ErrCodePanicRecovered)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeInvalidConfig || code == ErrCodeInvalidCapacity || code == ErrCodeInvalidLoadFactor
}

// IsEncodingError checks if error is a serialization error
func IsEncodingError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeEncodeFailed || code == ErrCodeDecodeFailed
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var fixErr *errors.Error
	if goerrors.As(err, &fixErr) {
		return fixErr.Context
	}
	return nil
}

// RejectedEntry returns the key and value an Insert gave back because the map
// was full. ok is false if err is not a capacity error for these types.
func RejectedEntry[K comparable, V any](err error) (key K, value V, ok bool) {
	if !IsCapacityExhausted(err) {
		return key, value, false
	}
	ctx := GetErrorContext(err)
	k, kok := ctx[ctxRejectedKey].(K)
	v, vok := ctx[ctxRejectedValue].(V)
	if !kok || !vok {
		// a nil interface value in the context does not assert to V
		if ctx[ctxRejectedValue] == nil && kok {
			return k, value, true
		}
		return key, value, false
	}
	return k, v, true
}
