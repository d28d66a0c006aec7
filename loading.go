// loading.go: GetOrInsertFunc, lookup-or-compute over a fixed capacity map
//
// The initializer runs synchronously on the calling goroutine. A map has no
// internal locking, so there is nothing to deduplicate: the caller already
// holds exclusive access for the whole call.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package fixmap

import (
	"context"
	"fmt"
)

// GetOrInsertFunc returns the value stored under key, or computes it with fn,
// inserts it and returns it.
//
// Parameters:
//   - key: The key to lookup or insert
//   - fn: Computes the value if key is absent. Must not be nil.
//
// Returns:
//   - value: The stored or computed value (zero value on error)
//   - error: FIXMAP_CAPACITY_EXHAUSTED if key is absent and the map is full
//     (fn is not called), FIXMAP_INIT_FAILED if fn is nil or returns an error,
//     FIXMAP_PANIC_RECOVERED if fn panics
//
// Nothing is inserted when fn fails.
//
// Example:
//
//	reading, err := m.GetOrInsertFunc(id, func() (Reading, error) {
//	    return sensor.Sample(id)
//	})
func (m *Map[K, V]) GetOrInsertFunc(key K, fn func() (V, error)) (V, error) {
	return m.getOrInsert(key, "GetOrInsertFunc", nil, fn)
}

// GetOrInsertFuncContext is like GetOrInsertFunc but passes ctx to fn and
// returns ctx.Err() without calling fn if ctx is already done.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
//	defer cancel()
//	reading, err := m.GetOrInsertFuncContext(ctx, id, func(ctx context.Context) (Reading, error) {
//	    return sensor.SampleContext(ctx, id)
//	})
func (m *Map[K, V]) GetOrInsertFuncContext(ctx context.Context, key K, fn func(context.Context) (V, error)) (V, error) {
	var compute func() (V, error)
	if fn != nil {
		compute = func() (V, error) { return fn(ctx) }
	}
	return m.getOrInsert(key, "GetOrInsertFuncContext", ctx.Err, compute)
}

// getOrInsert runs precheck (if any) after a miss and returns its error
// unwrapped; errors from compute are wrapped as FIXMAP_INIT_FAILED.
func (m *Map[K, V]) getOrInsert(key K, op string, precheck func() error, compute func() (V, error)) (V, error) {
	var zero V

	// Fast path
	if index, ok := m.lookup(key); ok {
		return m.entries[index].value, nil
	}

	if compute == nil {
		return zero, NewErrNilInitializer(key)
	}
	if precheck != nil {
		if err := precheck(); err != nil {
			return zero, err
		}
	}

	// Fail before running the initializer: its result could not be stored
	if m.IsFull() {
		_, _, err := m.Insert(key, zero)
		return zero, err
	}

	var (
		value V
		err   error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = NewErrPanicRecovered(fmt.Sprintf("%s:%v", op, key), r)
			}
		}()
		value, err = compute()
	}()

	if err != nil {
		if !IsPanicRecovered(err) {
			err = NewErrInitFailed(key, err)
		}
		return zero, err
	}

	if _, _, err := m.Insert(key, value); err != nil {
		return zero, err
	}
	return value, nil
}
