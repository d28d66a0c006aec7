// loading_test.go: tests for GetOrInsertFunc
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	"context"
	goerrors "errors"
	"testing"
)

func TestGetOrInsertFunc_Miss(t *testing.T) {
	m := MustNew[string, int](Config{Capacity: 8})
	calls := 0

	v, err := m.GetOrInsertFunc("a", func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("GetOrInsertFunc failed: %v", err)
	}
	if v != 42 || calls != 1 {
		t.Errorf("expected 42 from one call, got %d from %d calls", v, calls)
	}
	if got, ok := m.Get("a"); !ok || got != 42 {
		t.Errorf("expected the computed value to be stored, got %d, %v", got, ok)
	}
}

func TestGetOrInsertFunc_Hit(t *testing.T) {
	m := MustNew[string, int](Config{Capacity: 8})
	_, _, _ = m.Insert("a", 1)

	v, err := m.GetOrInsertFunc("a", func() (int, error) {
		t.Error("initializer must not run on a hit")
		return 0, nil
	})
	if err != nil || v != 1 {
		t.Errorf("expected stored 1, got %d, %v", v, err)
	}
}

func TestGetOrInsertFunc_Error(t *testing.T) {
	m := MustNew[string, int](Config{Capacity: 8})
	cause := goerrors.New("sensor offline")

	v, err := m.GetOrInsertFunc("a", func() (int, error) { return 7, cause })
	if GetErrorCode(err) != ErrCodeInitFailed {
		t.Fatalf("expected %s, got %v", ErrCodeInitFailed, err)
	}
	if !goerrors.Is(err, cause) {
		t.Error("expected the initializer error to be wrapped")
	}
	if v != 0 {
		t.Errorf("expected zero value on error, got %d", v)
	}
	if m.ContainsKey("a") {
		t.Error("nothing must be inserted when the initializer fails")
	}
}

func TestGetOrInsertFunc_Panic(t *testing.T) {
	m := MustNew[string, int](Config{Capacity: 8})

	_, err := m.GetOrInsertFunc("a", func() (int, error) { panic("boom") })
	if !IsPanicRecovered(err) {
		t.Fatalf("expected %s, got %v", ErrCodePanicRecovered, err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty map after panic, got len %d", m.Len())
	}
}

func TestGetOrInsertFunc_Nil(t *testing.T) {
	m := MustNew[string, int](Config{Capacity: 8})
	if _, err := m.GetOrInsertFunc("a", nil); GetErrorCode(err) != ErrCodeInitFailed {
		t.Errorf("expected %s for nil initializer, got %v", ErrCodeInitFailed, err)
	}
}

func TestGetOrInsertFunc_Full(t *testing.T) {
	m := MustNew[int, int](Config{Capacity: 2})
	_, _, _ = m.Insert(1, 1)
	_, _, _ = m.Insert(2, 2)

	_, err := m.GetOrInsertFunc(3, func() (int, error) {
		t.Error("initializer must not run when the map is full")
		return 3, nil
	})
	if !IsCapacityExhausted(err) {
		t.Errorf("expected %s, got %v", ErrCodeCapacityExhausted, err)
	}

	// Present keys are still served from a full map
	if v, err := m.GetOrInsertFunc(2, nil); err != nil || v != 2 {
		t.Errorf("expected hit on a full map, got %d, %v", v, err)
	}
}

func TestGetOrInsertFuncContext(t *testing.T) {
	m := MustNew[string, string](Config{Capacity: 8})

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")

	v, err := m.GetOrInsertFuncContext(ctx, "a", func(ctx context.Context) (string, error) {
		return ctx.Value(ctxKey{}).(string), nil
	})
	if err != nil || v != "from-ctx" {
		t.Errorf("expected value from context, got %q, %v", v, err)
	}
}

func TestGetOrInsertFuncContext_Cancelled(t *testing.T) {
	m := MustNew[string, string](Config{Capacity: 8})
	_, _, _ = m.Insert("hit", "cached")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GetOrInsertFuncContext(ctx, "a", func(context.Context) (string, error) {
		t.Error("initializer must not run with a cancelled context")
		return "", nil
	})
	if !goerrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	// Hits do not consult the context
	if v, err := m.GetOrInsertFuncContext(ctx, "hit", nil); err != nil || v != "cached" {
		t.Errorf("expected cached hit, got %q, %v", v, err)
	}
}
