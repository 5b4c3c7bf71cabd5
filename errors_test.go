// errors_test.go: tests for the cellmap error taxonomy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cellmap

import "testing"

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"full", NewErrFull(10, 10), IsFull},
		{"duplicate", NewErrDuplicate(), IsDuplicate},
		{"not found", NewErrNotFound(), IsNotFound},
		{"stale", NewErrStaleValue(uint16(1)), IsStale},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.predicate(c.err) {
				t.Fatalf("predicate failed for %v", c.err)
			}
		})
	}
}

func TestErrorPredicatesAreExclusive(t *testing.T) {
	err := NewErrNotFound()
	if IsFull(err) || IsDuplicate(err) || IsStale(err) {
		t.Fatal("NewErrNotFound should only satisfy IsNotFound")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(NewErrFull(1, 1)); code != ErrCodeFull {
		t.Fatalf("GetErrorCode = %v; want %v", code, ErrCodeFull)
	}
	if code := GetErrorCode(nil); code != "" {
		t.Fatalf("GetErrorCode(nil) = %v; want empty", code)
	}
}

func TestGetErrorContext(t *testing.T) {
	ctx := GetErrorContext(NewErrFull(10, 9))
	if ctx == nil {
		t.Fatal("expected non-nil context for NewErrFull")
	}
	if ctx["capacity"] != 10 {
		t.Fatalf("context[capacity] = %v; want 10", ctx["capacity"])
	}
}

func TestNewErrInternalWrapsCause(t *testing.T) {
	cause := NewErrNotFound()
	wrapped := NewErrInternal("rollback", cause)
	if GetErrorCode(wrapped) != ErrCodeInternal {
		t.Fatalf("GetErrorCode(wrapped) = %v; want %v", GetErrorCode(wrapped), ErrCodeInternal)
	}
}
