// errors.go: structured error taxonomy for cellmap operations
//
// This mirrors the teacher library's approach: rich, structured errors via
// go-errors, with stable error codes and small constructor functions, so
// callers can branch on outcome without string matching.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package cellmap

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for cellmap map operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidOption errors.ErrorCode = "CELLMAP_INVALID_OPTION"

	// Operation errors (2xxx) — the total outcome set from spec.md §7.
	ErrCodeFull        errors.ErrorCode = "CELLMAP_FULL"
	ErrCodeDuplicate   errors.ErrorCode = "CELLMAP_DUPLICATE"
	ErrCodeNotFound    errors.ErrorCode = "CELLMAP_NOT_FOUND"
	ErrCodeStaleValue  errors.ErrorCode = "CELLMAP_STALE_VALUE"

	// Internal errors (5xxx)
	ErrCodeInternal errors.ErrorCode = "CELLMAP_INTERNAL"
)

const (
	msgInvalidOption = "invalid map option"
	msgFull          = "map is at effective capacity"
	msgDuplicate     = "key already occupies a cell"
	msgNotFound      = "key not found"
	msgStaleValue    = "observed value did not satisfy the update predicate"
	msgInternal      = "internal cellmap invariant violation"
)

// NewErrInvalidOption creates an error describing a rejected Options field.
func NewErrInvalidOption(field string, value interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidOption, msgInvalidOption, map[string]interface{}{
		"field": field,
		"value": value,
	})
}

// NewErrFull creates the "map is at effective capacity" error.
func NewErrFull(capacity, size int) error {
	return errors.NewWithContext(ErrCodeFull, msgFull, map[string]interface{}{
		"capacity":     capacity,
		"current_size": size,
	})
}

// NewErrDuplicate creates the "key already present" error.
func NewErrDuplicate() error {
	return errors.NewWithContext(ErrCodeDuplicate, msgDuplicate, nil)
}

// NewErrNotFound creates the "key not found" error.
func NewErrNotFound() error {
	return errors.NewWithContext(ErrCodeNotFound, msgNotFound, nil)
}

// NewErrStaleValue creates the "predicate rejected current value" error.
// The current value is attached as context so FetchUpdate callers can
// inspect it without a second Get.
func NewErrStaleValue(current interface{}) error {
	return errors.NewWithField(ErrCodeStaleValue, msgStaleValue, "current_value", current)
}

// NewErrInternal wraps an unexpected invariant violation (e.g. a rollback
// that raced with another insert and could not be reversed). Per spec.md
// §9, a failed speculative-key rollback leaks a slot rather than
// corrupting the table — this is reported so operators can watch for it,
// not treated as fatal.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternal, msgInternal).WithContext("operation", operation)
	}
	return errors.NewWithField(ErrCodeInternal, msgInternal, "operation", operation)
}

// IsFull reports whether err is the "map at capacity" outcome.
func IsFull(err error) bool { return errors.HasCode(err, ErrCodeFull) }

// IsDuplicate reports whether err is the "key already present" outcome.
func IsDuplicate(err error) bool { return errors.HasCode(err, ErrCodeDuplicate) }

// IsNotFound reports whether err is the "key not found" outcome.
func IsNotFound(err error) bool { return errors.HasCode(err, ErrCodeNotFound) }

// IsStale reports whether err is the "predicate rejected value" outcome.
func IsStale(err error) bool { return errors.HasCode(err, ErrCodeStaleValue) }

// IsInternal reports whether err is a contained invariant violation, as
// returned by TryInsert when a speculative rollback could not be reversed.
func IsInternal(err error) bool { return errors.HasCode(err, ErrCodeInternal) }

// GetErrorCode extracts the error code from an error, if any.
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

// GetErrorContext extracts structured context from an error, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var cellmapErr *errors.Error
	if goerrors.As(err, &cellmapErr) {
		return cellmapErr.Context
	}
	return nil
}
