// errors.go: structured error handling for the concurrent containers
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error
// codes for both EnumMap and ResizableArray operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package concurrent

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for the concurrent containers.
const (
	// Enum map argument errors (1xxx)
	ErrCodeBadKey   errors.ErrorCode = "CCMAP_BAD_KEY"
	ErrCodeBadValue errors.ErrorCode = "CCMAP_BAD_VALUE"

	// Iterator errors (2xxx)
	ErrCodeIteratorExhausted errors.ErrorCode = "CCMAP_ITERATOR_EXHAUSTED"

	// Resizable array errors (3xxx)
	ErrCodeUnsupportedOp  errors.ErrorCode = "CCARR_UNSUPPORTED_OP"
	ErrCodeInvalidLength  errors.ErrorCode = "CCARR_INVALID_LENGTH"
	ErrCodeIndexOutOfBounds errors.ErrorCode = "CCARR_INDEX_OUT_OF_BOUNDS"

	// Internal invariant errors (9xxx)
	ErrCodeInternalInvariant errors.ErrorCode = "CCCORE_INTERNAL_INVARIANT"
	ErrCodePanicRecovered    errors.ErrorCode = "CCCORE_PANIC_RECOVERED"
)

// Common error messages.
const (
	msgBadKey              = "key is nil or outside the enum domain"
	msgBadValue            = "value cannot be nil"
	msgIteratorExhausted   = "iterator has no further elements"
	msgUnsupportedOp       = "operation is not supported by this container variant"
	msgInvalidLength       = "length must be non-negative"
	msgIndexOutOfBounds    = "index is outside the current backing array"
	msgInternalInvariant   = "internal invariant violated"
	msgPanicRecovered      = "panic recovered during a compute callback"
)

// =============================================================================
// ENUM MAP ARGUMENT ERRORS
// =============================================================================

// NewErrBadKey creates an error for a nil or out-of-domain key supplied to
// a mutating EnumMap operation. Per §4.3, the same condition on a
// read-only operation (Get/Remove) does not raise this error: it is
// treated as absence instead.
func NewErrBadKey(operation string, ordinal int) error {
	return errors.NewWithContext(ErrCodeBadKey, msgBadKey, map[string]interface{}{
		"operation": operation,
		"ordinal":   ordinal,
	})
}

// NewErrBadValue creates an error for a nil value supplied to a mutating
// EnumMap operation.
func NewErrBadValue(operation string) error {
	return errors.NewWithField(ErrCodeBadValue, msgBadValue, "operation", operation)
}

// =============================================================================
// ITERATOR ERRORS
// =============================================================================

// NewErrIteratorExhausted creates an error for MustNext called past the
// end of an iterator.
func NewErrIteratorExhausted() error {
	return errors.New(ErrCodeIteratorExhausted, msgIteratorExhausted)
}

// =============================================================================
// RESIZABLE ARRAY ERRORS
// =============================================================================

// NewErrUnsupportedOp creates an error for an operation a container
// variant declines to implement (§7 "Unsupported").
func NewErrUnsupportedOp(operation string) error {
	return errors.NewWithField(ErrCodeUnsupportedOp, msgUnsupportedOp, "operation", operation)
}

// NewErrInvalidLength creates an error for a negative length passed to
// Resize/ResizeRange.
func NewErrInvalidLength(length int) error {
	return errors.NewWithField(ErrCodeInvalidLength, msgInvalidLength, "length", length)
}

// NewErrIndexOutOfBounds creates an error for an index outside the
// current backing array.
func NewErrIndexOutOfBounds(index, length int) error {
	return errors.NewWithContext(ErrCodeIndexOutOfBounds, msgIndexOutOfBounds, map[string]interface{}{
		"index":  index,
		"length": length,
	})
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternalInvariant creates an error for a violated internal
// invariant (e.g. observing an uninitialized slot). Such an error
// indicates a defect in the transfer protocol itself, not caller misuse.
func NewErrInternalInvariant(where string) error {
	return errors.NewWithField(ErrCodeInternalInvariant, msgInternalInvariant, "where", where).
		WithSeverity("critical")
}

// NewErrPanicRecovered creates an error when a panic inside a user-supplied
// compute/merge callback is recovered before it can cross the CAS retry
// loop boundary.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsBadArgument reports whether err is a bad-key or bad-value error.
func IsBadArgument(err error) bool {
	return errors.HasCode(err, ErrCodeBadKey) || errors.HasCode(err, ErrCodeBadValue)
}

// IsIteratorExhausted reports whether err signals an exhausted iterator.
func IsIteratorExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeIteratorExhausted)
}

// IsUnsupported reports whether err signals an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.HasCode(err, ErrCodeUnsupportedOp)
}

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
	var ccErr *errors.Error
	if goerrors.As(err, &ccErr) {
		return ccErr.Context
	}
	return nil
}
