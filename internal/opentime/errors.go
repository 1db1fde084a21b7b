package opentime

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes time algebra errors.
type ErrorCode string

const (
	// ErrCodeInvalidRange indicates a negative duration or malformed range.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"

	// ErrCodeDisjointRange indicates a union of ranges that neither touch
	// nor overlap.
	ErrCodeDisjointRange ErrorCode = "DISJOINT_RANGE"

	// ErrCodeInexactRescale indicates a time that cannot be expressed at the
	// requested rate without rounding.
	ErrCodeInexactRescale ErrorCode = "INEXACT_RESCALE"

	// ErrCodeOverflow indicates arithmetic whose result does not fit in
	// int64 ticks even at the smallest common rate.
	ErrCodeOverflow ErrorCode = "OVERFLOW"
)

// RangeError is returned by time algebra operations.
type RangeError struct {
	Code    ErrorCode
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRangeError creates a RangeError for a malformed range.
func NewInvalidRangeError(format string, args ...any) *RangeError {
	return &RangeError{Code: ErrCodeInvalidRange, Message: fmt.Sprintf(format, args...)}
}

func overflow(format string, args ...any) *RangeError {
	return &RangeError{Code: ErrCodeOverflow, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidRange reports whether err is (or wraps) an invalid range error.
func IsInvalidRange(err error) bool {
	return hasCode(err, ErrCodeInvalidRange)
}

// IsDisjointRange reports whether err is (or wraps) a disjoint range error.
func IsDisjointRange(err error) bool {
	return hasCode(err, ErrCodeDisjointRange)
}

func hasCode(err error, code ErrorCode) bool {
	var re *RangeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
